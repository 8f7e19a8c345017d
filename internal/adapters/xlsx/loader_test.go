package xlsx_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/csg33k/people-indicators/internal/adapters/xlsx"
	"github.com/csg33k/people-indicators/internal/domain"
)

var header = []interface{}{
	"Nome", "Contratado", "Desligado", "Sexo", "Função",
	"Data de Nascimento", "Casado", "Tem filhos", "Estado", "Cidade",
}

// workbook builds an in-memory xlsx with the given sheet name and rows.
func workbook(t *testing.T, sheet string, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := r
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLoad_ParsesRows(t *testing.T) {
	buf := workbook(t, "BD",
		header,
		[]interface{}{"Ana", day(2020, time.January, 10), "", "Feminino", "Analista", day(1990, time.May, 3), "Sim", "Não", "São Paulo", "Campinas"},
		[]interface{}{"Bruno", 44348.0, "15/03/2023", " Masculino ", "Gerente", "1985-12-01", "Não", "Sim", "Paraná", "Curitiba"},
		[]interface{}{},
		[]interface{}{"Carla", "ontem", "não sei", "Feminino", "Técnico", "", "", "", "", ""},
	)

	roster, report, err := xlsx.New().Load(context.Background(), buf, "base.xlsx")
	require.NoError(t, err)
	require.Len(t, roster, 3)

	assert.Equal(t, 3, report.RowsRead)
	assert.Equal(t, 1, report.RowsSkipped)
	assert.Equal(t, 2, report.InvalidDates)
	assert.Equal(t, "base.xlsx", report.FileName)

	ana := roster[0]
	require.NotNil(t, ana.HireDate)
	assert.Equal(t, day(2020, time.January, 10), *ana.HireDate)
	assert.Nil(t, ana.TerminationDate)
	assert.Equal(t, "Feminino", ana.Gender)
	assert.Equal(t, "Campinas", ana.City)
	assert.Equal(t, 2, ana.Row)

	bruno := roster[1]
	require.NotNil(t, bruno.HireDate)
	assert.Equal(t, day(2021, time.June, 1), *bruno.HireDate)
	require.NotNil(t, bruno.TerminationDate)
	assert.Equal(t, day(2023, time.March, 15), *bruno.TerminationDate)
	assert.Equal(t, "Masculino", bruno.Gender, "values are trimmed")
	require.NotNil(t, bruno.BirthDate)
	assert.Equal(t, day(1985, time.December, 1), *bruno.BirthDate)

	carla := roster[2]
	assert.Nil(t, carla.HireDate, "malformed dates become missing")
	assert.Nil(t, carla.TerminationDate)
	assert.Equal(t, 5, carla.Row)
}

func TestLoad_MissingSheet(t *testing.T) {
	buf := workbook(t, "Planilha1", header)
	_, _, err := xlsx.New().Load(context.Background(), buf, "base.xlsx")
	require.ErrorIs(t, err, domain.ErrSheetNotFound)
}

func TestLoad_MissingColumns(t *testing.T) {
	buf := workbook(t, "BD", []interface{}{"Contratado", "Desligado", "Sexo"})
	_, _, err := xlsx.New().Load(context.Background(), buf, "base.xlsx")
	require.ErrorIs(t, err, domain.ErrMissingColumns)
	assert.Contains(t, err.Error(), "Função")
	assert.Contains(t, err.Error(), "Cidade")
	assert.NotContains(t, err.Error(), "Desligado")
}

func TestLoad_HeaderOnlyGivesEmptyRoster(t *testing.T) {
	buf := workbook(t, "BD", header)
	roster, report, err := xlsx.New().Load(context.Background(), buf, "BASE.XLSX")
	require.NoError(t, err)
	assert.Empty(t, roster)
	assert.Zero(t, report.RowsRead)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	_, _, err := xlsx.New().Load(context.Background(), bytes.NewBufferString("a,b"), "base.csv")
	require.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestLoad_CorruptWorkbook(t *testing.T) {
	_, _, err := xlsx.New().Load(context.Background(), bytes.NewBufferString("not a zip"), "base.xlsx")
	require.Error(t, err)
}

func TestWriteRoster_RoundTrip(t *testing.T) {
	hire := day(2019, time.April, 2)
	term := day(2022, time.August, 31)
	in := domain.Roster{
		{HireDate: &hire, TerminationDate: &term, Gender: "Feminino", Role: "Analista", Married: "Sim", HasChildren: "Não", State: "Bahia", City: "Salvador"},
		{HireDate: &hire, Gender: "Masculino", Role: "Gerente", State: "Pará", City: "Belém"},
	}
	var buf bytes.Buffer
	require.NoError(t, xlsx.WriteRoster(&buf, in))

	out, _, err := xlsx.New().Load(context.Background(), &buf, "sample.xlsx")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, hire, *out[0].HireDate)
	assert.Equal(t, term, *out[0].TerminationDate)
	assert.Nil(t, out[1].TerminationDate)
	assert.Nil(t, out[1].BirthDate)
	assert.Equal(t, "Belém", out[1].City)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"43840", day(2020, time.January, 10), true},
		{"43840.75", day(2020, time.January, 10), true},
		{"2021-06-01", day(2021, time.June, 1), true},
		{"01/06/2021", day(2021, time.June, 1), true},
		{"2021-06-01 08:30:00", day(2021, time.June, 1), true},
		{"", time.Time{}, false},
		{"   ", time.Time{}, false},
		{"0", time.Time{}, false},
		{"-5", time.Time{}, false},
		{"31/02/2021", time.Time{}, false},
		{"amanhã", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := xlsx.ParseDate(tt.in, false)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
