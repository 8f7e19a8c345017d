package templates_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/csg33k/people-indicators/internal/domain"
	"github.com/csg33k/people-indicators/internal/templates"
)

func TestNewDataPage(t *testing.T) {
	roster := make(domain.Roster, 250)
	tests := []struct {
		name     string
		roster   domain.Roster
		page     int
		wantPage int
		wantRows int
		pages    int
	}{
		{"first page", roster, 1, 1, 100, 3},
		{"last partial page", roster, 3, 3, 50, 3},
		{"page past the end clamps", roster, 9, 3, 50, 3},
		{"page zero clamps", roster, 0, 1, 100, 3},
		{"empty roster", nil, 1, 1, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := templates.NewDataPage(tt.roster, "base.xlsx", tt.page)
			if p.Page != tt.wantPage || len(p.Rows) != tt.wantRows || p.Pages != tt.pages {
				t.Errorf("got page=%d rows=%d pages=%d, want page=%d rows=%d pages=%d",
					p.Page, len(p.Rows), p.Pages, tt.wantPage, tt.wantRows, tt.pages)
			}
		})
	}
}

func TestTurnoverTabFormatting(t *testing.T) {
	rep := domain.TurnoverReport{
		Filter:  domain.Filter{Gender: domain.FilterAll, Role: "Gerente", Year: 2023},
		Genders: []string{"Feminino", "Masculino"},
		Roles:   []string{"Analista", "Gerente"},
		Years:   []int{2022, 2023},
		Result:  domain.TurnoverResult{Year: 2023, GenderFilter: domain.FilterAll, RoleFilter: "Gerente", Entries: 1, Exits: 2, AverageHeadcount: 2.5, TurnoverRate: 60},
		Timeline: []domain.MonthActivity{
			{Month: time.January}, {Month: time.February, Entries: 1},
		},
	}
	var buf bytes.Buffer
	if err := templates.TurnoverTab(rep).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"60,00%",
		"2,50",
		`<option value="Gerente" selected>`,
		`<option value="2023" selected>`,
		"Sexo: Todos",
		`"Jan","Fev"`,
	} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestIndexWithoutSession(t *testing.T) {
	var buf bytes.Buffer
	err := templates.Index(templates.IndexData{MaxUploadBytes: 32 << 20, Tabs: templates.Tabs}).Render(context.Background(), &buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("até 32 MB")) {
		t.Error("upload limit not shown")
	}
	if !bytes.Contains(buf.Bytes(), []byte("Nenhum dado carregado")) {
		t.Error("no-data notice not shown")
	}
}
