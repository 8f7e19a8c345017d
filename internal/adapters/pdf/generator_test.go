package pdf_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/csg33k/people-indicators/internal/adapters/pdf"
	"github.com/csg33k/people-indicators/internal/domain"
)

func sampleReport(withBreakdown bool) *domain.TurnoverReport {
	timeline := make([]domain.MonthActivity, 12)
	for i := range timeline {
		timeline[i] = domain.MonthActivity{Month: time.Month(i + 1)}
	}
	timeline[2].Entries = 3
	timeline[7].Exits = 1
	rep := &domain.TurnoverReport{
		Filter: domain.Filter{Gender: domain.FilterAll, Role: "Analista", Year: 2023},
		Result: domain.TurnoverResult{
			Year: 2023, GenderFilter: domain.FilterAll, RoleFilter: "Analista",
			Entries: 3, Exits: 1, ActiveStart: 10, ActiveEnd: 12,
			AverageHeadcount: 11, TurnoverRate: 18.18,
		},
		Timeline: timeline,
	}
	if withBreakdown {
		rep.Breakdown = []domain.CategoryFlow{
			{Category: "Feminino", Entries: 2, Exits: 1},
			{Category: "Masculino", Entries: 1},
			{Category: "Não binário"},
		}
	}
	return rep
}

func TestGeneratePDF(t *testing.T) {
	src := pdf.Source{FileName: "base.xlsx", GeneratedAt: time.Date(2024, time.February, 1, 9, 30, 0, 0, time.UTC)}

	for _, tc := range []struct {
		name      string
		breakdown bool
	}{
		{"timeline only", false},
		{"with gender breakdown", true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := pdf.GeneratePDF(sampleReport(tc.breakdown), src, &buf); err != nil {
				t.Fatalf("GeneratePDF: %v", err)
			}
			if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
				t.Fatalf("output does not start with a PDF header: %q", buf.Bytes()[:min(8, buf.Len())])
			}
			if buf.Len() < 1000 {
				t.Errorf("suspiciously small PDF: %d bytes", buf.Len())
			}
		})
	}
}

func TestGeneratePDF_EmptyResult(t *testing.T) {
	rep := &domain.TurnoverReport{Result: domain.TurnoverResult{Year: 2020}}
	var buf bytes.Buffer
	if err := pdf.GeneratePDF(rep, pdf.Source{}, &buf); err != nil {
		t.Fatalf("GeneratePDF: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected output for an empty report")
	}
}
