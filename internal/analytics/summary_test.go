package analytics_test

import (
	"testing"
	"time"

	"github.com/csg33k/people-indicators/internal/analytics"
	"github.com/csg33k/people-indicators/internal/domain"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		part, whole int
		want        float64
	}{
		{0, 0, 0},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{5, 5, 100},
		{1, 8, 12.5},
	}
	for _, tt := range tests {
		if got := analytics.Percent(tt.part, tt.whole); got != tt.want {
			t.Errorf("Percent(%d, %d) = %v, want %v", tt.part, tt.whole, got, tt.want)
		}
	}
}

func TestHeadline(t *testing.T) {
	asOf := time.Date(2021, time.September, 15, 10, 0, 0, 0, time.UTC)
	h := analytics.Headline(twoPeople(t), asOf)
	if h.ActiveNow != 2 {
		t.Errorf("active: got %d, want 2", h.ActiveNow)
	}
	if h.Turnover.Year != 2021 {
		t.Errorf("turnover year: got %d, want 2021", h.Turnover.Year)
	}
	// average 1.5, no exits
	if h.RetentionRate != 100 {
		t.Errorf("retention: got %v, want 100", h.RetentionRate)
	}

	h = analytics.Headline(twoPeople(t), time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC))
	// snapshots 2 and 1 -> average 1.5, one exit -> (1.5-1)/1.5
	if h.RetentionRate != 33.33 {
		t.Errorf("retention 2023: got %v, want 33.33", h.RetentionRate)
	}
}

func TestHeadline_EmptyRosterRetains100(t *testing.T) {
	h := analytics.Headline(nil, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
	if h.ActiveNow != 0 || h.RetentionRate != 100 || h.Turnover.TurnoverRate != 0 {
		t.Errorf("unexpected headline for empty roster: %+v", h)
	}
}

func TestDistribution(t *testing.T) {
	got := analytics.Distribution([]string{"Sim", "Não", "Sim", " ", "Sim", ""}, map[string]string{"Sim": "Casado"})
	if len(got) != 2 {
		t.Fatalf("got %+v", got)
	}
	if got[0].Label != "Casado" || got[0].Count != 3 || got[0].Percent != 75 {
		t.Errorf("first share: %+v", got[0])
	}
	if got[1].Label != "Não" || got[1].Count != 1 || got[1].Percent != 25 {
		t.Errorf("second share: %+v", got[1])
	}
}

func TestDemographics(t *testing.T) {
	r := domain.Roster{
		{Gender: "Feminino", Married: "Sim", HasChildren: "Não"},
		{Gender: "Masculino", Married: "Não", HasChildren: "Não"},
		{Gender: "Feminino", Married: "Sim", HasChildren: "Sim"},
		{Gender: "Outro", Married: "", HasChildren: "Não"},
	}
	d := analytics.Demographics(r)
	if len(d.Gender) != 3 || d.Gender[0].Label != "Feminino" || d.Gender[0].Percent != 50 {
		t.Errorf("gender: %+v", d.Gender)
	}
	if len(d.Married) != 2 || d.Married[0].Label != "Casado" || d.Married[0].Percent != 66.67 {
		t.Errorf("married: %+v", d.Married)
	}
	if d.HasChildren[0].Label != "Sem filhos" || d.HasChildren[0].Count != 3 {
		t.Errorf("children: %+v", d.HasChildren)
	}
}

func TestAgeInYears(t *testing.T) {
	birth := time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		asOf time.Time
		want int
	}{
		{time.Date(2020, time.June, 14, 0, 0, 0, 0, time.UTC), 29},
		{time.Date(2020, time.June, 15, 0, 0, 0, 0, time.UTC), 30},
		{time.Date(2020, time.December, 1, 0, 0, 0, 0, time.UTC), 30},
	}
	for _, tt := range tests {
		if got := analytics.AgeInYears(birth, tt.asOf); got != tt.want {
			t.Errorf("as of %s: got %d, want %d", tt.asOf.Format(time.DateOnly), got, tt.want)
		}
	}
}

func TestAgeTenure(t *testing.T) {
	asOf := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	r := domain.Roster{
		{BirthDate: date(t, "1999-01-01"), HireDate: date(t, "2023-07-03")}, // 25, ~0.5y
		{BirthDate: date(t, "1984-01-02"), HireDate: date(t, "2020-06-01")}, // 39, ~3.6y
		{BirthDate: date(t, "1970-05-05"), HireDate: date(t, "2010-01-01")}, // 53, ~14y
		{BirthDate: nil, HireDate: date(t, "2025-01-01")},                   // future hire ignored
	}
	at := analytics.AgeTenure(r, asOf)
	if at.AgeSamples != 3 || at.TenureSample != 3 {
		t.Fatalf("samples: %d ages, %d tenures", at.AgeSamples, at.TenureSample)
	}
	if at.MinAge != 25 || at.MaxAge != 53 {
		t.Errorf("min/max: %d/%d", at.MinAge, at.MaxAge)
	}
	if want := float64(25+39+53) / 3; at.MeanAge != want {
		t.Errorf("mean age: got %v, want %v", at.MeanAge, want)
	}

	wantAge := map[string]int{"Até 30": 1, "31-40": 1, "41-50": 0, "Acima de 50": 1}
	for _, s := range at.AgeBands {
		if s.Count != wantAge[s.Label] {
			t.Errorf("age band %s: got %d, want %d", s.Label, s.Count, wantAge[s.Label])
		}
	}
	if at.AgeBands[0].Label != "Até 30" || at.AgeBands[3].Label != "Acima de 50" {
		t.Errorf("age bands out of order: %+v", at.AgeBands)
	}

	wantTenure := map[string]int{"Até 1 ano": 1, "1-3 anos": 0, "3-5 anos": 1, "Acima de 5 anos": 1}
	for _, s := range at.TenureBands {
		if s.Count != wantTenure[s.Label] {
			t.Errorf("tenure band %s: got %d, want %d", s.Label, s.Count, wantTenure[s.Label])
		}
	}
}

func TestAgeTenure_Empty(t *testing.T) {
	at := analytics.AgeTenure(nil, time.Now())
	if at.AgeSamples != 0 || at.MeanAge != 0 || at.MeanTenure != 0 {
		t.Errorf("unexpected stats: %+v", at)
	}
	for _, s := range at.AgeBands {
		if s.Count != 0 || s.Percent != 0 {
			t.Errorf("band %s not empty: %+v", s.Label, s)
		}
	}
}
