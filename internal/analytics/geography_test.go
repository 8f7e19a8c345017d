package analytics_test

import (
	"testing"

	"github.com/csg33k/people-indicators/internal/analytics"
	"github.com/csg33k/people-indicators/internal/domain"
)

func TestGeography(t *testing.T) {
	r := domain.Roster{
		{State: "São Paulo", City: "Campinas"},
		{State: "São Paulo", City: "São Paulo"},
		{State: "São Paulo", City: "São Paulo"},
		{State: "Minas Gerais", City: "Belo Horizonte"},
		{State: "Atlântida", City: "Recife"},
		{State: "", City: "Curitiba"},
		{State: "Paraná", City: "Londrina"},
		{State: "Paraná", City: "Maringá"},
	}
	g := analytics.Geography(r)

	if len(g.States) != 4 {
		t.Fatalf("states: %+v", g.States)
	}
	if g.States[0] != (domain.StateCount{State: "São Paulo", Code: "SP", Count: 3}) {
		t.Errorf("first state: %+v", g.States[0])
	}
	if g.States[1].Code != "PR" || g.States[1].Count != 2 {
		t.Errorf("second state: %+v", g.States[1])
	}
	for _, s := range g.States {
		if s.State == "Atlântida" && s.Code != "" {
			t.Errorf("unknown state should have no code, got %q", s.Code)
		}
	}

	if len(g.TopCities) != analytics.TopCitiesLimit {
		t.Fatalf("top cities: got %d", len(g.TopCities))
	}
	if g.TopCities[0] != (domain.CityCount{City: "São Paulo", Count: 2}) {
		t.Errorf("first city: %+v", g.TopCities[0])
	}
	// ties broken alphabetically
	if g.TopCities[1].City != "Belo Horizonte" {
		t.Errorf("second city: %+v", g.TopCities[1])
	}
}

func TestStateCode(t *testing.T) {
	if got := analytics.StateCode(" Rio Grande do Sul "); got != "RS" {
		t.Errorf("got %q", got)
	}
	if got := analytics.StateCode("Texas"); got != "" {
		t.Errorf("got %q", got)
	}
}
