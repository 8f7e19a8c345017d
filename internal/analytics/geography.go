package analytics

import (
	"sort"
	"strings"

	"github.com/csg33k/people-indicators/internal/domain"
)

// TopCitiesLimit is how many cities Geography keeps.
const TopCitiesLimit = 5

// stateCodes maps Brazilian federative units to their IBGE abbreviations,
// which is also the "sigla" property of the states GeoJSON.
var stateCodes = map[string]string{
	"Acre": "AC", "Alagoas": "AL", "Amapá": "AP", "Amazonas": "AM", "Bahia": "BA",
	"Ceará": "CE", "Distrito Federal": "DF", "Espírito Santo": "ES", "Goiás": "GO",
	"Maranhão": "MA", "Mato Grosso": "MT", "Mato Grosso do Sul": "MS", "Minas Gerais": "MG",
	"Pará": "PA", "Paraíba": "PB", "Paraná": "PR", "Pernambuco": "PE", "Piauí": "PI",
	"Rio de Janeiro": "RJ", "Rio Grande do Norte": "RN", "Rio Grande do Sul": "RS",
	"Rondônia": "RO", "Roraima": "RR", "Santa Catarina": "SC", "São Paulo": "SP",
	"Sergipe": "SE", "Tocantins": "TO",
}

// StateCode returns the IBGE abbreviation for a state name, or "".
func StateCode(name string) string {
	return stateCodes[strings.TrimSpace(name)]
}

// Geography counts employees per state and per city. States are sorted by
// headcount, largest first; only the TopCitiesLimit largest cities are kept.
func Geography(roster domain.Roster) domain.Geography {
	states := map[string]int{}
	cities := map[string]int{}
	for _, e := range roster {
		if s := strings.TrimSpace(e.State); s != "" {
			states[s]++
		}
		if c := strings.TrimSpace(e.City); c != "" {
			cities[c]++
		}
	}

	out := domain.Geography{
		States:    make([]domain.StateCount, 0, len(states)),
		TopCities: make([]domain.CityCount, 0, len(cities)),
	}
	for name, n := range states {
		out.States = append(out.States, domain.StateCount{State: name, Code: StateCode(name), Count: n})
	}
	sort.Slice(out.States, func(i, j int) bool {
		if out.States[i].Count != out.States[j].Count {
			return out.States[i].Count > out.States[j].Count
		}
		return out.States[i].State < out.States[j].State
	})

	for name, n := range cities {
		out.TopCities = append(out.TopCities, domain.CityCount{City: name, Count: n})
	}
	sort.Slice(out.TopCities, func(i, j int) bool {
		if out.TopCities[i].Count != out.TopCities[j].Count {
			return out.TopCities[i].Count > out.TopCities[j].Count
		}
		return out.TopCities[i].City < out.TopCities[j].City
	})
	if len(out.TopCities) > TopCitiesLimit {
		out.TopCities = out.TopCities[:TopCitiesLimit]
	}
	return out
}
