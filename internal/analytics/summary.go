package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/csg33k/people-indicators/internal/domain"
)

// Percent returns part/whole*100 rounded to two decimals, 0 when whole is 0.
func Percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(whole))).
		Round(2).
		InexactFloat64()
}

// Headline computes the cards shown right after an upload: who is active on
// asOf, the turnover of asOf's year and the matching retention rate.
func Headline(roster domain.Roster, asOf time.Time) domain.Headline {
	t := ComputeTurnover(roster, asOf.Year())
	h := domain.Headline{
		AsOf:          asOf,
		ActiveNow:     ActiveOn(roster, asOf),
		Turnover:      t,
		RetentionRate: 100,
	}
	if t.AverageHeadcount > 0 {
		avg := decimal.NewFromFloat(t.AverageHeadcount)
		h.RetentionRate = avg.Sub(decimal.NewFromInt(int64(t.Exits))).
			Mul(decimal.NewFromInt(100)).
			Div(avg).
			Round(2).
			InexactFloat64()
	}
	return h
}

// Distribution counts the non-blank values and returns them as shares of the
// counted total, largest first. relabel renames raw values for display; it
// may be nil.
func Distribution(values []string, relabel map[string]string) []domain.Share {
	counts := map[string]int{}
	total := 0
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if l, ok := relabel[v]; ok {
			v = l
		}
		counts[v]++
		total++
	}
	out := make([]domain.Share, 0, len(counts))
	for label, n := range counts {
		out = append(out, domain.Share{Label: label, Count: n, Percent: Percent(n, total)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

var (
	marriedLabels  = map[string]string{"Sim": "Casado", "Não": "Solteiro"}
	childrenLabels = map[string]string{"Sim": "Com filhos", "Não": "Sem filhos"}
)

// Demographics builds the gender, marital status and dependants distributions.
func Demographics(roster domain.Roster) domain.Demographics {
	gender := make([]string, len(roster))
	married := make([]string, len(roster))
	children := make([]string, len(roster))
	for i, e := range roster {
		gender[i] = e.Gender
		married[i] = e.Married
		children[i] = e.HasChildren
	}
	return domain.Demographics{
		Gender:      Distribution(gender, nil),
		Married:     Distribution(married, marriedLabels),
		HasChildren: Distribution(children, childrenLabels),
	}
}

type band struct {
	label  string
	lo, hi float64 // (lo, hi]
}

var (
	ageBands = []band{
		{"Até 30", 0, 30},
		{"31-40", 30, 40},
		{"41-50", 40, 50},
		{"Acima de 50", 50, 100},
	}
	tenureBands = []band{
		{"Até 1 ano", 0, 1},
		{"1-3 anos", 1, 3},
		{"3-5 anos", 3, 5},
		{"Acima de 5 anos", 5, 100},
	}
)

// bandShares buckets values into bands and returns one share per band, in
// band order. Values outside every band are ignored, including for the
// percentage base.
func bandShares(values []float64, bands []band) []domain.Share {
	counts := make([]int, len(bands))
	total := 0
	for _, v := range values {
		for i, b := range bands {
			if v > b.lo && v <= b.hi {
				counts[i]++
				total++
				break
			}
		}
	}
	out := make([]domain.Share, len(bands))
	for i, b := range bands {
		out[i] = domain.Share{Label: b.label, Count: counts[i], Percent: Percent(counts[i], total)}
	}
	return out
}

// AgeInYears returns completed years between birth and asOf.
func AgeInYears(birth, asOf time.Time) int {
	years := asOf.Year() - birth.Year()
	if asOf.Month() < birth.Month() || (asOf.Month() == birth.Month() && asOf.Day() < birth.Day()) {
		years--
	}
	return years
}

// TenureInYears returns the time since hire in 365-day years.
func TenureInYears(hire, asOf time.Time) float64 {
	days := truncateDay(asOf).Sub(truncateDay(hire)).Hours() / 24
	return days / 365
}

// AgeTenure summarises ages and tenure as of asOf. Birth or hire dates after
// asOf are left out, as are missing dates.
func AgeTenure(roster domain.Roster, asOf time.Time) domain.AgeTenure {
	out := domain.AgeTenure{AsOf: asOf}
	var ages, tenures []float64
	ageSum, tenureSum := 0, 0.0
	for _, e := range roster {
		if e.BirthDate != nil && !e.BirthDate.After(asOf) {
			age := AgeInYears(*e.BirthDate, asOf)
			if len(ages) == 0 || age > out.MaxAge {
				out.MaxAge = age
			}
			if len(ages) == 0 || age < out.MinAge {
				out.MinAge = age
			}
			ages = append(ages, float64(age))
			ageSum += age
		}
		if e.HireDate != nil && !e.HireDate.After(asOf) {
			t := TenureInYears(*e.HireDate, asOf)
			tenures = append(tenures, t)
			tenureSum += t
		}
	}
	out.AgeSamples = len(ages)
	out.TenureSample = len(tenures)
	if len(ages) > 0 {
		out.MeanAge = float64(ageSum) / float64(len(ages))
	}
	if len(tenures) > 0 {
		out.MeanTenure = tenureSum / float64(len(tenures))
	}
	out.AgeBands = bandShares(ages, ageBands)
	out.TenureBands = bandShares(tenures, tenureBands)
	return out
}
