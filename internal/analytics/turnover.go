// Package analytics derives headcount, turnover and descriptive statistics
// from a roster. Every function is pure: dates and years are always passed
// in, nothing here reads the wall clock.
//
// An employee is active on day D when hired on or before D and either never
// terminated or terminated strictly after D. Someone terminated on D is no
// longer counted on D.
package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/csg33k/people-indicators/internal/domain"
)

// FilterRoster returns the employees matching gender and role. FilterAll (or
// a blank value) disables the corresponding criterion; with both disabled the
// roster is returned unchanged.
func FilterRoster(roster domain.Roster, gender, role string) domain.Roster {
	f := domain.Filter{Gender: gender, Role: role}.Normalize()
	if f.Gender == domain.FilterAll && f.Role == domain.FilterAll {
		return roster
	}
	out := make(domain.Roster, 0, len(roster))
	for _, e := range roster {
		if f.Gender != domain.FilterAll && e.Gender != f.Gender {
			continue
		}
		if f.Role != domain.FilterAll && e.Role != f.Role {
			continue
		}
		out = append(out, e)
	}
	return out
}

// IsActiveOn reports whether e was employed on the given day.
func IsActiveOn(e domain.Employee, day time.Time) bool {
	if e.HireDate == nil {
		return false
	}
	d := truncateDay(day)
	if truncateDay(*e.HireDate).After(d) {
		return false
	}
	return e.TerminationDate == nil || truncateDay(*e.TerminationDate).After(d)
}

// ActiveOn counts employees active on the given day.
func ActiveOn(subset domain.Roster, day time.Time) int {
	n := 0
	for _, e := range subset {
		if IsActiveOn(e, day) {
			n++
		}
	}
	return n
}

// EntriesInYear counts employees hired during year.
func EntriesInYear(subset domain.Roster, year int) int {
	n := 0
	for _, e := range subset {
		if e.HireDate != nil && e.HireDate.Year() == year {
			n++
		}
	}
	return n
}

// ExitsInYear counts employees terminated during year.
func ExitsInYear(subset domain.Roster, year int) int {
	n := 0
	for _, e := range subset {
		if e.TerminationDate != nil && e.TerminationDate.Year() == year {
			n++
		}
	}
	return n
}

// ComputeTurnover evaluates the turnover of subset for one calendar year:
// headcount is sampled on Jan 1 and Dec 31, and the rate is
// (entries + exits) / (2 * average headcount) * 100, or 0 when the average
// is 0. The filter fields of the result are left at FilterAll; TurnoverFor
// fills them in.
func ComputeTurnover(subset domain.Roster, year int) domain.TurnoverResult {
	res := domain.TurnoverResult{
		Year:         year,
		GenderFilter: domain.FilterAll,
		RoleFilter:   domain.FilterAll,
		Entries:      EntriesInYear(subset, year),
		Exits:        ExitsInYear(subset, year),
		ActiveStart:  ActiveOn(subset, time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)),
		ActiveEnd:    ActiveOn(subset, time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)),
	}
	sum := decimal.NewFromInt(int64(res.ActiveStart + res.ActiveEnd))
	res.AverageHeadcount = sum.Div(decimal.NewFromInt(2)).InexactFloat64()
	if sum.IsZero() {
		return res
	}
	// 2 * average == ActiveStart + ActiveEnd
	flow := decimal.NewFromInt(int64(res.Entries + res.Exits))
	res.TurnoverRate = flow.Mul(decimal.NewFromInt(100)).Div(sum).InexactFloat64()
	return res
}

// TurnoverFor applies f to the full roster and computes the turnover of the
// selected subset. A zero f.Year resolves to the latest year found in the
// subset (or in the roster when the subset has no dates at all).
func TurnoverFor(roster domain.Roster, f domain.Filter) domain.TurnoverResult {
	f = f.Normalize()
	subset := FilterRoster(roster, f.Gender, f.Role)
	year := ResolveYear(subset, f.Year)
	if year == 0 {
		year = ResolveYear(roster, 0)
	}
	res := ComputeTurnover(subset, year)
	res.GenderFilter = f.Gender
	res.RoleFilter = f.Role
	return res
}

// MonthlyTimeline returns exactly twelve points, January to December of year,
// with zeroes for months without activity.
func MonthlyTimeline(subset domain.Roster, year int) []domain.MonthActivity {
	out := make([]domain.MonthActivity, 12)
	for i := range out {
		out[i].Month = time.Month(i + 1)
	}
	for _, e := range subset {
		if e.HireDate != nil && e.HireDate.Year() == year {
			out[e.HireDate.Month()-1].Entries++
		}
		if e.TerminationDate != nil && e.TerminationDate.Year() == year {
			out[e.TerminationDate.Month()-1].Exits++
		}
	}
	return out
}

// GenderBreakdown reports entries and exits per gender value present in the
// roster, restricted to role (FilterAll for every role). Genders are sorted
// and every gender found in the roster is listed, even with zero flow.
func GenderBreakdown(roster domain.Roster, role string, year int) []domain.CategoryFlow {
	genders := Categories(roster, func(e domain.Employee) string { return e.Gender })
	out := make([]domain.CategoryFlow, 0, len(genders))
	for _, g := range genders {
		subset := FilterRoster(roster, g, role)
		out = append(out, domain.CategoryFlow{
			Category: g,
			Entries:  EntriesInYear(subset, year),
			Exits:    ExitsInYear(subset, year),
		})
	}
	return out
}

// AvailableYears lists, ascending, every year in which somebody was hired or
// terminated.
func AvailableYears(subset domain.Roster) []int {
	seen := map[int]struct{}{}
	for _, e := range subset {
		if e.HireDate != nil {
			seen[e.HireDate.Year()] = struct{}{}
		}
		if e.TerminationDate != nil {
			seen[e.TerminationDate.Year()] = struct{}{}
		}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// ResolveYear returns year when it is set, otherwise the latest available
// year of subset, or 0 when subset carries no dates.
func ResolveYear(subset domain.Roster, year int) int {
	if year != 0 {
		return year
	}
	years := AvailableYears(subset)
	if len(years) == 0 {
		return 0
	}
	return years[len(years)-1]
}

// Categories returns the distinct non-blank values of an attribute, sorted.
func Categories(roster domain.Roster, attr func(domain.Employee) string) []string {
	seen := map[string]struct{}{}
	for _, e := range roster {
		v := strings.TrimSpace(attr(e))
		if v == "" {
			continue
		}
		seen[v] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Report assembles the turnover view for f. The selectable years are those
// of the gender/role subset; f.Year is resolved the same way TurnoverFor
// does, and echoed back in the report's Filter.
func Report(roster domain.Roster, f domain.Filter) domain.TurnoverReport {
	f = f.Normalize()
	subset := FilterRoster(roster, f.Gender, f.Role)
	res := TurnoverFor(roster, f)
	f.Year = res.Year

	rep := domain.TurnoverReport{
		Filter:   f,
		Genders:  Categories(roster, func(e domain.Employee) string { return e.Gender }),
		Roles:    Categories(roster, func(e domain.Employee) string { return e.Role }),
		Years:    AvailableYears(subset),
		Result:   res,
		Timeline: MonthlyTimeline(subset, res.Year),
	}
	if f.Gender == domain.FilterAll {
		rep.Breakdown = GenderBreakdown(roster, f.Role, res.Year)
	}
	return rep
}
