package templates

import (
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/csg33k/people-indicators/internal/domain"
)

var monthAbbr = [...]string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

var funcs = template.FuncMap{
	"pct":    formatPercent,
	"num":    formatNumber,
	"month":  monthLabel,
	"date":   formatDate,
	"label":  filterLabel,
	"months": monthLabels,
	"add":    func(a, b int) int { return a + b },
	"sub":    func(a, b int) int { return a - b },
}

// formatNumber renders v with two decimals and a decimal comma.
func formatNumber(v float64) string {
	return strings.Replace(decimal.NewFromFloat(v).StringFixed(2), ".", ",", 1)
}

func formatPercent(v float64) string {
	return formatNumber(v) + "%"
}

func monthLabel(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthAbbr[m-1]
}

// monthLabels returns the x axis of a monthly timeline.
func monthLabels(timeline []domain.MonthActivity) []string {
	out := make([]string, len(timeline))
	for i, m := range timeline {
		out[i] = monthLabel(m.Month)
	}
	return out
}

// formatDate accepts time.Time or *time.Time; nil and zero dates render empty.
func formatDate(v any) string {
	var t time.Time
	switch d := v.(type) {
	case time.Time:
		t = d
	case *time.Time:
		if d == nil {
			return ""
		}
		t = *d
	}
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

func filterLabel(v string) string {
	if v == "" || v == domain.FilterAll {
		return "Todos"
	}
	return v
}
