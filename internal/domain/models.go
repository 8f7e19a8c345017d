package domain

import (
	"errors"
	"time"
)

// FilterAll is the sentinel accepted by gender and role filters to mean
// "do not filter on this attribute".
const FilterAll = "all"

// SheetName is the worksheet every uploaded workbook must carry.
const SheetName = "BD"

// Column headers of the BD sheet, matched exactly after trimming.
const (
	ColumnHired       = "Contratado"
	ColumnTerminated  = "Desligado"
	ColumnGender      = "Sexo"
	ColumnRole        = "Função"
	ColumnBirthDate   = "Data de Nascimento"
	ColumnMarried     = "Casado"
	ColumnHasChildren = "Tem filhos"
	ColumnState       = "Estado"
	ColumnCity        = "Cidade"
)

// RequiredColumns lists the headers the loader refuses to work without,
// in the order they are reported when missing.
var RequiredColumns = []string{
	ColumnHired,
	ColumnTerminated,
	ColumnGender,
	ColumnRole,
	ColumnBirthDate,
	ColumnMarried,
	ColumnHasChildren,
	ColumnState,
	ColumnCity,
}

var (
	ErrNoRoster          = errors.New("no roster loaded")
	ErrSessionNotFound   = errors.New("session not found")
	ErrSheetNotFound     = errors.New(`worksheet "` + SheetName + `" not found`)
	ErrMissingColumns    = errors.New("missing required columns")
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")
)

// Employee is one row of the BD sheet. Dates are nil when the cell was blank
// or could not be parsed; such records never count as active but still show
// up in the categorical aggregations.
type Employee struct {
	Row             int // 1-based sheet row, 0 when unknown
	HireDate        *time.Time
	TerminationDate *time.Time
	Gender          string
	Role            string
	BirthDate       *time.Time
	Married         string // "Sim" / "Não" in source data
	HasChildren     string // "Sim" / "Não" in source data
	State           string
	City            string
}

// Roster is the full ordered set of employees loaded for a session.
type Roster []Employee

// Filter is the selection the turnover view is computed for.
// Year 0 means "latest year present in the data".
type Filter struct {
	Gender string
	Role   string
	Year   int
}

// Normalize replaces blank attribute filters with FilterAll.
func (f Filter) Normalize() Filter {
	if f.Gender == "" {
		f.Gender = FilterAll
	}
	if f.Role == "" {
		f.Role = FilterAll
	}
	return f
}

// Session owns one uploaded roster and the viewer's current filter.
// LoadedAt is nil until the first successful upload.
type Session struct {
	ID        string
	FileName  string
	Roster    Roster
	Filter    Filter
	CreatedAt time.Time
	LoadedAt  *time.Time
	ExpiresAt time.Time
}

// HasRoster reports whether a workbook has been loaded into the session.
// An uploaded sheet with zero rows still counts as loaded.
func (s *Session) HasRoster() bool {
	return s != nil && s.LoadedAt != nil
}

// LoadReport summarises what the loader did with an uploaded sheet.
type LoadReport struct {
	FileName     string
	RowsRead     int
	RowsSkipped  int // fully blank rows
	InvalidDates int // non-blank date cells that could not be parsed
}

// TurnoverResult is the outcome of one turnover computation.
type TurnoverResult struct {
	Year             int
	GenderFilter     string
	RoleFilter       string
	Entries          int
	Exits            int
	ActiveStart      int
	ActiveEnd        int
	AverageHeadcount float64
	TurnoverRate     float64 // percent
}

// MonthActivity is one point of the monthly entries/exits timeline.
type MonthActivity struct {
	Month   time.Month
	Entries int
	Exits   int
}

// CategoryFlow holds entries and exits for one category value.
type CategoryFlow struct {
	Category string
	Entries  int
	Exits    int
}

// Share is one slice of a percentage distribution.
type Share struct {
	Label   string
	Count   int
	Percent float64
}

// Headline feeds the summary cards shown after an upload.
type Headline struct {
	AsOf          time.Time
	ActiveNow     int
	Turnover      TurnoverResult
	RetentionRate float64
}

// Demographics are the categorical distributions of the roster.
type Demographics struct {
	Gender      []Share
	Married     []Share
	HasChildren []Share
}

// AgeTenure summarises ages and time at the company as of a date.
type AgeTenure struct {
	AsOf         time.Time
	AgeSamples   int
	MeanAge      float64
	MaxAge       int
	MinAge       int
	TenureSample int
	MeanTenure   float64 // years
	AgeBands     []Share
	TenureBands  []Share
}

// StateCount is the headcount for one Brazilian state.
type StateCount struct {
	State string
	Code  string // IBGE two-letter code, "" when the name is unknown
	Count int
}

// CityCount is the headcount for one city.
type CityCount struct {
	City  string
	Count int
}

// Geography groups headcount by location.
type Geography struct {
	States    []StateCount
	TopCities []CityCount
}

// TurnoverReport bundles everything the turnover view shows for one filter:
// the selectable options, the result, the monthly timeline and, when the
// gender filter is FilterAll, the per-gender comparison.
type TurnoverReport struct {
	Filter    Filter
	Genders   []string
	Roles     []string
	Years     []int
	Result    TurnoverResult
	Timeline  []MonthActivity
	Breakdown []CategoryFlow
}
