// Package xlsx loads the employee roster from the "BD" sheet of an uploaded
// workbook. Both Office Open XML (.xlsx, .xlsm) and legacy BIFF (.xls)
// workbooks are accepted.
package xlsx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/csg33k/people-indicators/internal/domain"
)

// maxXLSRows caps how far a legacy worksheet is scanned.
const maxXLSRows = 100000

// dateLayouts are tried in order for textual date cells. Slash dates are
// day-first, as exported by Brazilian locales.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"02/01/2006",
	"2/1/2006",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02-01-2006",
	"2006/01/02",
	"02/01/06",
}

type Loader struct{}

func New() *Loader { return &Loader{} }

// Load satisfies ports.RosterLoader.
func (l *Loader) Load(ctx context.Context, r io.Reader, fileName string) (domain.Roster, domain.LoadReport, error) {
	report := domain.LoadReport{FileName: fileName}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, report, fmt.Errorf("read upload: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, report, err
	}

	var rows [][]string
	date1904 := false
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".xlsx", ".xlsm":
		rows, date1904, err = readXLSX(data)
	case ".xls":
		rows, err = readXLS(data)
	default:
		return nil, report, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, report, err
	}
	roster, err := parseRows(rows, date1904, &report)
	if err != nil {
		return nil, report, err
	}
	return roster, report, nil
}

func readXLSX(data []byte) ([][]string, bool, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = file.Close() }()

	found := false
	for _, name := range file.GetSheetList() {
		if name == domain.SheetName {
			found = true
			break
		}
	}
	if !found {
		return nil, false, domain.ErrSheetNotFound
	}

	date1904 := false
	if props, err := file.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	// Raw values keep date cells as serial numbers instead of whatever
	// display format the author picked.
	rows, err := file.GetRows(domain.SheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, false, fmt.Errorf("read sheet %s: %w", domain.SheetName, err)
	}
	return rows, date1904, nil
}

func readXLS(data []byte) ([][]string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	var sheet *xls.WorkSheet
	for i := 0; i < workbook.NumSheets(); i++ {
		if ws := workbook.GetSheet(i); ws != nil && ws.Name == domain.SheetName {
			sheet = ws
			break
		}
	}
	if sheet == nil {
		return nil, domain.ErrSheetNotFound
	}

	last := int(sheet.MaxRow)
	if last >= maxXLSRows {
		last = maxXLSRows - 1
	}
	rows := make([][]string, 0, last+1)
	for i := 0; i <= last; i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for c := row.FirstCol(); c < row.LastCol(); c++ {
			cells[c] = row.Col(c)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// parseRows maps the header row onto the required columns and converts every
// following non-blank row into an Employee.
func parseRows(rows [][]string, date1904 bool, report *domain.LoadReport) (domain.Roster, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingColumns, strings.Join(domain.RequiredColumns, ", "))
	}
	index := map[string]int{}
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		if _, dup := index[h]; !dup && h != "" {
			index[h] = i
		}
	}
	var missing []string
	for _, c := range domain.RequiredColumns {
		if _, ok := index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingColumns, strings.Join(missing, ", "))
	}

	roster := make(domain.Roster, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blankRow(row) {
			report.RowsSkipped++
			continue
		}
		report.RowsRead++
		get := func(col string) string { return cellValue(row, index[col]) }
		dateOf := func(col string) *time.Time {
			raw := get(col)
			d, ok := ParseDate(raw, date1904)
			if !ok {
				if raw != "" {
					report.InvalidDates++
				}
				return nil
			}
			return &d
		}
		roster = append(roster, domain.Employee{
			Row:             i + 2,
			HireDate:        dateOf(domain.ColumnHired),
			TerminationDate: dateOf(domain.ColumnTerminated),
			Gender:          get(domain.ColumnGender),
			Role:            get(domain.ColumnRole),
			BirthDate:       dateOf(domain.ColumnBirthDate),
			Married:         get(domain.ColumnMarried),
			HasChildren:     get(domain.ColumnHasChildren),
			State:           get(domain.ColumnState),
			City:            get(domain.ColumnCity),
		})
	}
	return roster, nil
}

// ParseDate interprets a cell as a calendar date. Excel serial numbers and the
// textual layouts in dateLayouts are understood; anything else, including a
// blank cell, reports ok=false. The result is midnight UTC.
func ParseDate(value string, date1904 bool) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		// 2958465 is 9999-12-31, the last date Excel can represent.
		if serial < 1 || serial > 2958465 {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, date1904)
		if err != nil {
			return time.Time{}, false
		}
		return toDay(t), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return toDay(t), true
		}
	}
	return time.Time{}, false
}

func toDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
