package xlsx

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/csg33k/people-indicators/internal/domain"
)

// WriteRoster writes roster as a workbook with a single BD sheet laid out the
// way Load expects it. Dates are stored as Excel date cells.
func WriteRoster(w io.Writer, roster domain.Roster) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", domain.SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header := make([]interface{}, len(domain.RequiredColumns))
	for i, c := range domain.RequiredColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(domain.SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	if err != nil {
		return fmt.Errorf("date style: %w", err)
	}
	for _, col := range []string{"A", "B", "E"} {
		if err := f.SetColStyle(domain.SheetName, col, dateStyle); err != nil {
			return fmt.Errorf("style column %s: %w", col, err)
		}
	}

	for i, e := range roster {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			dateCell(e.HireDate),
			dateCell(e.TerminationDate),
			e.Gender,
			e.Role,
			dateCell(e.BirthDate),
			e.Married,
			e.HasChildren,
			e.State,
			e.City,
		}
		if err := f.SetSheetRow(domain.SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	_, err = f.WriteTo(w)
	return err
}

func dateCell(t *time.Time) interface{} {
	if t == nil {
		return ""
	}
	return *t
}
