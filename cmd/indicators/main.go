// Command indicators computes the dashboard's people indicators from a
// workbook on the command line.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/csg33k/people-indicators/internal/adapters/xlsx"
	"github.com/csg33k/people-indicators/internal/domain"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "indicators",
		Short:        "People indicators from an HR workbook",
		SilenceUsage: true,
	}
	root.AddCommand(
		newTurnoverCmd(),
		newSummaryCmd(),
		newPDFCmd(),
		newSampleCmd(),
	)
	return root
}

// loadRoster reads the BD sheet of the workbook at path.
func loadRoster(ctx context.Context, path string) (domain.Roster, domain.LoadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.LoadReport{}, err
	}
	defer f.Close()
	return xlsx.New().Load(ctx, f, filepath.Base(path))
}

// asOfFlag is a YYYY-MM-DD date flag defaulting to today.
type asOfFlag struct{ t time.Time }

func (a *asOfFlag) String() string {
	if a.t.IsZero() {
		return "today"
	}
	return a.t.Format(time.DateOnly)
}

func (a *asOfFlag) Set(v string) error {
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return fmt.Errorf("expected YYYY-MM-DD: %w", err)
	}
	a.t = t
	return nil
}

func (a *asOfFlag) Type() string { return "date" }

func (a *asOfFlag) value() time.Time {
	if a.t.IsZero() {
		y, m, d := time.Now().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	return a.t
}

type filterFlags struct {
	file   string
	gender string
	role   string
	year   int
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "workbook with a BD sheet (.xlsx or .xls)")
	cmd.Flags().StringVar(&f.gender, "gender", domain.FilterAll, "gender filter")
	cmd.Flags().StringVar(&f.role, "role", domain.FilterAll, "role filter")
	cmd.Flags().IntVar(&f.year, "year", 0, "year to compute (0 = latest in the data)")
	_ = cmd.MarkFlagRequired("file")
}

func (f *filterFlags) filter() domain.Filter {
	return domain.Filter{Gender: f.gender, Role: f.role, Year: f.year}.Normalize()
}
