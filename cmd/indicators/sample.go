package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/jaswdr/faker"
	"github.com/spf13/cobra"

	"github.com/csg33k/people-indicators/internal/adapters/xlsx"
	"github.com/csg33k/people-indicators/internal/domain"
)

var sampleRoles = []string{"Analista", "Assistente", "Coordenador", "Gerente", "Técnico", "Estagiário"}

var sampleLocations = []struct{ state, city string }{
	{"São Paulo", "São Paulo"},
	{"São Paulo", "Campinas"},
	{"Rio de Janeiro", "Rio de Janeiro"},
	{"Minas Gerais", "Belo Horizonte"},
	{"Paraná", "Curitiba"},
	{"Rio Grande do Sul", "Porto Alegre"},
	{"Bahia", "Salvador"},
	{"Pernambuco", "Recife"},
	{"Ceará", "Fortaleza"},
	{"Distrito Federal", "Brasília"},
	{"Santa Catarina", "Florianópolis"},
	{"Goiás", "Goiânia"},
}

func newSampleCmd() *cobra.Command {
	var (
		rows int
		out  string
		seed int64
		asOf asOfFlag
	)
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate a sample BD workbook with random employees",
		RunE: func(cmd *cobra.Command, args []string) error {
			if rows < 1 {
				return fmt.Errorf("--rows must be positive")
			}
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			roster := generateRoster(faker.NewWithSeed(rand.NewSource(seed)), rows, asOf.value())
			f, err := createFile(out)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := xlsx.WriteRoster(f, roster); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d employees to %s (seed %d)\n", len(roster), out, seed)
			return f.Close()
		},
	}
	cmd.Flags().IntVarP(&rows, "rows", "n", 200, "number of employees")
	cmd.Flags().StringVarP(&out, "out", "o", "sample.xlsx", "output workbook")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time based)")
	cmd.Flags().Var(&asOf, "as-of", "latest date used for hires and exits YYYY-MM-DD (default today)")
	return cmd
}

// generateRoster builds n employees hired over the ten years before asOf,
// roughly a quarter of whom have already left.
func generateRoster(f faker.Faker, n int, asOf time.Time) domain.Roster {
	start := asOf.AddDate(-10, 0, 0)
	span := int(asOf.Sub(start).Hours() / 24)
	yesNo := []string{"Sim", "Não"}

	roster := make(domain.Roster, 0, n)
	for i := 0; i < n; i++ {
		hire := start.AddDate(0, 0, f.IntBetween(0, span))
		birth := hire.AddDate(-f.IntBetween(18, 55), 0, -f.IntBetween(0, 364))
		loc := sampleLocations[f.IntBetween(0, len(sampleLocations)-1)]
		e := domain.Employee{
			Row:         i + 2,
			HireDate:    &hire,
			Gender:      f.RandomStringElement([]string{"Feminino", "Masculino"}),
			Role:        f.RandomStringElement(sampleRoles),
			BirthDate:   &birth,
			Married:     f.RandomStringElement(yesNo),
			HasChildren: f.RandomStringElement(yesNo),
			State:       loc.state,
			City:        loc.city,
		}
		if left := int(asOf.Sub(hire).Hours() / 24); left > 30 && f.IntBetween(1, 4) == 1 {
			term := hire.AddDate(0, 0, f.IntBetween(30, left))
			e.TerminationDate = &term
		}
		roster = append(roster, e)
	}
	return roster
}

func createFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}
