package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/csg33k/people-indicators/internal/adapters/pdf"
	"github.com/csg33k/people-indicators/internal/analytics"
	"github.com/csg33k/people-indicators/internal/domain"
)

func newTurnoverCmd() *cobra.Command {
	var ff filterFlags
	cmd := &cobra.Command{
		Use:   "turnover",
		Short: "Turnover rate, monthly timeline and gender comparison",
		RunE: func(cmd *cobra.Command, args []string) error {
			roster, _, err := loadRoster(cmd.Context(), ff.file)
			if err != nil {
				return err
			}
			writeTurnover(cmd.OutOrStdout(), analytics.Report(roster, ff.filter()))
			return nil
		},
	}
	ff.register(cmd)
	return cmd
}

func newSummaryCmd() *cobra.Command {
	var file string
	var asOf asOfFlag
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Headline, demographics, age/tenure and location tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			roster, report, err := loadRoster(cmd.Context(), file)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d rows, %d blank rows skipped, %d invalid dates\n\n",
				report.FileName, report.RowsRead, report.RowsSkipped, report.InvalidDates)
			writeSummary(out, roster, asOf.value())
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "workbook with a BD sheet (.xlsx or .xls)")
	cmd.Flags().Var(&asOf, "as-of", "reference date YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newPDFCmd() *cobra.Command {
	var ff filterFlags
	var out string
	var asOf asOfFlag
	cmd := &cobra.Command{
		Use:   "pdf",
		Short: "Write the turnover report as PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			roster, report, err := loadRoster(cmd.Context(), ff.file)
			if err != nil {
				return err
			}
			rep := analytics.Report(roster, ff.filter())
			f, err := createFile(out)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := pdf.GeneratePDF(&rep, pdf.Source{FileName: report.FileName, GeneratedAt: asOf.value()}, f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (turnover %d)\n", out, rep.Result.Year)
			return f.Close()
		},
	}
	ff.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "rotatividade.pdf", "output file")
	cmd.Flags().Var(&asOf, "as-of", "date printed on the report YYYY-MM-DD (default today)")
	return cmd
}

// ── Console tables ───────────────────────────────────────────────────────────

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	return t
}

func writeTurnover(w io.Writer, rep domain.TurnoverReport) {
	res := rep.Result
	t := newTable(w, "Ano", "Sexo", "Função", "Admissões", "Desligamentos", "Ativos 01/01", "Ativos 31/12", "Headcount médio", "Rotatividade")
	t.Append([]string{
		strconv.Itoa(res.Year), res.GenderFilter, res.RoleFilter,
		strconv.Itoa(res.Entries), strconv.Itoa(res.Exits),
		strconv.Itoa(res.ActiveStart), strconv.Itoa(res.ActiveEnd),
		fixed(res.AverageHeadcount), fixed(res.TurnoverRate) + "%",
	})
	t.Render()

	fmt.Fprintln(w)
	t = newTable(w, "Mês", "Admissões", "Desligamentos")
	for _, m := range rep.Timeline {
		t.Append([]string{m.Month.String(), strconv.Itoa(m.Entries), strconv.Itoa(m.Exits)})
	}
	t.Render()

	if len(rep.Breakdown) == 0 {
		return
	}
	fmt.Fprintln(w)
	t = newTable(w, "Sexo", "Admissões", "Desligamentos")
	for _, b := range rep.Breakdown {
		t.Append([]string{b.Category, strconv.Itoa(b.Entries), strconv.Itoa(b.Exits)})
	}
	t.Render()
}

func writeSummary(w io.Writer, roster domain.Roster, asOf time.Time) {
	h := analytics.Headline(roster, asOf)
	t := newTable(w, "Referência", "Ativos", "Rotatividade", "Retenção", "Admissões", "Desligamentos")
	t.Append([]string{
		asOf.Format(time.DateOnly), strconv.Itoa(h.ActiveNow),
		fixed(h.Turnover.TurnoverRate) + "%", fixed(h.RetentionRate) + "%",
		strconv.Itoa(h.Turnover.Entries), strconv.Itoa(h.Turnover.Exits),
	})
	t.Render()
	fmt.Fprintln(w)

	d := analytics.Demographics(roster)
	writeShares(w, "Sexo", d.Gender)
	writeShares(w, "Casado", d.Married)
	writeShares(w, "Filhos", d.HasChildren)

	at := analytics.AgeTenure(roster, asOf)
	t = newTable(w, "Idade média", "Mínima", "Máxima", "Amostra", "Tempo de casa médio", "Amostra")
	t.Append([]string{
		fixed(at.MeanAge), strconv.Itoa(at.MinAge), strconv.Itoa(at.MaxAge), strconv.Itoa(at.AgeSamples),
		fixed(at.MeanTenure), strconv.Itoa(at.TenureSample),
	})
	t.Render()
	fmt.Fprintln(w)
	writeShares(w, "Faixa etária", at.AgeBands)
	writeShares(w, "Tempo de casa", at.TenureBands)

	geo := analytics.Geography(roster)
	t = newTable(w, "Estado", "UF", "Colaboradores")
	for _, s := range geo.States {
		t.Append([]string{s.State, orDash(s.Code), strconv.Itoa(s.Count)})
	}
	t.Render()
	fmt.Fprintln(w)
	t = newTable(w, "Cidade", "Colaboradores")
	for _, c := range geo.TopCities {
		t.Append([]string{c.City, strconv.Itoa(c.Count)})
	}
	t.Render()
}

func writeShares(w io.Writer, title string, shares []domain.Share) {
	t := newTable(w, title, "Qtd.", "%")
	for _, s := range shares {
		t.Append([]string{s.Label, strconv.Itoa(s.Count), fixed(s.Percent)})
	}
	t.Render()
	fmt.Fprintln(w)
}

func fixed(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
