// Package pdf renders the turnover view as a one-page printable report: the
// filter header, the metric cards, the monthly timeline and, when no gender
// is selected, the per-gender comparison.
package pdf

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/csg33k/people-indicators/internal/domain"
)

// Source describes where the report data came from.
type Source struct {
	FileName    string
	GeneratedAt time.Time
}

var monthNames = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// GeneratePDF writes the turnover report for rep to w.
func GeneratePDF(rep *domain.TurnoverReport, src Source, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AliasNbPages("{nb}")
	pdf.SetTitle("Rotatividade "+fmt.Sprint(rep.Result.Year), true)

	// Core fonts are cp1252; accented labels go through the translator.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	drawReport(pdf, tr, rep, src)
	return pdf.Output(w)
}

func drawReport(pdf *fpdf.Fpdf, tr func(string) string, rep *domain.TurnoverReport, src Source) {
	pageW, pageH := pdf.GetPageSize()
	marginL, marginT, marginR, marginB := pdf.GetMargins()
	contentW := pageW - marginL - marginR
	res := rep.Result

	// ── Header bar ───────────────────────────────────────────────────────────
	pdf.SetFillColor(30, 30, 30)
	pdf.Rect(marginL, marginT, contentW, 10, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(marginL+2, marginT+1.5)
	pdf.CellFormat(contentW-30, 7, tr("INDICADORES DE PESSOAS  ROTATIVIDADE "+fmt.Sprint(res.Year)), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 7, tr("Página "+fmt.Sprint(pdf.PageNo())+" de {nb}"), "", 1, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	y := marginT + 13

	// ── Filter section ───────────────────────────────────────────────────────
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetXY(marginL, y)
	pdf.CellFormat(contentW, 5.5, tr("FILTROS"), "LRT", 1, "L", true, 0, "")
	y += 5.5

	colThird := contentW / 3
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(marginL, y)
	pdf.CellFormat(colThird, 6, tr("Sexo: "+filterLabel(res.GenderFilter)), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(colThird, 6, tr("Função: "+filterLabel(res.RoleFilter)), "B", 0, "L", false, 0, "")
	pdf.CellFormat(colThird, 6, tr("Ano: "+fmt.Sprint(res.Year)), "RB", 1, "L", false, 0, "")
	y += 10

	// ── Metric cards ─────────────────────────────────────────────────────────
	cards := []struct {
		label string
		value string
	}{
		{"Taxa de rotatividade", formatPercent(res.TurnoverRate)},
		{"Admissões", fmt.Sprint(res.Entries)},
		{"Desligamentos", fmt.Sprint(res.Exits)},
		{"Headcount médio", formatNumber(res.AverageHeadcount)},
	}
	gap := 3.0
	cardW := (contentW - gap*float64(len(cards)-1)) / float64(len(cards))
	for i, c := range cards {
		x := marginL + float64(i)*(cardW+gap)
		pdf.SetFillColor(245, 245, 245)
		pdf.Rect(x, y, cardW, 18, "FD")
		pdf.SetXY(x, y+2)
		pdf.SetFont("Helvetica", "", 7.5)
		pdf.SetTextColor(90, 90, 90)
		pdf.CellFormat(cardW, 4, tr(strings.ToUpper(c.label)), "", 0, "C", false, 0, "")
		pdf.SetXY(x, y+8)
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(cardW, 8, tr(c.value), "", 0, "C", false, 0, "")
	}
	y += 21

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetXY(marginL, y)
	pdf.CellFormat(contentW, 5, tr(fmt.Sprintf("Ativos em 01/01: %d   Ativos em 31/12: %d", res.ActiveStart, res.ActiveEnd)), "", 1, "L", false, 0, "")
	y += 8

	// ── Monthly timeline ─────────────────────────────────────────────────────
	y = drawTable(pdf, tr, y, "Mês", timelineRows(rep.Timeline))

	// ── Gender comparison ────────────────────────────────────────────────────
	if len(rep.Breakdown) > 0 {
		y += 5
		rows := make([]tableRow, 0, len(rep.Breakdown))
		for _, b := range rep.Breakdown {
			rows = append(rows, tableRow{label: b.Category, entries: b.Entries, exits: b.Exits})
		}
		drawTable(pdf, tr, y, "Sexo", rows)
	}

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.SetXY(marginL, pageH-marginB-6)
	pdf.SetFont("Helvetica", "I", 7.5)
	pdf.SetTextColor(130, 130, 130)
	pdf.CellFormat(contentW/2, 5, tr("Gerado por Indicadores de Pessoas"), "", 0, "L", false, 0, "")
	right := src.GeneratedAt.Format("02/01/2006 15:04")
	if src.FileName != "" {
		right = src.FileName + " | " + right
	}
	pdf.CellFormat(contentW/2, 5, tr(right), "", 0, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

type tableRow struct {
	label   string
	entries int
	exits   int
}

func timelineRows(timeline []domain.MonthActivity) []tableRow {
	rows := make([]tableRow, 0, len(timeline))
	for _, m := range timeline {
		rows = append(rows, tableRow{label: monthName(m.Month), entries: m.Entries, exits: m.Exits})
	}
	return rows
}

// drawTable draws a label/entries/exits table with a totals row and returns
// the y position below it.
func drawTable(pdf *fpdf.Fpdf, tr func(string) string, y float64, heading string, rows []tableRow) float64 {
	pageW, _ := pdf.GetPageSize()
	marginL, _, marginR, _ := pdf.GetMargins()
	contentW := pageW - marginL - marginR
	labelW := contentW * 0.5
	numW := (contentW - labelW) / 2

	pdf.SetFillColor(30, 30, 30)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 8.5)
	pdf.SetXY(marginL, y)
	pdf.CellFormat(labelW, 7, tr(heading), "1", 0, "L", true, 0, "")
	pdf.CellFormat(numW, 7, tr("Admissões"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(numW, 7, tr("Desligamentos"), "1", 1, "C", true, 0, "")
	y += 7
	pdf.SetTextColor(0, 0, 0)

	rowH := 5.8
	var totalIn, totalOut int
	pdf.SetFont("Helvetica", "", 8.5)
	for i, r := range rows {
		if i%2 == 0 {
			pdf.SetFillColor(250, 250, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetXY(marginL, y)
		pdf.CellFormat(labelW, rowH, tr(r.label), "1", 0, "L", true, 0, "")
		pdf.CellFormat(numW, rowH, fmt.Sprint(r.entries), "1", 0, "R", true, 0, "")
		pdf.CellFormat(numW, rowH, fmt.Sprint(r.exits), "1", 1, "R", true, 0, "")
		totalIn += r.entries
		totalOut += r.exits
		y += rowH
	}

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 8.5)
	pdf.SetXY(marginL, y)
	pdf.CellFormat(labelW, rowH, "Total", "1", 0, "L", true, 0, "")
	pdf.CellFormat(numW, rowH, fmt.Sprint(totalIn), "1", 0, "R", true, 0, "")
	pdf.CellFormat(numW, rowH, fmt.Sprint(totalOut), "1", 1, "R", true, 0, "")
	return y + rowH
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func monthName(m time.Month) string {
	if m < time.January || m > time.December {
		return fmt.Sprint(int(m))
	}
	return monthNames[m-1]
}

func filterLabel(v string) string {
	if v == "" || v == domain.FilterAll {
		return "Todos"
	}
	return v
}

// formatPercent renders 12.5 as "12,50%".
func formatPercent(v float64) string {
	return formatNumber(v) + "%"
}

func formatNumber(v float64) string {
	return strings.Replace(fmt.Sprintf("%.2f", v), ".", ",", 1)
}
