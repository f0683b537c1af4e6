package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/nurpe/freight-desk/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

type column struct {
	title string
	width float64
	align string
}

// Generate renders a landscape quote comparison sheet for one order. Rows
// arrive already ranked; cheapest rows are highlighted.
func (g *Generator) Generate(doc model.QuoteComparison) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetTitle(fmt.Sprintf("Quote comparison %s", doc.Order.OrderNumber), true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Quote comparison - order %s", doc.Order.OrderNumber)), "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 10)
	lines := []string{
		fmt.Sprintf("Route: %s - %s", safeValue(doc.Order.From), safeValue(doc.Order.To)),
		fmt.Sprintf("Order type: %s   Shipment type: %s   Status: %s", doc.Order.OrderType, doc.Order.ShipmentType, doc.Order.Status),
		fmt.Sprintf("Shipment ready: %s   Target delivery: %s", formatDate(doc.Order.ShipmentReadyDate), formatDate(doc.Order.TargetDate)),
		fmt.Sprintf("Ranked by %s, generated %s", doc.RankField, doc.GeneratedAt.Format("2006-01-02 15:04")),
	}
	for _, line := range lines {
		pdf.CellFormat(0, 6, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	columns := []column{
		{title: "#", width: 10, align: "C"},
		{title: "Agent", width: 45, align: "L"},
		{title: "Carrier", width: 40, align: "L"},
		{title: "Routing", width: 40, align: "L"},
		{title: "Transit", width: 25, align: "L"},
		{title: "Valid until", width: 25, align: "C"},
		{title: "Net freight", width: 27, align: "R"},
		{title: doc.RankField, width: 30, align: "R"},
		{title: "Cheapest", width: 25, align: "C"},
	}

	drawHeader(pdf, g.fontName, tr, columns)
	if len(doc.Rows) == 0 {
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(0, 8, tr("No quotes submitted yet."), "1", 1, "C", false, 0, "")
	}
	for i, row := range doc.Rows {
		q := row.Quote
		cells := []string{
			fmt.Sprintf("%d", i+1),
			safeValue(q.Agent),
			safeValue(q.Carrier),
			safeValue(q.Routing),
			safeValue(q.TransitTime),
			formatDate(q.ValidityTime),
			formatAmount(q.NetFreight),
			formatAmount(row.Value),
			"",
		}
		if row.Cheapest {
			cells[len(cells)-1] = "yes"
		}
		drawRow(pdf, g.fontName, tr, columns, cells, row.Cheapest)
	}

	if err := pdf.Error(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawHeader(pdf *gofpdf.Fpdf, fontName string, tr func(string) string, columns []column) {
	pdf.SetFont(fontName, "B", 10)
	pdf.SetFillColor(217, 225, 242)
	for _, col := range columns {
		pdf.CellFormat(col.width, 8, tr(col.title), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

func drawRow(pdf *gofpdf.Fpdf, fontName string, tr func(string) string, columns []column, cells []string, highlight bool) {
	style := ""
	if highlight {
		style = "B"
		pdf.SetFillColor(198, 239, 206)
	}
	pdf.SetFont(fontName, style, 9)
	for i, col := range columns {
		pdf.CellFormat(col.width, 7, tr(cells[i]), "1", 0, col.align, highlight, 0, "")
	}
	pdf.Ln(-1)
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func formatAmount(value *float64) string {
	if value == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *value)
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format("02.01.2006")
}
