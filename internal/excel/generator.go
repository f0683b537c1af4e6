package excel

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/freight-desk/internal/model"
	"github.com/nurpe/freight-desk/internal/ranking"
)

const (
	summarySheet = "Summary"
	ordersSheet  = "Orders"
	maxSheetName = 31
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

type styles struct {
	header   int
	cheapest int
}

// Generate renders the order register: a summary sheet, one row per order
// and one quote sheet per order that received quotes.
func (g *Generator) Generate(register model.OrderRegister) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	st, err := newStyles(file)
	if err != nil {
		return nil, err
	}

	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	g.writeSummary(file, st, register)

	if _, err := file.NewSheet(ordersSheet); err != nil {
		return nil, err
	}
	g.writeOrders(file, st, register)

	usedNames := map[string]struct{}{summarySheet: {}, ordersSheet: {}}
	for _, entry := range register.Entries {
		if len(entry.Quotes) == 0 {
			continue
		}
		sheetName := buildSheetName(entry.Order.OrderNumber.String(), usedNames)
		usedNames[sheetName] = struct{}{}

		if _, err := file.NewSheet(sheetName); err != nil {
			return nil, err
		}
		g.writeQuotes(file, sheetName, st, register.RankField, entry)
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func newStyles(file *excelize.File) (styles, error) {
	header, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return styles{}, err
	}
	cheapest, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "006100"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C6EFCE"}, Pattern: 1},
	})
	if err != nil {
		return styles{}, err
	}
	return styles{header: header, cheapest: cheapest}, nil
}

func (g *Generator) writeSummary(file *excelize.File, st styles, register model.OrderRegister) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(summarySheet, cell, value)
	}

	quoted, quotes := 0, 0
	for _, entry := range register.Entries {
		if len(entry.Quotes) > 0 {
			quoted++
		}
		quotes += len(entry.Quotes)
	}

	set("A1", "Generated at")
	set("B1", formatDateTime(register.GeneratedAt))
	set("A2", "Rank field")
	set("B2", register.RankField)
	set("A3", "Orders")
	set("B3", len(register.Entries))
	set("A4", "Orders with quotes")
	set("B4", quoted)
	set("A5", "Quotes")
	set("B5", quotes)
	_ = file.SetCellStyle(summarySheet, "A1", "A5", st.header)

	row := 7
	set(fmt.Sprintf("A%d", row), "Filter")
	set(fmt.Sprintf("B%d", row), "Value")
	_ = file.SetCellStyle(summarySheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), st.header)

	keys := make([]string, 0, len(register.Criteria))
	for key := range register.Criteria {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		row++
		set(fmt.Sprintf("A%d", row), key)
		set(fmt.Sprintf("B%d", row), register.Criteria[key])
	}
	if len(keys) == 0 {
		set(fmt.Sprintf("A%d", row+1), "none")
	}

	_ = file.SetColWidth(summarySheet, "A", "A", 24)
	_ = file.SetColWidth(summarySheet, "B", "B", 28)
}

func (g *Generator) writeOrders(file *excelize.File, st styles, register model.OrderRegister) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(ordersSheet, cell, value)
	}

	headers := []string{
		"Order number",
		"Order type",
		"Shipment type",
		"From",
		"To",
		"Ready date",
		"Target date",
		"Days to respond",
		"Status",
		"Days remaining",
		"Quotes",
		"Cheapest agent",
		"Cheapest " + register.RankField,
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = file.SetCellStyle(ordersSheet, "A1", lastHeader, st.header)

	for i, entry := range register.Entries {
		row := i + 2
		order := entry.Order
		set(fmt.Sprintf("A%d", row), order.OrderNumber.String())
		set(fmt.Sprintf("B%d", row), string(order.OrderType))
		set(fmt.Sprintf("C%d", row), string(order.ShipmentType))
		set(fmt.Sprintf("D%d", row), order.From)
		set(fmt.Sprintf("E%d", row), order.To)
		set(fmt.Sprintf("F%d", row), formatDate(order.ShipmentReadyDate))
		set(fmt.Sprintf("G%d", row), formatDate(order.TargetDate))
		set(fmt.Sprintf("H%d", row), order.DueDate)
		set(fmt.Sprintf("I%d", row), string(order.Status))
		set(fmt.Sprintf("J%d", row), formatInt(order.DaysRemaining))
		set(fmt.Sprintf("K%d", row), len(entry.Quotes))
		if entry.Cheapest != nil {
			set(fmt.Sprintf("L%d", row), entry.Cheapest.Agent)
			if value, ok := ranking.Price(*entry.Cheapest, register.RankField); ok {
				set(fmt.Sprintf("M%d", row), formatAmount(value))
			}
		}
	}

	_ = file.SetColWidth(ordersSheet, "A", "C", 16)
	_ = file.SetColWidth(ordersSheet, "D", "E", 24)
	_ = file.SetColWidth(ordersSheet, "F", "K", 14)
	_ = file.SetColWidth(ordersSheet, "L", "M", 22)
}

func (g *Generator) writeQuotes(file *excelize.File, sheet string, st styles, rankField string, entry model.OrderRegisterEntry) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	order := entry.Order
	set("A1", "Order number")
	set("B1", order.OrderNumber.String())
	set("A2", "Route")
	set("B2", fmt.Sprintf("%s - %s", order.From, order.To))
	set("A3", "Shipment type")
	set("B3", string(order.ShipmentType))
	set("A4", "Rank field")
	set("B4", rankField)
	_ = file.SetCellStyle(sheet, "A1", "A4", st.header)

	tableRow := 6
	headers := []string{
		"Agent",
		"Created by",
		"Carrier",
		"Routing",
		"Transit time",
		"Validity",
		"Net freight",
		"AWB",
		"HAWB",
		"DTHC",
		"Origin charges",
		"Destination charges",
		"Total freight",
		"Selected",
		"Cheapest",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), tableRow)
	_ = file.SetCellStyle(sheet, fmt.Sprintf("A%d", tableRow), lastHeader, st.header)

	for i, q := range entry.Quotes {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), q.Agent)
		set(fmt.Sprintf("B%d", row), q.CreatedUser)
		set(fmt.Sprintf("C%d", row), q.Carrier)
		set(fmt.Sprintf("D%d", row), q.Routing)
		set(fmt.Sprintf("E%d", row), q.TransitTime)
		set(fmt.Sprintf("F%d", row), formatDate(q.ValidityTime))
		set(fmt.Sprintf("G%d", row), formatFloat(q.NetFreight))
		set(fmt.Sprintf("H%d", row), formatFloat(q.AWB))
		set(fmt.Sprintf("I%d", row), formatFloat(q.HAWB))
		set(fmt.Sprintf("J%d", row), formatFloat(q.DTHC))
		set(fmt.Sprintf("K%d", row), formatFloat(q.OriginCharges))
		set(fmt.Sprintf("L%d", row), formatFloat(q.DestinationCharges))
		set(fmt.Sprintf("M%d", row), formatFloat(q.TotalFreight))
		set(fmt.Sprintf("N%d", row), yesNo(q.Selected))

		cheapest := entry.Cheapest != nil && entry.Cheapest.ID == q.ID
		set(fmt.Sprintf("O%d", row), yesNo(cheapest))
		if cheapest {
			_ = file.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("O%d", row), st.cheapest)
		}
	}

	_ = file.SetColWidth(sheet, "A", "B", 20)
	_ = file.SetColWidth(sheet, "C", "E", 18)
	_ = file.SetColWidth(sheet, "F", "O", 14)
}

func buildSheetName(orderNumber string, used map[string]struct{}) string {
	base := sanitizeSheetName("Quotes " + strings.TrimSpace(orderNumber))
	if len(base) > maxSheetName {
		base = base[:maxSheetName]
	}

	nameCandidate := base
	counter := 2
	for {
		if _, exists := used[nameCandidate]; !exists {
			return nameCandidate
		}
		suffix := fmt.Sprintf("-%d", counter)
		trimmed := base
		if len(trimmed)+len(suffix) > maxSheetName {
			trimmed = trimmed[:maxSheetName-len(suffix)]
		}
		nameCandidate = trimmed + suffix
		counter++
	}
}

func sanitizeSheetName(value string) string {
	replacer := strings.NewReplacer(
		"[", "-",
		"]", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"/", "-",
		"\\", "-",
	)
	value = strings.TrimSpace(replacer.Replace(value))
	if value == "" {
		return "Quotes"
	}
	return value
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatFloat(value *float64) string {
	if value == nil {
		return ""
	}
	return formatAmount(*value)
}

func formatAmount(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

func formatInt(value *int) string {
	if value == nil {
		return ""
	}
	return fmt.Sprintf("%d", *value)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
