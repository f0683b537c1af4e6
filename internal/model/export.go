package model

import (
	"time"

	"github.com/google/uuid"
)

type ExportFormat string

const (
	ExportFormatXLSX ExportFormat = "XLSX"
	ExportFormatPDF  ExportFormat = "PDF"
)

// ExportLog records one generated document.
type ExportLog struct {
	ID          uuid.UUID    `json:"id"`
	Format      ExportFormat `json:"format"`
	RequestedBy string       `json:"requestedBy"`
	Role        Role         `json:"role"`
	OrderCount  int          `json:"orderCount"`
	FileName    string       `json:"fileName"`
	CreatedAt   time.Time    `json:"createdAt"`
}

type OrderRegisterEntry struct {
	Order    Order
	Quotes   []Quote
	Cheapest *Quote
}

// OrderRegister is the input of the Excel export.
type OrderRegister struct {
	GeneratedAt time.Time
	RankField   string
	Criteria    map[string]string
	Entries     []OrderRegisterEntry
}

type QuoteComparisonRow struct {
	Quote    Quote
	Value    *float64
	Cheapest bool
}

// QuoteComparison is the input of the PDF export.
type QuoteComparison struct {
	Order       Order
	RankField   string
	GeneratedAt time.Time
	Rows        []QuoteComparisonRow
}
