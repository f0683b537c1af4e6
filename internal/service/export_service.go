package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nurpe/freight-desk/internal/config"
	"github.com/nurpe/freight-desk/internal/filter"
	"github.com/nurpe/freight-desk/internal/model"
	"github.com/nurpe/freight-desk/internal/ranking"
)

type ExcelGenerator interface {
	Generate(register model.OrderRegister) ([]byte, error)
}

type PDFGenerator interface {
	Generate(doc model.QuoteComparison) ([]byte, error)
}

type ExportLogStore interface {
	CreateExportLog(ctx context.Context, entry model.ExportLog) (*model.ExportLog, error)
	ListExportLogs(ctx context.Context, requestedBy string, limit int) ([]model.ExportLog, error)
}

type ExportObserver interface {
	ObserveExport(format string)
}

type ExportService struct {
	orders    OrderStore
	quotes    QuoteStore
	logs      ExportLogStore
	excel     ExcelGenerator
	pdf       PDFGenerator
	observer  ExportObserver
	rankField string
	maxOrders int
	now       func() time.Time
	log       zerolog.Logger
}

type ExportServiceDeps struct {
	Orders   OrderStore
	Quotes   QuoteStore
	Logs     ExportLogStore
	Excel    ExcelGenerator
	PDF      PDFGenerator
	Observer ExportObserver
	Now      func() time.Time
}

func NewExportService(deps ExportServiceDeps, cfg *config.Config, log zerolog.Logger) *ExportService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &ExportService{
		orders:    deps.Orders,
		quotes:    deps.Quotes,
		logs:      deps.Logs,
		excel:     deps.Excel,
		pdf:       deps.PDF,
		observer:  deps.Observer,
		rankField: cfg.Quotes.RankField,
		maxOrders: cfg.Export.MaxOrders,
		now:       now,
		log:       log,
	}
}

type ExportResult struct {
	FileName    string
	ContentType string
	Content     []byte
}

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

// ExportOrders renders the filtered order register as a workbook.
func (s *ExportService) ExportOrders(ctx context.Context, principal model.Principal, criteria filter.Criteria) (*ExportResult, error) {
	if !principal.CanManageOrders() {
		return nil, ErrPermissionDenied
	}

	query, err := scopeOrders(principal)
	if err != nil {
		return nil, err
	}
	all, err := s.orders.ListOrders(ctx, query)
	if err != nil {
		return nil, err
	}
	orders := filter.Orders(all, criteria)
	if len(orders) == 0 {
		return nil, fmt.Errorf("%w: no orders match the filter", ErrNotFound)
	}
	if s.maxOrders > 0 && len(orders) > s.maxOrders {
		return nil, fmt.Errorf("%w: %d orders exceed the export limit of %d", ErrInvalidInput, len(orders), s.maxOrders)
	}

	numbers := make([]string, 0, len(orders))
	for _, order := range orders {
		numbers = append(numbers, order.OrderNumber.String())
	}
	quotes, err := s.quotes.ListQuotesForOrders(ctx, numbers)
	if err != nil {
		return nil, err
	}

	generatedAt := s.now().UTC()
	register := model.OrderRegister{
		GeneratedAt: generatedAt,
		RankField:   s.rankField,
		Criteria:    criteriaLabels(criteria),
		Entries:     make([]model.OrderRegisterEntry, 0, len(orders)),
	}
	for _, order := range orders {
		entry := model.OrderRegisterEntry{Order: order, Quotes: quotes[order.OrderNumber.String()]}
		if cheapest, ok := ranking.Cheapest(entry.Quotes, s.rankField); ok {
			entry.Cheapest = &cheapest
		}
		register.Entries = append(register.Entries, entry)
	}

	content, err := s.excel.Generate(register)
	if err != nil {
		return nil, fmt.Errorf("generate workbook: %w", err)
	}

	fileName := fmt.Sprintf("orders_%s.xlsx", generatedAt.Format("20060102_1504"))
	s.record(ctx, principal, model.ExportFormatXLSX, len(orders), fileName)
	return &ExportResult{FileName: fileName, ContentType: contentTypeXLSX, Content: content}, nil
}

// ExportQuoteComparison renders one order's quotes ranked by rankField.
func (s *ExportService) ExportQuoteComparison(ctx context.Context, principal model.Principal, number, rankField string) (*ExportResult, error) {
	if !principal.CanManageOrders() {
		return nil, ErrPermissionDenied
	}
	field := strings.TrimSpace(rankField)
	if field == "" {
		field = s.rankField
	}
	if !ranking.IsPriceField(field) {
		return nil, fmt.Errorf("%w: %q is not a price column", ErrInvalidInput, field)
	}

	order, err := loadOrder(ctx, s.orders, principal, number)
	if err != nil {
		return nil, err
	}
	quotes, err := s.quotes.ListQuotes(ctx, order.OrderNumber.String())
	if err != nil {
		return nil, err
	}

	ranked := ranking.Rank(quotes, field, ranking.SortState{Key: field, Direction: ranking.Ascending})
	generatedAt := s.now().UTC()
	doc := model.QuoteComparison{
		Order:       *order,
		RankField:   field,
		GeneratedAt: generatedAt,
		Rows:        make([]model.QuoteComparisonRow, 0, len(ranked.Rows)),
	}
	for _, row := range ranked.Rows {
		line := model.QuoteComparisonRow{Quote: row.Quote, Cheapest: row.Cheapest}
		if value, ok := ranking.Price(row.Quote, field); ok {
			line.Value = &value
		}
		doc.Rows = append(doc.Rows, line)
	}

	content, err := s.pdf.Generate(doc)
	if err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}

	fileName := fmt.Sprintf("quotes_%s_%s.pdf", fileSafe(order.OrderNumber.String()), generatedAt.Format("20060102"))
	s.record(ctx, principal, model.ExportFormatPDF, 1, fileName)
	return &ExportResult{FileName: fileName, ContentType: contentTypePDF, Content: content}, nil
}

// History lists the caller's most recent exports, newest first.
func (s *ExportService) History(ctx context.Context, principal model.Principal, limit int) ([]model.ExportLog, error) {
	if !principal.CanManageOrders() {
		return nil, ErrPermissionDenied
	}
	if principal.Username == "" {
		return nil, fmt.Errorf("%w: token carries no username", ErrPermissionDenied)
	}
	if s.logs == nil {
		return []model.ExportLog{}, nil
	}
	logs, err := s.logs.ListExportLogs(ctx, principal.Username, limit)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []model.ExportLog{}
	}
	return logs, nil
}

// record writes the export log row. A failed write does not fail the export
// the caller already has.
func (s *ExportService) record(ctx context.Context, principal model.Principal, format model.ExportFormat, count int, fileName string) {
	if s.observer != nil {
		s.observer.ObserveExport(string(format))
	}
	if s.logs == nil {
		return
	}
	_, err := s.logs.CreateExportLog(ctx, model.ExportLog{
		Format:      format,
		RequestedBy: principal.Username,
		Role:        principal.Role,
		OrderCount:  count,
		FileName:    fileName,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		s.log.Warn().Err(err).Str("file_name", fileName).Msg("failed to record export")
	}
}

func criteriaLabels(c filter.Criteria) map[string]string {
	if c.IsEmpty() {
		return map[string]string{"filter": "none"}
	}
	labels := map[string]string{}
	if v := strings.TrimSpace(c.Search); v != "" {
		labels["search"] = v
	}
	if v := strings.TrimSpace(c.OrderType); v != "" {
		labels["orderType"] = v
	}
	if v := strings.TrimSpace(c.ShipmentType); v != "" {
		labels["shipmentType"] = v
	}
	if v := strings.TrimSpace(c.Status); v != "" {
		labels["status"] = v
	}
	return labels
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func fileSafe(value string) string {
	value = unsafeFileChars.ReplaceAllString(value, "-")
	if value == "" {
		return "order"
	}
	return value
}
