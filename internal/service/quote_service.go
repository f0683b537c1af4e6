package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/nurpe/freight-desk/internal/config"
	"github.com/nurpe/freight-desk/internal/form"
	"github.com/nurpe/freight-desk/internal/model"
	"github.com/nurpe/freight-desk/internal/ranking"
)

type QuoteStore interface {
	ListQuotes(ctx context.Context, orderNumber string) ([]model.Quote, error)
	ListQuotesForOrders(ctx context.Context, orderNumbers []string) (map[string][]model.Quote, error)
	GetQuote(ctx context.Context, id uuid.UUID) (*model.Quote, error)
}

type QuoteService struct {
	orders    OrderStore
	quotes    QuoteStore
	backend   Backend
	forms     *form.Registry
	observer  ValidationObserver
	rankField string
	log       zerolog.Logger
}

func NewQuoteService(orders OrderStore, quotes QuoteStore, backend Backend, forms *form.Registry, observer ValidationObserver, cfg *config.Config, log zerolog.Logger) *QuoteService {
	return &QuoteService{
		orders:    orders,
		quotes:    quotes,
		backend:   backend,
		forms:     forms,
		observer:  observer,
		rankField: cfg.Quotes.RankField,
		log:       log,
	}
}

type ListQuotesInput struct {
	Principal   model.Principal
	OrderNumber string
	RankField   string
	Sort        ranking.SortState
}

// QuoteTable is a ranked quote list plus the sort state each column header
// would switch to when clicked.
type QuoteTable struct {
	Order    model.Order                  `json:"order"`
	Ranking  ranking.Result               `json:"ranking"`
	NextSort map[string]ranking.SortState `json:"nextSort"`
}

func (s *QuoteService) ListQuotes(ctx context.Context, input ListQuotesInput) (*QuoteTable, error) {
	rankField, err := s.resolveRankField(input.RankField)
	if err != nil {
		return nil, err
	}
	sortState := input.Sort
	if sortState.Key != "" && !isColumn(sortState.Key) {
		return nil, fmt.Errorf("%w: unknown sort column %q", ErrInvalidInput, sortState.Key)
	}
	if sortState.Direction == "" {
		sortState.Direction = ranking.Ascending
	}

	order, err := loadOrder(ctx, s.orders, input.Principal, input.OrderNumber)
	if err != nil {
		return nil, err
	}
	quotes, err := s.quotes.ListQuotes(ctx, order.OrderNumber.String())
	if err != nil {
		return nil, err
	}
	quotes = visibleQuotes(input.Principal, quotes)

	next := make(map[string]ranking.SortState)
	for _, key := range ranking.Columns() {
		next[key] = sortState.Toggle(key)
	}

	return &QuoteTable{
		Order:    *order,
		Ranking:  ranking.Rank(quotes, rankField, sortState),
		NextSort: next,
	}, nil
}

type SubmitQuoteInput struct {
	Principal   model.Principal
	Token       string
	OrderNumber string
	Data        form.Data
}

func (s *QuoteService) SubmitQuote(ctx context.Context, input SubmitQuoteInput) (*model.Quote, error) {
	if !input.Principal.IsAgentSide() {
		return nil, ErrPermissionDenied
	}
	order, err := loadOrder(ctx, s.orders, input.Principal, input.OrderNumber)
	if err != nil {
		return nil, err
	}
	schema, ok := s.forms.Quote(order.ShipmentType)
	if !ok {
		return nil, fmt.Errorf("%w: no quote form for shipment type %s", ErrInvalidInput, order.ShipmentType)
	}
	if err := validateForm(schema, input.Data, s.observer); err != nil {
		return nil, err
	}

	quote, err := s.backend.SubmitQuote(ctx, input.Token, order.OrderNumber, input.Data)
	if err != nil {
		return nil, backendError(err)
	}
	s.log.Info().
		Str("order_number", order.OrderNumber.String()).
		Str("agent", input.Principal.Agent).
		Str("user", input.Principal.Username).
		Msg("quote submitted")
	return quote, nil
}

// SelectQuote awards the order to one of its quotes.
func (s *QuoteService) SelectQuote(ctx context.Context, principal model.Principal, token, number string, quoteID uuid.UUID) (*model.OrderRef, error) {
	if !principal.CanManageOrders() {
		return nil, ErrPermissionDenied
	}
	if quoteID == uuid.Nil {
		return nil, fmt.Errorf("%w: quote id is required", ErrInvalidInput)
	}
	order, err := loadOrder(ctx, s.orders, principal, number)
	if err != nil {
		return nil, err
	}
	if order.Status.Closed() {
		return nil, fmt.Errorf("%w: order %s is %s", ErrConflict, order.OrderNumber, order.Status)
	}

	quote, err := s.quotes.GetQuote(ctx, quoteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if quote.OrderNumber != order.OrderNumber {
		return nil, fmt.Errorf("%w: quote %s does not belong to order %s", ErrNotFound, quoteID, order.OrderNumber)
	}

	ref, err := s.backend.SelectQuote(ctx, token, order.OrderNumber, quoteID)
	if err != nil {
		return nil, backendError(err)
	}
	s.log.Info().
		Str("order_number", order.OrderNumber.String()).
		Str("quote_id", quoteID.String()).
		Msg("quote selected")
	return ref, nil
}

func (s *QuoteService) resolveRankField(raw string) (string, error) {
	field := strings.TrimSpace(raw)
	if field == "" {
		field = s.rankField
	}
	if !ranking.IsPriceField(field) {
		return "", fmt.Errorf("%w: %q is not a price column", ErrInvalidInput, field)
	}
	return field, nil
}

// visibleQuotes keeps what principal may see: managers see everything, a
// freight agent only their own quotes and a coordinator their agency's.
func visibleQuotes(principal model.Principal, quotes []model.Quote) []model.Quote {
	if principal.CanManageOrders() {
		return quotes
	}
	out := make([]model.Quote, 0, len(quotes))
	for _, q := range quotes {
		switch {
		case principal.IsFreightAgent() && principal.Username != "" && q.CreatedUser == principal.Username:
			out = append(out, q)
		case principal.IsCoordinator() && principal.Agent != "" && q.Agent == principal.Agent:
			out = append(out, q)
		}
	}
	return out
}

func isColumn(key string) bool {
	for _, c := range ranking.Columns() {
		if c == key {
			return true
		}
	}
	return false
}
