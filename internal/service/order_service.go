package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/nurpe/freight-desk/internal/filter"
	"github.com/nurpe/freight-desk/internal/form"
	"github.com/nurpe/freight-desk/internal/model"
	"github.com/nurpe/freight-desk/internal/repository"
)

type OrderStore interface {
	ListOrders(ctx context.Context, query repository.OrderQuery) ([]model.Order, error)
	GetOrder(ctx context.Context, number string) (*model.Order, error)
}

// Backend is the operations backend. It owns every state transition.
type Backend interface {
	CreateOrder(ctx context.Context, token string, orderType model.OrderType, shipmentType model.ShipmentType, data map[string]any) (*model.OrderRef, error)
	SubmitQuote(ctx context.Context, token string, orderNumber model.OrderNumber, data map[string]any) (*model.Quote, error)
	MarkPending(ctx context.Context, token string, orderNumber model.OrderNumber) (*model.OrderRef, error)
	CancelOrder(ctx context.Context, token string, orderNumber model.OrderNumber) (*model.OrderRef, error)
	SelectQuote(ctx context.Context, token string, orderNumber model.OrderNumber, quoteID uuid.UUID) (*model.OrderRef, error)
}

type ValidationObserver interface {
	ObserveValidation(schema string, valid bool)
}

type OrderService struct {
	orders   OrderStore
	backend  Backend
	forms    *form.Registry
	observer ValidationObserver
	log      zerolog.Logger
}

func NewOrderService(orders OrderStore, backend Backend, forms *form.Registry, observer ValidationObserver, log zerolog.Logger) *OrderService {
	return &OrderService{
		orders:   orders,
		backend:  backend,
		forms:    forms,
		observer: observer,
		log:      log,
	}
}

// ListOrders returns the orders visible to principal that match criteria.
// Freight agents and coordinators only ever see active orders.
func (s *OrderService) ListOrders(ctx context.Context, principal model.Principal, criteria filter.Criteria) ([]model.Order, error) {
	query, err := scopeOrders(principal)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.ListOrders(ctx, query)
	if err != nil {
		return nil, err
	}
	return filter.Orders(orders, criteria), nil
}

func (s *OrderService) GetOrder(ctx context.Context, principal model.Principal, number string) (*model.Order, error) {
	return loadOrder(ctx, s.orders, principal, number)
}

type CreateOrderInput struct {
	Principal    model.Principal
	Token        string
	OrderType    string
	ShipmentType string
	Data         form.Data
}

func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*model.OrderRef, error) {
	if !input.Principal.CanManageOrders() {
		return nil, ErrPermissionDenied
	}
	schema, ok := s.forms.Order(input.OrderType, input.ShipmentType)
	if !ok {
		return nil, fmt.Errorf("%w: unknown order form %s/%s", ErrInvalidInput, input.OrderType, input.ShipmentType)
	}
	if err := validateForm(schema, input.Data, s.observer); err != nil {
		return nil, err
	}

	orderType, _ := form.ParseOrderType(input.OrderType)
	shipmentType, _ := form.ParseShipmentType(input.ShipmentType)
	ref, err := s.backend.CreateOrder(ctx, input.Token, orderType, shipmentType, input.Data)
	if err != nil {
		return nil, backendError(err)
	}

	s.log.Info().
		Str("order_number", ref.OrderNumber.String()).
		Str("created_by", input.Principal.Username).
		Msg("order created")
	return ref, nil
}

// MarkPending moves an active order to pending.
func (s *OrderService) MarkPending(ctx context.Context, principal model.Principal, token, number string) (*model.OrderRef, error) {
	if !principal.CanManageOrders() {
		return nil, ErrPermissionDenied
	}
	order, err := loadOrder(ctx, s.orders, principal, number)
	if err != nil {
		return nil, err
	}
	if order.Status != model.OrderStatusActive {
		return nil, fmt.Errorf("%w: order %s is %s", ErrConflict, order.OrderNumber, order.Status)
	}
	ref, err := s.backend.MarkPending(ctx, token, order.OrderNumber)
	if err != nil {
		return nil, backendError(err)
	}
	s.log.Info().Str("order_number", order.OrderNumber.String()).Msg("order marked pending")
	return ref, nil
}

func (s *OrderService) CancelOrder(ctx context.Context, principal model.Principal, token, number string) (*model.OrderRef, error) {
	if !principal.CanManageOrders() {
		return nil, ErrPermissionDenied
	}
	order, err := loadOrder(ctx, s.orders, principal, number)
	if err != nil {
		return nil, err
	}
	if order.Status.Closed() {
		return nil, fmt.Errorf("%w: order %s is %s", ErrConflict, order.OrderNumber, order.Status)
	}
	ref, err := s.backend.CancelOrder(ctx, token, order.OrderNumber)
	if err != nil {
		return nil, backendError(err)
	}
	s.log.Info().Str("order_number", order.OrderNumber.String()).Msg("order cancelled")
	return ref, nil
}

func scopeOrders(principal model.Principal) (repository.OrderQuery, error) {
	switch {
	case principal.CanManageOrders():
		return repository.OrderQuery{}, nil
	case principal.IsAgentSide():
		return repository.OrderQuery{Statuses: []model.OrderStatus{model.OrderStatusActive}}, nil
	}
	return repository.OrderQuery{}, ErrPermissionDenied
}

// loadOrder fetches one order and hides it from agent-side roles unless it
// is still open for quoting.
func loadOrder(ctx context.Context, store OrderStore, principal model.Principal, number string) (*model.Order, error) {
	if _, err := scopeOrders(principal); err != nil {
		return nil, err
	}
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, fmt.Errorf("%w: order number is required", ErrInvalidInput)
	}
	order, err := store.GetOrder(ctx, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if principal.IsAgentSide() && order.Status != model.OrderStatusActive {
		return nil, ErrNotFound
	}
	return order, nil
}

func validateForm(schema form.Schema, data form.Data, observer ValidationObserver) error {
	errs := schema.Validate(data)
	if observer != nil {
		observer.ObserveValidation(schema.Name, errs.Valid())
	}
	if !errs.Valid() {
		return &ValidationError{Schema: schema.Name, Fields: errs}
	}
	return nil
}
