package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/freight-desk/internal/config"
	"github.com/nurpe/freight-desk/internal/form"
	"github.com/nurpe/freight-desk/internal/model"
	"github.com/nurpe/freight-desk/internal/repository"
)

var (
	adminUser   = model.Principal{UserID: "u-1", Username: "admin", Role: model.RoleAdmin}
	mainUser    = model.Principal{UserID: "u-2", Username: "ops", Role: model.RoleMainUser}
	agentUser   = model.Principal{UserID: "u-3", Username: "g.agent", Role: model.RoleFreightAgent, Agent: "Globex"}
	coordinator = model.Principal{UserID: "u-4", Username: "g.lead", Role: model.RoleCoordinator, Agent: "Globex"}
	stranger    = model.Principal{UserID: "u-5", Username: "nobody", Role: model.Role("guest")}
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
}

func testConfig() *config.Config {
	return &config.Config{
		Quotes: config.QuotesConfig{RankField: "totalFreight"},
		Export: config.ExportConfig{MaxOrders: 3},
	}
}

func testForms() *form.Registry {
	return form.NewRegistry(fixedNow)
}

func price(v float64) *float64 { return &v }

type fakeOrderStore struct {
	orders    []model.Order
	lastQuery repository.OrderQuery
	err       error
}

func (f *fakeOrderStore) ListOrders(_ context.Context, query repository.OrderQuery) ([]model.Order, error) {
	f.lastQuery = query
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.Order, 0, len(f.orders))
	for _, o := range f.orders {
		if len(query.Statuses) > 0 && !slices.Contains(query.Statuses, o.Status) {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOrderStore) GetOrder(_ context.Context, number string) (*model.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, o := range f.orders {
		if o.OrderNumber.String() == number {
			order := o
			return &order, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeQuoteStore struct {
	quotes map[string][]model.Quote
}

func (f *fakeQuoteStore) ListQuotes(_ context.Context, orderNumber string) ([]model.Quote, error) {
	return slices.Clone(f.quotes[orderNumber]), nil
}

func (f *fakeQuoteStore) ListQuotesForOrders(_ context.Context, orderNumbers []string) (map[string][]model.Quote, error) {
	out := make(map[string][]model.Quote)
	for number, quotes := range f.quotes {
		if len(orderNumbers) > 0 && !slices.Contains(orderNumbers, number) {
			continue
		}
		out[number] = slices.Clone(quotes)
	}
	return out, nil
}

func (f *fakeQuoteStore) GetQuote(_ context.Context, id uuid.UUID) (*model.Quote, error) {
	for _, quotes := range f.quotes {
		for _, q := range quotes {
			if q.ID == id {
				quote := q
				return &quote, nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type backendCall struct {
	method  string
	token   string
	number  model.OrderNumber
	quoteID uuid.UUID
	data    map[string]any
}

type fakeBackend struct {
	mu    sync.Mutex
	calls []backendCall
	err   error
}

func (f *fakeBackend) record(call backendCall) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeBackend) CreateOrder(_ context.Context, token string, orderType model.OrderType, shipmentType model.ShipmentType, data map[string]any) (*model.OrderRef, error) {
	if err := f.record(backendCall{method: "create", token: token, data: data}); err != nil {
		return nil, err
	}
	return &model.OrderRef{OrderNumber: "9001", Status: model.OrderStatusActive}, nil
}

func (f *fakeBackend) SubmitQuote(_ context.Context, token string, number model.OrderNumber, data map[string]any) (*model.Quote, error) {
	if err := f.record(backendCall{method: "quote", token: token, number: number, data: data}); err != nil {
		return nil, err
	}
	return &model.Quote{ID: uuid.New(), OrderNumber: number}, nil
}

func (f *fakeBackend) MarkPending(_ context.Context, token string, number model.OrderNumber) (*model.OrderRef, error) {
	if err := f.record(backendCall{method: "pending", token: token, number: number}); err != nil {
		return nil, err
	}
	return &model.OrderRef{OrderNumber: number, Status: model.OrderStatusPending}, nil
}

func (f *fakeBackend) CancelOrder(_ context.Context, token string, number model.OrderNumber) (*model.OrderRef, error) {
	if err := f.record(backendCall{method: "cancel", token: token, number: number}); err != nil {
		return nil, err
	}
	return &model.OrderRef{OrderNumber: number, Status: model.OrderStatusCancelled}, nil
}

func (f *fakeBackend) SelectQuote(_ context.Context, token string, number model.OrderNumber, quoteID uuid.UUID) (*model.OrderRef, error) {
	if err := f.record(backendCall{method: "select", token: token, number: number, quoteID: quoteID}); err != nil {
		return nil, err
	}
	return &model.OrderRef{OrderNumber: number, Status: model.OrderStatusCompleted}, nil
}

type validationEvent struct {
	schema string
	valid  bool
}

type fakeObserver struct {
	validations []validationEvent
	exports     []string
}

func (f *fakeObserver) ObserveValidation(schema string, valid bool) {
	f.validations = append(f.validations, validationEvent{schema: schema, valid: valid})
}

func (f *fakeObserver) ObserveExport(format string) {
	f.exports = append(f.exports, format)
}

type fakeExcel struct {
	register model.OrderRegister
}

func (f *fakeExcel) Generate(register model.OrderRegister) ([]byte, error) {
	f.register = register
	return []byte("xlsx"), nil
}

type fakePDF struct {
	doc model.QuoteComparison
}

func (f *fakePDF) Generate(doc model.QuoteComparison) ([]byte, error) {
	f.doc = doc
	return []byte("%PDF-1.3"), nil
}

type fakeExportLogs struct {
	entries []model.ExportLog
	err     error
}

func (f *fakeExportLogs) CreateExportLog(_ context.Context, entry model.ExportLog) (*model.ExportLog, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.entries = append(f.entries, entry)
	return &entry, nil
}

func (f *fakeExportLogs) ListExportLogs(_ context.Context, requestedBy string, limit int) ([]model.ExportLog, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.ExportLog
	for i := len(f.entries) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if f.entries[i].RequestedBy == requestedBy {
			out = append(out, f.entries[i])
		}
	}
	return out, nil
}

func sampleOrders() []model.Order {
	return []model.Order{
		{OrderNumber: "1001", OrderType: model.OrderTypeExport, ShipmentType: model.ShipmentTypeAirFreight, Status: model.OrderStatusActive},
		{OrderNumber: "1002", OrderType: model.OrderTypeImport, ShipmentType: model.ShipmentTypeFCL, Status: model.OrderStatusPending},
		{OrderNumber: "1003", OrderType: model.OrderTypeExport, ShipmentType: model.ShipmentTypeLCL, Status: model.OrderStatusCancelled},
		{OrderNumber: "2001", OrderType: model.OrderTypeImport, ShipmentType: model.ShipmentTypeAirFreight, Status: model.OrderStatusActive},
	}
}

var (
	quoteGlobexA  = uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	quoteGlobexB  = uuid.MustParse("00000000-0000-0000-0000-00000000000b")
	quoteInitechC = uuid.MustParse("00000000-0000-0000-0000-00000000000c")
)

func sampleQuotes() map[string][]model.Quote {
	return map[string][]model.Quote{
		"1001": {
			{ID: quoteGlobexA, OrderNumber: "1001", Agent: "Globex", CreatedUser: "g.agent", TotalFreight: price(900), NetFreight: price(800)},
			{ID: quoteGlobexB, OrderNumber: "1001", Agent: "Globex", CreatedUser: "g.other", TotalFreight: price(950)},
			{ID: quoteInitechC, OrderNumber: "1001", Agent: "Initech", CreatedUser: "i.agent", TotalFreight: price(850)},
		},
		"1002": {
			{ID: uuid.New(), OrderNumber: "1002", Agent: "Initech", TotalFreight: price(4000), Selected: true},
		},
	}
}

func exportAirForm() form.Data {
	return form.Data{
		"from":              "Colombo",
		"to":                "Frankfurt",
		"shipmentReadyDate": "2026-03-20",
		"targetDate":        "2026-03-25",
		"dueDate":           5.0,
		"commodity":         "Tea",
		"incoterms":         "FOB",
		"cargoType":         "PalletizedCargo",
		"noOfPallets":       4.0,
		"grossWeight":       800.0,
		"chargeableWeight":  950.0,
		"cbm":               3.2,
	}
}

func airQuoteForm() form.Data {
	return form.Data{
		"carrier":      "EK",
		"transitTime":  "3 days",
		"validityTime": "2026-03-10",
		"totalFreight": 2100.0,
		"netFreight":   1800.0,
		"awb":          35.0,
	}
}
