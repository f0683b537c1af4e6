package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/freight-desk/internal/model"
)

type QuoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

type quoteRow struct {
	ID                 uuid.UUID
	OrderNumber        string
	Agent              string
	CreatedUser        string
	Carrier            *string
	Routing            *string
	TransitTime        *string
	ValidityTime       *time.Time
	NetFreight         *float64
	Awb                *float64
	Hawb               *float64
	Dthc               *float64
	OriginCharges      *float64
	DestinationCharges *float64
	TotalFreight       *float64
	Selected           bool
	CreatedAt          time.Time
}

const quoteColumns = `
	id,
	order_number,
	agent,
	created_user,
	carrier,
	routing,
	transit_time,
	validity_time,
	net_freight,
	awb,
	hawb,
	dthc,
	origin_charges,
	destination_charges,
	total_freight,
	selected,
	created_at
`

// ListQuotes returns the quotes of one order in submission order.
func (r *QuoteRepository) ListQuotes(ctx context.Context, orderNumber string) ([]model.Quote, error) {
	var rows []quoteRow
	err := r.db.WithContext(ctx).Raw(
		"SELECT "+quoteColumns+" FROM quotes WHERE order_number = ? ORDER BY created_at ASC, id ASC",
		strings.TrimSpace(orderNumber),
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toQuotes(rows), nil
}

// ListQuotesForOrders groups quotes by order number. An empty input returns
// every quote.
func (r *QuoteRepository) ListQuotesForOrders(ctx context.Context, orderNumbers []string) (map[string][]model.Quote, error) {
	baseQuery := "SELECT " + quoteColumns + " FROM quotes"
	var args []interface{}
	if len(orderNumbers) > 0 {
		baseQuery += " WHERE order_number IN ?"
		args = append(args, orderNumbers)
	}
	baseQuery += " ORDER BY order_number ASC, created_at ASC, id ASC"

	var rows []quoteRow
	if err := r.db.WithContext(ctx).Raw(baseQuery, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make(map[string][]model.Quote)
	for _, q := range toQuotes(rows) {
		key := q.OrderNumber.String()
		result[key] = append(result[key], q)
	}
	return result, nil
}

func (r *QuoteRepository) GetQuote(ctx context.Context, id uuid.UUID) (*model.Quote, error) {
	var rows []quoteRow
	err := r.db.WithContext(ctx).Raw(
		"SELECT "+quoteColumns+" FROM quotes WHERE id = ? LIMIT 1", id,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	quotes := toQuotes(rows)
	return &quotes[0], nil
}

func toQuotes(rows []quoteRow) []model.Quote {
	quotes := make([]model.Quote, 0, len(rows))
	for _, row := range rows {
		quotes = append(quotes, model.Quote{
			ID:                 row.ID,
			OrderNumber:        model.OrderNumber(row.OrderNumber),
			Agent:              row.Agent,
			CreatedUser:        row.CreatedUser,
			Carrier:            deref(row.Carrier),
			Routing:            deref(row.Routing),
			TransitTime:        deref(row.TransitTime),
			ValidityTime:       row.ValidityTime,
			NetFreight:         row.NetFreight,
			AWB:                row.Awb,
			HAWB:               row.Hawb,
			DTHC:               row.Dthc,
			OriginCharges:      row.OriginCharges,
			DestinationCharges: row.DestinationCharges,
			TotalFreight:       row.TotalFreight,
			Selected:           row.Selected,
			CreatedAt:          row.CreatedAt,
		})
	}
	return quotes
}
