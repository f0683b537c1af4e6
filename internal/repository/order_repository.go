package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/freight-desk/internal/model"
)

// OrderRepository reads the order and quote tables the operations backend
// writes. It never modifies them.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// OrderQuery narrows the read at the database; free-text and categorical
// filtering happen in memory afterwards.
type OrderQuery struct {
	Statuses []model.OrderStatus
}

type orderRow struct {
	ID                uuid.UUID
	OrderNumber       string
	OrderType         string
	ShipmentType      string
	Origin            string
	Destination       string
	ShipmentReadyDate *time.Time
	TargetDate        *time.Time
	DueDays           int
	CargoType         *string
	Commodity         *string
	Incoterms         *string
	GrossWeight       *float64
	ChargeableWeight  *float64
	Cbm               *float64
	NoOfPallets       *int
	ContainerType     *string
	NoOfContainers    *int
	Status            string
	DaysRemaining     *int
	QuotationCount    int
	CreatedBy         *string
	CreatedAt         time.Time
}

const orderColumns = `
	o.id,
	o.order_number,
	o.order_type,
	o.shipment_type,
	o.origin,
	o.destination,
	o.shipment_ready_date,
	o.target_date,
	o.due_days,
	o.cargo_type,
	o.commodity,
	o.incoterms,
	o.gross_weight,
	o.chargeable_weight,
	o.cbm,
	o.no_of_pallets,
	o.container_type,
	o.no_of_containers,
	o.status,
	o.days_remaining,
	(SELECT COUNT(*) FROM quotes q WHERE q.order_number = o.order_number) AS quotation_count,
	o.created_by,
	o.created_at
`

func (r *OrderRepository) ListOrders(ctx context.Context, query OrderQuery) ([]model.Order, error) {
	baseQuery := "SELECT " + orderColumns + " FROM orders o WHERE 1 = 1"
	var args []interface{}
	if len(query.Statuses) > 0 {
		statuses := make([]string, 0, len(query.Statuses))
		for _, status := range query.Statuses {
			statuses = append(statuses, string(status))
		}
		baseQuery += " AND o.status IN ?"
		args = append(args, statuses)
	}
	baseQuery += " ORDER BY o.created_at DESC, o.order_number ASC"

	var rows []orderRow
	if err := r.db.WithContext(ctx).Raw(baseQuery, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	orders := make([]model.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toModel())
	}
	return orders, nil
}

func (r *OrderRepository) GetOrder(ctx context.Context, number string) (*model.Order, error) {
	var row orderRow
	err := r.db.WithContext(ctx).Raw(
		"SELECT "+orderColumns+" FROM orders o WHERE o.order_number = ? LIMIT 1",
		strings.TrimSpace(number),
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	order := row.toModel()
	return &order, nil
}

func (row orderRow) toModel() model.Order {
	return model.Order{
		ID:                row.ID,
		OrderNumber:       model.OrderNumber(row.OrderNumber),
		OrderType:         model.OrderType(row.OrderType),
		ShipmentType:      model.ShipmentType(row.ShipmentType),
		From:              row.Origin,
		To:                row.Destination,
		ShipmentReadyDate: row.ShipmentReadyDate,
		TargetDate:        row.TargetDate,
		DueDate:           row.DueDays,
		CargoType:         model.CargoType(deref(row.CargoType)),
		Commodity:         deref(row.Commodity),
		Incoterms:         deref(row.Incoterms),
		GrossWeight:       row.GrossWeight,
		ChargeableWeight:  row.ChargeableWeight,
		CBM:               row.Cbm,
		NoOfPallets:       row.NoOfPallets,
		ContainerType:     deref(row.ContainerType),
		NoOfContainers:    row.NoOfContainers,
		Status:            model.OrderStatus(row.Status),
		DaysRemaining:     row.DaysRemaining,
		QuotationCount:    row.QuotationCount,
		CreatedBy:         deref(row.CreatedBy),
		CreatedAt:         row.CreatedAt,
	}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
