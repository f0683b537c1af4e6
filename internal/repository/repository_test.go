package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nurpe/freight-desk/internal/model"
)

const testSchema = `
CREATE TABLE orders (
	id TEXT PRIMARY KEY,
	order_number TEXT NOT NULL UNIQUE,
	order_type TEXT NOT NULL,
	shipment_type TEXT NOT NULL,
	origin TEXT NOT NULL,
	destination TEXT NOT NULL,
	shipment_ready_date DATETIME,
	target_date DATETIME,
	due_days INTEGER NOT NULL DEFAULT 0,
	cargo_type TEXT,
	commodity TEXT,
	incoterms TEXT,
	gross_weight REAL,
	chargeable_weight REAL,
	cbm REAL,
	no_of_pallets INTEGER,
	container_type TEXT,
	no_of_containers INTEGER,
	status TEXT NOT NULL,
	days_remaining INTEGER,
	created_by TEXT,
	created_at DATETIME NOT NULL
);
CREATE TABLE quotes (
	id TEXT PRIMARY KEY,
	order_number TEXT NOT NULL,
	agent TEXT NOT NULL,
	created_user TEXT NOT NULL,
	carrier TEXT,
	routing TEXT,
	transit_time TEXT,
	validity_time DATETIME,
	net_freight REAL,
	awb REAL,
	hawb REAL,
	dthc REAL,
	origin_charges REAL,
	destination_charges REAL,
	total_freight REAL,
	selected BOOLEAN NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);
CREATE TABLE order_export (
	id TEXT PRIMARY KEY,
	format TEXT NOT NULL,
	requested_by TEXT NOT NULL,
	role TEXT NOT NULL,
	order_count INTEGER NOT NULL,
	file_name TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
`

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every pooled connection would otherwise get its own empty database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range strings.Split(testSchema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func insertOrder(t *testing.T, db *gorm.DB, number, status, createdBy string, offset time.Duration) {
	t.Helper()
	ready := baseTime.AddDate(0, 0, 10)
	err := db.Exec(`
		INSERT INTO orders (id, order_number, order_type, shipment_type, origin, destination,
			shipment_ready_date, due_days, cargo_type, commodity, gross_weight, status, created_by, created_at)
		VALUES (?, ?, 'export', 'airFreight', 'Istanbul', 'Hamburg', ?, 3, 'LooseCargo', 'Textiles', 120.5, ?, ?, ?)
	`, uuid.New(), number, ready, status, createdBy, baseTime.Add(offset)).Error
	require.NoError(t, err)
}

func insertQuote(t *testing.T, db *gorm.DB, number, agent string, total *float64, offset time.Duration) uuid.UUID {
	t.Helper()
	id := uuid.New()
	err := db.Exec(`
		INSERT INTO quotes (id, order_number, agent, created_user, carrier, total_freight, selected, created_at)
		VALUES (?, ?, ?, ?, 'TK Cargo', ?, ?, ?)
	`, id, number, agent, agent+"-user", total, false, baseTime.Add(offset)).Error
	require.NoError(t, err)
	return id
}

func ptr(v float64) *float64 { return &v }

func TestOrderRepository_ListOrders(t *testing.T) {
	db := setupTestDB(t)
	insertOrder(t, db, "1001", "active", "alice", 0)
	insertOrder(t, db, "1002", "pending", "alice", time.Hour)
	insertOrder(t, db, "1003", "active", "bob", 2*time.Hour)
	insertQuote(t, db, "1001", "Globex", ptr(900), 0)
	insertQuote(t, db, "1001", "Initech", ptr(850), time.Minute)

	repo := NewOrderRepository(db)
	ctx := context.Background()

	all, err := repo.ListOrders(ctx, OrderQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, model.OrderNumber("1003"), all[0].OrderNumber, "newest first")
	assert.Equal(t, model.OrderNumber("1001"), all[2].OrderNumber)
	assert.Equal(t, 2, all[2].QuotationCount)
	assert.Equal(t, "Istanbul", all[2].From)
	assert.Equal(t, "Hamburg", all[2].To)
	assert.Equal(t, 3, all[2].DueDate)
	require.NotNil(t, all[2].GrossWeight)
	assert.InDelta(t, 120.5, *all[2].GrossWeight, 0.0001)
	assert.Nil(t, all[2].ChargeableWeight)

	active, err := repo.ListOrders(ctx, OrderQuery{Statuses: []model.OrderStatus{model.OrderStatusActive}})
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestOrderRepository_GetOrder(t *testing.T) {
	db := setupTestDB(t)
	insertOrder(t, db, "2001", "active", "alice", 0)
	repo := NewOrderRepository(db)

	order, err := repo.GetOrder(context.Background(), " 2001 ")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusActive, order.Status)
	assert.Equal(t, model.CargoTypeLoose, order.CargoType)
	require.NotNil(t, order.ShipmentReadyDate)

	_, err = repo.GetOrder(context.Background(), "9999")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestQuoteRepository(t *testing.T) {
	db := setupTestDB(t)
	first := insertQuote(t, db, "3001", "Globex", ptr(700), 0)
	insertQuote(t, db, "3001", "Initech", nil, time.Minute)
	insertQuote(t, db, "3002", "Globex", ptr(400), 0)

	repo := NewQuoteRepository(db)
	ctx := context.Background()

	quotes, err := repo.ListQuotes(ctx, "3001")
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, first, quotes[0].ID)
	assert.Equal(t, "Globex-user", quotes[0].CreatedUser)
	assert.Nil(t, quotes[1].TotalFreight)

	grouped, err := repo.ListQuotesForOrders(ctx, []string{"3002"})
	require.NoError(t, err)
	assert.Len(t, grouped, 1)
	assert.Len(t, grouped["3002"], 1)

	everything, err := repo.ListQuotesForOrders(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, everything["3001"], 2)

	quote, err := repo.GetQuote(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "TK Cargo", quote.Carrier)

	_, err = repo.GetQuote(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestExportRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewExportRepository(db)
	ctx := context.Background()

	saved, err := repo.CreateExportLog(ctx, model.ExportLog{
		Format:      model.ExportFormatXLSX,
		RequestedBy: "alice",
		Role:        model.RoleMainUser,
		OrderCount:  4,
		FileName:    "orders.xlsx",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	logs, err := repo.ListExportLogs(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, model.ExportFormatXLSX, logs[0].Format)
	assert.Equal(t, 4, logs[0].OrderCount)

	none, err := repo.ListExportLogs(ctx, "bob", 5)
	require.NoError(t, err)
	assert.Empty(t, none)
}
