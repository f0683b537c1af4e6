package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/freight-desk/internal/model"
)

type ExportRepository struct {
	db *gorm.DB
}

func NewExportRepository(db *gorm.DB) *ExportRepository {
	return &ExportRepository{db: db}
}

func (r *ExportRepository) CreateExportLog(ctx context.Context, entry model.ExportLog) (*model.ExportLog, error) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	err := r.db.WithContext(ctx).Exec(`
		INSERT INTO order_export (
			id,
			format,
			requested_by,
			role,
			order_count,
			file_name,
			created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		entry.ID,
		string(entry.Format),
		entry.RequestedBy,
		string(entry.Role),
		entry.OrderCount,
		entry.FileName,
		entry.CreatedAt,
	).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListExportLogs returns the most recent exports of one user.
func (r *ExportRepository) ListExportLogs(ctx context.Context, requestedBy string, limit int) ([]model.ExportLog, error) {
	if limit <= 0 {
		limit = 20
	}
	var logs []model.ExportLog
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, format, requested_by, role, order_count, file_name, created_at
		FROM order_export
		WHERE requested_by = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, requestedBy, limit).Scan(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
