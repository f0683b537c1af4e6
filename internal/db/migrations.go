package db

import (
	"fmt"

	"gorm.io/gorm"
)

// The orders and quotes tables belong to the operations backend; this service
// only owns its export log.
var migrationStatements = []string{
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'export_format') THEN
			CREATE TYPE export_format AS ENUM ('XLSX', 'PDF');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS order_export (
		id UUID PRIMARY KEY,
		format export_format NOT NULL,
		requested_by VARCHAR(128) NOT NULL,
		role VARCHAR(32) NOT NULL,
		order_count INTEGER NOT NULL DEFAULT 0,
		file_name VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_order_export_requested_by ON order_export (requested_by);`,
	`CREATE INDEX IF NOT EXISTS idx_order_export_created_at ON order_export (created_at);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
