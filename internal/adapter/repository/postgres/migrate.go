package postgres

import (
	"context"
	"fmt"
)

// schema is applied in order; every statement is idempotent
var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id            UUID PRIMARY KEY,
		name          VARCHAR(100) NOT NULL,
		ticker        VARCHAR(20) NOT NULL,
		type          SMALLINT NOT NULL,
		category      SMALLINT NOT NULL,
		currency_code CHAR(3) NOT NULL,
		current_price NUMERIC(18,2) NOT NULL DEFAULT 0,
		created_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_products_ticker ON products (ticker)`,
	`CREATE TABLE IF NOT EXISTS price_histories (
		id         UUID PRIMARY KEY,
		product_id UUID NOT NULL REFERENCES products (id) ON DELETE CASCADE,
		date       TIMESTAMPTZ NOT NULL,
		price      NUMERIC(18,2) NOT NULL,
		source     VARCHAR(100) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ix_price_histories_product_date ON price_histories (product_id, date DESC)`,
}

// Migrate creates the tables and indexes if they do not exist
func (db *DB) Migrate(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
