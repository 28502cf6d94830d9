package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/fintrack-backend/internal/domain"
)

// priceHistoryRepository implements domain.PriceHistoryRepository
type priceHistoryRepository struct {
	q querier
}

// NewPriceHistoryRepository creates a new price history repository
func NewPriceHistoryRepository(db *DB) domain.PriceHistoryRepository {
	return &priceHistoryRepository{q: db}
}

// ListByProductID retrieves all entries of a product, newest first
func (r *priceHistoryRepository) ListByProductID(ctx context.Context, productID uuid.UUID) ([]*domain.PriceHistory, error) {
	query := `
		SELECT id, product_id, date, price, source
		FROM price_histories
		WHERE product_id = $1
		ORDER BY date DESC, id ASC
	`

	rows, err := r.q.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list price history: %w", err)
	}
	defer rows.Close()

	entries := []*domain.PriceHistory{}
	for rows.Next() {
		var entry domain.PriceHistory
		var priceStr string

		if err := rows.Scan(&entry.ID, &entry.ProductID, &entry.Date, &priceStr, &entry.Source); err != nil {
			return nil, fmt.Errorf("failed to scan price history: %w", err)
		}

		// Parse price (NUMERIC)
		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse price: %w", err)
		}
		entry.Price = price
		entry.Date = entry.Date.UTC()

		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate price history: %w", err)
	}

	return entries, nil
}

// Add creates a new price history entry
func (r *priceHistoryRepository) Add(ctx context.Context, entry *domain.PriceHistory) error {
	query := `
		INSERT INTO price_histories (id, product_id, date, price, source)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.q.ExecContext(ctx, query,
		entry.ID,
		entry.ProductID,
		entry.Date,
		entry.Price.String(),
		entry.Source,
	)
	if err != nil {
		return fmt.Errorf("failed to insert price history entry: %w", err)
	}

	return nil
}
