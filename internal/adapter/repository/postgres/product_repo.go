package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/fintrack-backend/internal/domain"
)

const productColumns = `id, name, ticker, type, category, currency_code, current_price, created_at`

// productRepository implements domain.ProductRepository
type productRepository struct {
	q querier
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *DB) domain.ProductRepository {
	return &productRepository{q: db}
}

// GetByID retrieves a product by its ID
func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByTicker retrieves a product by exact ticker match
func (r *productRepository) GetByTicker(ctx context.Context, ticker string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE ticker = $1`
	return r.getOne(ctx, query, ticker)
}

func (r *productRepository) getOne(ctx context.Context, query string, arg any) (*domain.Product, error) {
	product, err := scanProduct(r.q.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError()
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// List retrieves all products ordered by creation time
func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at ASC, id ASC`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, nil
}

// Add creates a new product
func (r *productRepository) Add(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	s := product.Snapshot()
	_, err := r.q.ExecContext(ctx, query,
		s.ID,
		s.Name,
		s.Ticker,
		int(s.Type),
		int(s.Category),
		s.CurrencyCode,
		s.CurrentPrice.String(),
		s.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewDuplicateTickerError(s.Ticker)
		}
		return fmt.Errorf("failed to insert product: %w", err)
	}

	return nil
}

// Update persists the current price of an existing product
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `UPDATE products SET current_price = $2 WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, product.ID(), product.CurrentPrice().String())
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return domain.NewNotFoundError()
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var s domain.ProductSnapshot
	var productType, category int
	var priceStr string

	if err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Ticker,
		&productType,
		&category,
		&s.CurrencyCode,
		&priceStr,
		&s.CreatedAt,
	); err != nil {
		return nil, err
	}

	// Parse current_price (NUMERIC)
	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse current_price: %w", err)
	}
	s.CurrentPrice = price
	s.Type = domain.ProductType(productType)
	s.Category = domain.ProductCategory(category)
	s.CreatedAt = s.CreatedAt.UTC()

	product, err := domain.RestoreProduct(s)
	if err != nil {
		return nil, fmt.Errorf("failed to restore product %s: %w", s.ID, err)
	}
	return product, nil
}
