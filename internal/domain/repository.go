package domain

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence operations.
// Lookups return an error matching ErrProductNotFound when nothing matches.
type ProductRepository interface {
	// GetByID retrieves a product by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// GetByTicker retrieves a product by exact ticker match
	GetByTicker(ctx context.Context, ticker string) (*Product, error)

	// List retrieves all products ordered by creation time
	List(ctx context.Context) ([]*Product, error)

	// Add stores a new product. A ticker that is already stored yields an
	// error matching ErrDuplicateTicker.
	Add(ctx context.Context, product *Product) error

	// Update persists the mutable state of an existing product
	Update(ctx context.Context, product *Product) error
}

// PriceHistoryRepository defines the interface for price history persistence operations
type PriceHistoryRepository interface {
	// ListByProductID retrieves all entries of a product, newest first
	ListByProductID(ctx context.Context, productID uuid.UUID) ([]*PriceHistory, error)

	// Add stores a new history entry
	Add(ctx context.Context, entry *PriceHistory) error
}

// UnitOfWork groups repository writes behind a single commit.
// Nothing written through its repositories is visible to others before Commit.
// Rollback after a successful Commit is a no-op, so callers can defer it.
type UnitOfWork interface {
	Products() ProductRepository
	PriceHistory() PriceHistoryRepository
	Commit(ctx context.Context) error
	Rollback() error
}

// UnitOfWorkFactory opens units of work
type UnitOfWorkFactory interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}
