package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/simaogato/fintrack-backend/internal/domain"
)

// productRepository implements domain.ProductRepository directly on the store.
// Writes outside a unit of work commit immediately.
type productRepository struct {
	store *Store
}

// NewProductRepository creates a new product repository
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{store: store}
}

func (r *productRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	snap, ok := r.store.productByID(id)
	if !ok {
		return nil, domain.NewNotFoundError()
	}
	return domain.RestoreProduct(snap)
}

func (r *productRepository) GetByTicker(_ context.Context, ticker string) (*domain.Product, error) {
	snap, ok := r.store.productByTicker(ticker)
	if !ok {
		return nil, domain.NewNotFoundError()
	}
	return domain.RestoreProduct(snap)
}

func (r *productRepository) List(context.Context) ([]*domain.Product, error) {
	return restore(r.store.allProducts())
}

func (r *productRepository) Add(_ context.Context, product *domain.Product) error {
	return r.store.apply([]domain.ProductSnapshot{product.Snapshot()}, nil, nil)
}

func (r *productRepository) Update(_ context.Context, product *domain.Product) error {
	snap := product.Snapshot()
	return r.store.apply(nil, map[uuid.UUID]domain.ProductSnapshot{snap.ID: snap}, nil)
}

// priceHistoryRepository implements domain.PriceHistoryRepository
type priceHistoryRepository struct {
	store *Store
}

// NewPriceHistoryRepository creates a new price history repository
func NewPriceHistoryRepository(store *Store) domain.PriceHistoryRepository {
	return &priceHistoryRepository{store: store}
}

func (r *priceHistoryRepository) ListByProductID(_ context.Context, productID uuid.UUID) ([]*domain.PriceHistory, error) {
	entries := r.store.historyOf(productID)
	result := make([]*domain.PriceHistory, 0, len(entries))
	for i := range entries {
		result = append(result, &entries[i])
	}
	return result, nil
}

func (r *priceHistoryRepository) Add(_ context.Context, entry *domain.PriceHistory) error {
	if _, ok := r.store.productByID(entry.ProductID); !ok {
		return domain.NewNotFoundError()
	}
	return r.store.apply(nil, nil, []domain.PriceHistory{*entry})
}
