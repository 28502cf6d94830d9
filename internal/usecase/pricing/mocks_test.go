package pricing

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/simaogato/fintrack-backend/internal/domain"
)

// MockProductRepository is a mock implementation of ProductRepository for testing
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) GetByTicker(ctx context.Context, ticker string) (*domain.Product, error) {
	args := m.Called(ctx, ticker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *MockProductRepository) Add(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

// MockPriceHistoryRepository is a mock implementation of PriceHistoryRepository for testing
type MockPriceHistoryRepository struct {
	mock.Mock
}

func (m *MockPriceHistoryRepository) ListByProductID(ctx context.Context, productID uuid.UUID) ([]*domain.PriceHistory, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PriceHistory), args.Error(1)
}

func (m *MockPriceHistoryRepository) Add(ctx context.Context, entry *domain.PriceHistory) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockUnitOfWork is a mock implementation of UnitOfWork for testing
type MockUnitOfWork struct {
	mock.Mock
	products *MockProductRepository
	history  *MockPriceHistoryRepository
}

func (m *MockUnitOfWork) Products() domain.ProductRepository { return m.products }

func (m *MockUnitOfWork) PriceHistory() domain.PriceHistoryRepository { return m.history }

func (m *MockUnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory for testing
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Begin(ctx context.Context) (domain.UnitOfWork, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.UnitOfWork), args.Error(1)
}

// MockQuoteProvider is a mock implementation of QuoteProvider for testing
type MockQuoteProvider struct {
	mock.Mock
}

func (m *MockQuoteProvider) GetQuote(ctx context.Context, ticker string) (*domain.Quote, error) {
	args := m.Called(ctx, ticker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishProductRegistered(ctx context.Context, event domain.ProductRegisteredEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishProductPriceUpdated(ctx context.Context, event domain.ProductPriceUpdatedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
