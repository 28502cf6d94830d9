package seeder

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/fintrack-backend/internal/domain"
	"github.com/simaogato/fintrack-backend/internal/usecase/product"
)

// MockProductRepository is a mock implementation of ProductRepository
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

func (m *MockProductRepository) Add(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}

// MockRegistrar is a mock implementation of Registrar
type MockRegistrar struct {
	mock.Mock
}

func (m *MockRegistrar) RegisterProduct(ctx context.Context, cmd product.RegisterProductCommand) (*product.RegisterProductResponse, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.RegisterProductResponse), args.Error(1)
}

var testCatalog = []product.RegisterProductCommand{
	{Name: "Petrobras PN", Ticker: "PETR4", Type: domain.ProductTypeStock, Category: domain.CategoryVariableIncome, CurrencyCode: "BRL"},
	{Name: "Bitcoin", Ticker: "BTC", Type: domain.ProductTypeCrypto, Category: domain.CategoryCurrency, CurrencyCode: "USD"},
}

func newSeeder(repo *MockProductRepository, registrar *MockRegistrar) *CatalogSeeder {
	logger, _ := logtest.NewNullLogger()
	return NewCatalogSeeder(repo, registrar, testCatalog, logger)
}

func TestCatalogSeeder_Seed_ProductsMissing(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	registrar := new(MockRegistrar)
	seeder := newSeeder(repo, registrar)

	for _, cmd := range testCatalog {
		repo.On("GetByTicker", ctx, cmd.Ticker).Return(nil, domain.ErrProductNotFound)
		registrar.On("RegisterProduct", ctx, cmd).
			Return(&product.RegisterProductResponse{ID: uuid.New(), Name: cmd.Name, Ticker: cmd.Ticker}, nil)
	}

	created, err := seeder.Seed(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, created)
	repo.AssertExpectations(t)
	registrar.AssertExpectations(t)
}

func TestCatalogSeeder_Seed_ProductsExist(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	registrar := new(MockRegistrar)
	seeder := newSeeder(repo, registrar)

	existing, err := domain.NewProduct("Petrobras PN", "PETR4", domain.ProductTypeStock, domain.CategoryVariableIncome, domain.MustCurrency("BRL"))
	require.NoError(t, err)
	repo.On("GetByTicker", ctx, mock.Anything).Return(existing, nil)

	created, err := seeder.Seed(ctx)

	require.NoError(t, err)
	assert.Equal(t, 0, created)
	registrar.AssertNotCalled(t, "RegisterProduct", mock.Anything, mock.Anything)
}

func TestCatalogSeeder_Seed_ConcurrentDuplicateIsSkipped(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	registrar := new(MockRegistrar)
	seeder := newSeeder(repo, registrar)

	repo.On("GetByTicker", ctx, mock.Anything).Return(nil, domain.ErrProductNotFound)
	registrar.On("RegisterProduct", ctx, testCatalog[0]).Return(nil, domain.NewDuplicateTickerError("PETR4"))
	registrar.On("RegisterProduct", ctx, testCatalog[1]).Return(&product.RegisterProductResponse{Ticker: "BTC"}, nil)

	created, err := seeder.Seed(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, created)
}

func TestCatalogSeeder_Seed_LookupError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	registrar := new(MockRegistrar)
	seeder := newSeeder(repo, registrar)

	repo.On("GetByTicker", ctx, "PETR4").Return(nil, errors.New("connection reset"))

	_, err := seeder.Seed(ctx)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "PETR4")
	registrar.AssertNotCalled(t, "RegisterProduct", mock.Anything, mock.Anything)
}

func TestDefaultCatalogIsValid(t *testing.T) {
	seen := map[string]bool{}
	for _, cmd := range DefaultCatalog {
		assert.False(t, seen[cmd.Ticker], "duplicate ticker %s", cmd.Ticker)
		seen[cmd.Ticker] = true

		currency, err := domain.NewCurrency(cmd.CurrencyCode)
		require.NoError(t, err)
		_, err = domain.NewProduct(cmd.Name, cmd.Ticker, cmd.Type, cmd.Category, currency)
		assert.NoError(t, err, cmd.Ticker)
	}
}
