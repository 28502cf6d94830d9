package seeder

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/simaogato/fintrack-backend/internal/domain"
	"github.com/simaogato/fintrack-backend/internal/usecase/product"
)

// Registrar registers products through the validated use case
type Registrar interface {
	RegisterProduct(ctx context.Context, cmd product.RegisterProductCommand) (*product.RegisterProductResponse, error)
}

// DefaultCatalog is the reference catalog loaded on a fresh database
var DefaultCatalog = []product.RegisterProductCommand{
	{Name: "Petrobras PN", Ticker: "PETR4", Type: domain.ProductTypeStock, Category: domain.CategoryVariableIncome, CurrencyCode: "BRL"},
	{Name: "Vale ON", Ticker: "VALE3", Type: domain.ProductTypeStock, Category: domain.CategoryVariableIncome, CurrencyCode: "BRL"},
	{Name: "Itaú Unibanco PN", Ticker: "ITUB4", Type: domain.ProductTypeStock, Category: domain.CategoryVariableIncome, CurrencyCode: "BRL"},
	{Name: "iShares Ibovespa", Ticker: "BOVA11", Type: domain.ProductTypeETF, Category: domain.CategoryVariableIncome, CurrencyCode: "BRL"},
	{Name: "Bitcoin", Ticker: "BTC", Type: domain.ProductTypeCrypto, Category: domain.CategoryCurrency, CurrencyCode: "USD"},
}

// CatalogSeeder handles seeding of the reference product catalog
type CatalogSeeder struct {
	products  domain.ProductRepository
	registrar Registrar
	catalog   []product.RegisterProductCommand
	logger    logrus.FieldLogger
}

// NewCatalogSeeder creates a new CatalogSeeder instance. A nil catalog means
// DefaultCatalog.
func NewCatalogSeeder(products domain.ProductRepository, registrar Registrar, catalog []product.RegisterProductCommand, logger logrus.FieldLogger) *CatalogSeeder {
	if catalog == nil {
		catalog = DefaultCatalog
	}
	return &CatalogSeeder{
		products:  products,
		registrar: registrar,
		catalog:   catalog,
		logger:    logger,
	}
}

// Seed ensures every catalog product exists.
// If a ticker is already registered it is left untouched.
func (s *CatalogSeeder) Seed(ctx context.Context) (int, error) {
	created := 0
	for _, cmd := range s.catalog {
		_, err := s.products.GetByTicker(ctx, cmd.Ticker)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrProductNotFound) {
			return created, fmt.Errorf("failed to look up ticker %s: %w", cmd.Ticker, err)
		}

		if _, err := s.registrar.RegisterProduct(ctx, cmd); err != nil {
			// another instance seeded it first
			if errors.Is(err, domain.ErrDuplicateTicker) {
				continue
			}
			return created, fmt.Errorf("failed to seed %s: %w", cmd.Ticker, err)
		}
		created++
	}

	s.logger.WithField("created", created).Info("catalog seeded")
	return created, nil
}
