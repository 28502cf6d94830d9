package product

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/fintrack-backend/internal/domain"
	"github.com/simaogato/fintrack-backend/internal/validation"
)

// ProductService handles product registration and lookups
type ProductService struct {
	Products   domain.ProductRepository
	UnitOfWork domain.UnitOfWorkFactory
	Events     domain.EventPublisher
	Logger     logrus.FieldLogger

	register validation.Handler[RegisterProductCommand, *RegisterProductResponse]
}

// NewProductService creates a new ProductService instance.
// Registration runs behind the RegisterProductCommand validator.
func NewProductService(
	products domain.ProductRepository,
	uow domain.UnitOfWorkFactory,
	events domain.EventPublisher,
	engine *validator.Validate,
	logger logrus.FieldLogger,
) *ProductService {
	if events == nil {
		events = domain.NoopPublisher{}
	}
	s := &ProductService{
		Products:   products,
		UnitOfWork: uow,
		Events:     events,
		Logger:     logger,
	}
	s.register = validation.WithValidation[RegisterProductCommand, *RegisterProductResponse](
		s.handleRegister,
		NewRegisterProductValidator(engine),
	)
	return s
}

// RegisterProduct validates cmd and stores a new product.
// A ticker that is already registered fails with a duplicate ticker error
// and nothing is written.
func (s *ProductService) RegisterProduct(ctx context.Context, cmd RegisterProductCommand) (*RegisterProductResponse, error) {
	resp, err := s.register(ctx, cmd)
	if err != nil && domain.KindOf(err) == domain.KindValidation {
		s.Logger.WithField("ticker", cmd.Ticker).WithError(err).Debug("register product rejected by validation")
	}
	return resp, err
}

func (s *ProductService) handleRegister(ctx context.Context, cmd RegisterProductCommand) (*RegisterProductResponse, error) {
	log := s.Logger.WithFields(logrus.Fields{"name": cmd.Name, "ticker": cmd.Ticker})
	log.Info("registering product")

	uow, err := s.UnitOfWork.Begin(ctx)
	if err != nil {
		return nil, domain.NewInfrastructureError("failed to begin unit of work", err)
	}
	defer uow.Rollback()

	// 1. Ticker must be unused
	_, err = uow.Products().GetByTicker(ctx, cmd.Ticker)
	switch {
	case err == nil:
		log.Warn("ticker already registered")
		return nil, domain.NewDuplicateTickerError(cmd.Ticker)
	case !errors.Is(err, domain.ErrProductNotFound):
		return nil, domain.NewInfrastructureError("failed to check ticker", err)
	}

	// 2. Build the aggregate
	currency, err := domain.NewCurrency(cmd.CurrencyCode)
	if err != nil {
		return nil, err
	}
	product, err := domain.NewProduct(cmd.Name, cmd.Ticker, cmd.Type, cmd.Category, currency)
	if err != nil {
		return nil, err
	}

	// 3. Persist; the storage unique constraint catches concurrent registrations
	if err := uow.Products().Add(ctx, product); err != nil {
		if errors.Is(err, domain.ErrDuplicateTicker) {
			log.Warn("ticker registered concurrently")
			return nil, domain.NewDuplicateTickerError(cmd.Ticker)
		}
		return nil, domain.NewInfrastructureError("failed to add product", err)
	}
	if err := uow.Commit(ctx); err != nil {
		if errors.Is(err, domain.ErrDuplicateTicker) {
			return nil, domain.NewDuplicateTickerError(cmd.Ticker)
		}
		return nil, domain.NewInfrastructureError("failed to commit product", err)
	}

	log = log.WithField("product_id", product.ID())
	log.Info("product registered")

	// 4. Notify; the product is already committed so failures are only logged
	event := domain.ProductRegisteredEvent{
		ProductID:    product.ID(),
		Name:         product.Name(),
		Ticker:       product.Ticker(),
		CurrencyCode: product.Currency().Code(),
		OccurredOn:   product.CreatedAt(),
	}
	if err := s.Events.PublishProductRegistered(ctx, event); err != nil {
		log.WithError(err).Warn("failed to publish product registered event")
	}

	return &RegisterProductResponse{
		ID:     product.ID(),
		Name:   product.Name(),
		Ticker: product.Ticker(),
	}, nil
}

// GetProductByID returns the product projection or a not found error
func (s *ProductService) GetProductByID(ctx context.Context, query GetProductByIDQuery) (*ProductDetails, error) {
	product, err := s.Products.GetByID(ctx, query.ID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, domain.NewNotFoundError()
		}
		return nil, domain.NewInfrastructureError("failed to get product", err)
	}

	details := NewProductDetails(product)
	return &details, nil
}

// ListProducts returns every product, oldest first
func (s *ProductService) ListProducts(ctx context.Context) ([]ProductDetails, error) {
	products, err := s.Products.List(ctx)
	if err != nil {
		return nil, domain.NewInfrastructureError("failed to list products", err)
	}

	result := make([]ProductDetails, 0, len(products))
	for _, p := range products {
		result = append(result, NewProductDetails(p))
	}
	return result, nil
}
