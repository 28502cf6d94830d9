package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/fintrack-backend/internal/domain"
	"github.com/simaogato/fintrack-backend/internal/validation"
)

var (
	errFeedNotConfigured = errors.New("no quote provider configured")
	errQuoteNotPositive  = errors.New("quote price is not positive")
)

// PricingService records product prices and serves their history
type PricingService struct {
	Products     domain.ProductRepository
	PriceHistory domain.PriceHistoryRepository
	UnitOfWork   domain.UnitOfWorkFactory
	Quotes       domain.QuoteProvider
	Events       domain.EventPublisher
	Logger       logrus.FieldLogger
	Now          func() time.Time

	record validation.Handler[RecordPriceCommand, *PriceEntry]
}

// NewPricingService creates a new PricingService instance.
// quotes may be nil, in which case RefreshPrice always reports the feed as
// unavailable.
func NewPricingService(
	products domain.ProductRepository,
	priceHistory domain.PriceHistoryRepository,
	uow domain.UnitOfWorkFactory,
	quotes domain.QuoteProvider,
	events domain.EventPublisher,
	engine *validator.Validate,
	logger logrus.FieldLogger,
) *PricingService {
	if events == nil {
		events = domain.NoopPublisher{}
	}
	s := &PricingService{
		Products:     products,
		PriceHistory: priceHistory,
		UnitOfWork:   uow,
		Quotes:       quotes,
		Events:       events,
		Logger:       logger,
		Now:          func() time.Time { return time.Now().UTC() },
	}
	s.record = validation.WithValidation[RecordPriceCommand, *PriceEntry](
		s.handleRecord,
		NewRecordPriceValidator(engine),
	)
	return s
}

// RecordPrice validates cmd, appends a history entry and moves the product's
// current price. Both writes commit together.
func (s *PricingService) RecordPrice(ctx context.Context, cmd RecordPriceCommand) (*PriceEntry, error) {
	entry, err := s.record(ctx, cmd)
	if err != nil && domain.KindOf(err) == domain.KindValidation {
		s.Logger.WithField("product_id", cmd.ProductID).WithError(err).Debug("record price rejected by validation")
	}
	return entry, err
}

func (s *PricingService) handleRecord(ctx context.Context, cmd RecordPriceCommand) (*PriceEntry, error) {
	date := s.Now()
	if cmd.Date != nil {
		date = cmd.Date.UTC()
	}
	return s.apply(ctx, cmd.ProductID, cmd.Price, date, cmd.Source)
}

// RefreshPrice pulls the latest quote for the product's ticker from the price
// feed and records it with source AlphaVantage. A quote stamped after the
// current time is recorded at the current time.
func (s *PricingService) RefreshPrice(ctx context.Context, productID uuid.UUID) (*PriceEntry, error) {
	product, err := s.getProduct(ctx, s.Products, productID)
	if err != nil {
		return nil, err
	}

	log := s.Logger.WithFields(logrus.Fields{"product_id": productID, "ticker": product.Ticker()})

	if s.Quotes == nil {
		log.Warn("price refresh requested without a quote provider")
		return nil, domain.NewQuoteUnavailableError(errFeedNotConfigured)
	}

	quote, err := s.Quotes.GetQuote(ctx, product.Ticker())
	if err != nil {
		log.WithError(err).Warn("failed to fetch quote")
		return nil, domain.NewQuoteUnavailableError(err)
	}

	// Feeds report up to four decimals; stored prices keep two
	price := quote.Price.Round(2)
	if !price.GreaterThan(decimal.Zero) {
		log.WithField("price", quote.Price.String()).Warn("quote price rounds to zero")
		return nil, domain.NewQuoteUnavailableError(errQuoteNotPositive)
	}

	date := quote.AsOf
	if now := s.Now(); date.IsZero() || date.After(now) {
		date = now
	}

	return s.apply(ctx, productID, price, date, domain.SourceAlphaVantage)
}

// ListPriceHistory returns the product's price history, newest first
func (s *PricingService) ListPriceHistory(ctx context.Context, productID uuid.UUID) ([]PriceEntry, error) {
	if _, err := s.getProduct(ctx, s.Products, productID); err != nil {
		return nil, err
	}

	history, err := s.PriceHistory.ListByProductID(ctx, productID)
	if err != nil {
		return nil, domain.NewInfrastructureError("failed to list price history", err)
	}

	result := make([]PriceEntry, 0, len(history))
	for _, h := range history {
		result = append(result, newPriceEntry(h))
	}
	return result, nil
}

func (s *PricingService) apply(ctx context.Context, productID uuid.UUID, price decimal.Decimal, date time.Time, source string) (*PriceEntry, error) {
	log := s.Logger.WithFields(logrus.Fields{"product_id": productID, "source": source})

	uow, err := s.UnitOfWork.Begin(ctx)
	if err != nil {
		return nil, domain.NewInfrastructureError("failed to begin unit of work", err)
	}
	defer uow.Rollback()

	// 1. Load the product inside the unit of work
	product, err := s.getProduct(ctx, uow.Products(), productID)
	if err != nil {
		return nil, err
	}

	// 2. Build the entry and move the price
	entry, err := domain.NewPriceHistory(product.ID(), price, date, source)
	if err != nil {
		return nil, err
	}
	if err := product.UpdatePrice(price); err != nil {
		return nil, err
	}

	// 3. Persist both writes
	if err := uow.PriceHistory().Add(ctx, entry); err != nil {
		return nil, domain.NewInfrastructureError("failed to add price history", err)
	}
	if err := uow.Products().Update(ctx, product); err != nil {
		return nil, domain.NewInfrastructureError("failed to update product price", err)
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, domain.NewInfrastructureError("failed to commit price", err)
	}

	log.WithField("price", price.String()).Info("price recorded")

	// 4. Notify
	event := domain.ProductPriceUpdatedEvent{
		ProductID:  product.ID(),
		Ticker:     product.Ticker(),
		Price:      entry.Price,
		Source:     entry.Source,
		Date:       entry.Date,
		OccurredOn: s.Now(),
	}
	if err := s.Events.PublishProductPriceUpdated(ctx, event); err != nil {
		log.WithError(err).Warn("failed to publish price updated event")
	}

	result := newPriceEntry(entry)
	return &result, nil
}

func (s *PricingService) getProduct(ctx context.Context, repo domain.ProductRepository, id uuid.UUID) (*domain.Product, error) {
	product, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, domain.NewNotFoundError()
		}
		return nil, domain.NewInfrastructureError("failed to get product", err)
	}
	return product, nil
}
