package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type names, also used as topic suffixes
const (
	ProductRegisteredEventType   = "product.registered"
	ProductPriceUpdatedEventType = "product.price_updated"
)

// ProductRegisteredEvent is emitted once a new product is committed
type ProductRegisteredEvent struct {
	ProductID    uuid.UUID
	Name         string
	Ticker       string
	CurrencyCode string
	OccurredOn   time.Time
}

// ProductPriceUpdatedEvent is emitted once a new price is committed
type ProductPriceUpdatedEvent struct {
	ProductID  uuid.UUID
	Ticker     string
	Price      decimal.Decimal
	Source     string
	Date       time.Time
	OccurredOn time.Time
}

// EventPublisher publishes domain events after commit
type EventPublisher interface {
	PublishProductRegistered(ctx context.Context, event ProductRegisteredEvent) error
	PublishProductPriceUpdated(ctx context.Context, event ProductPriceUpdatedEvent) error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishProductRegistered(context.Context, ProductRegisteredEvent) error {
	return nil
}

func (NoopPublisher) PublishProductPriceUpdated(context.Context, ProductPriceUpdatedEvent) error {
	return nil
}
