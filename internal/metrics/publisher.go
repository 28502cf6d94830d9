package metrics

import (
	"context"

	"github.com/simaogato/fintrack-backend/internal/domain"
)

// CountingPublisher counts committed registrations and price updates, then
// forwards the event.
type CountingPublisher struct {
	Next domain.EventPublisher
}

// NewCountingPublisher wraps next; a nil next drops events after counting
func NewCountingPublisher(next domain.EventPublisher) *CountingPublisher {
	if next == nil {
		next = domain.NoopPublisher{}
	}
	return &CountingPublisher{Next: next}
}

func (p *CountingPublisher) PublishProductRegistered(ctx context.Context, event domain.ProductRegisteredEvent) error {
	ProductsRegistered.Inc()
	return p.Next.PublishProductRegistered(ctx, event)
}

func (p *CountingPublisher) PublishProductPriceUpdated(ctx context.Context, event domain.ProductPriceUpdatedEvent) error {
	PriceUpdates.WithLabelValues(event.Source).Inc()
	return p.Next.PublishProductPriceUpdated(ctx, event)
}
