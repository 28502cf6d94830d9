package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SourceAlphaVantage identifies prices pulled from the AlphaVantage feed
const SourceAlphaVantage = "AlphaVantage"

// PriceHistory is one observed price of a product.
// It references the product by ID only and never changes after construction.
type PriceHistory struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Date      time.Time
	Price     decimal.Decimal
	Source    string
}

// NewPriceHistory validates and builds a history entry.
// The future-date check is against the wall clock at call time with no grace
// window: a date equal to "now" passes, one nanosecond later fails.
func NewPriceHistory(productID uuid.UUID, price decimal.Decimal, date time.Time, source string) (*PriceHistory, error) {
	if price.LessThanOrEqual(decimal.Zero) {
		return nil, invariant(CodeInvalidPrice, MsgInvalidPrice)
	}
	if strings.TrimSpace(source) == "" {
		return nil, invariant(CodeInvalidSource, MsgSourceRequired)
	}
	if date.After(now()) {
		return nil, invariant(CodeFutureDate, MsgFutureDate)
	}

	return &PriceHistory{
		ID:        uuid.New(),
		ProductID: productID,
		Date:      date,
		Price:     price,
		Source:    source,
	}, nil
}
