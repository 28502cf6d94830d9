package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Quote is the latest traded price reported by a price feed
type Quote struct {
	Ticker string
	Price  decimal.Decimal
	AsOf   time.Time
}

// QuoteProvider fetches the latest quote for a ticker
type QuoteProvider interface {
	GetQuote(ctx context.Context, ticker string) (*Quote, error)
}
