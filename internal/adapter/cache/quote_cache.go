// Package cache keeps recent quotes in Redis in front of the price feed.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/fintrack-backend/internal/domain"
	"github.com/simaogato/fintrack-backend/internal/metrics"
)

// NewRedis connects to Redis and checks the connection
func NewRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

type cachedQuote struct {
	Ticker string          `json:"ticker"`
	Price  decimal.Decimal `json:"price"`
	AsOf   time.Time       `json:"asOf"`
}

// QuoteCache decorates a QuoteProvider with a Redis read-through cache.
// Redis errors are logged and the call falls through to the provider.
type QuoteCache struct {
	next   domain.QuoteProvider
	rdb    redis.Cmdable
	ttl    time.Duration
	logger logrus.FieldLogger
}

// NewQuoteCache creates a new QuoteCache
func NewQuoteCache(next domain.QuoteProvider, rdb redis.Cmdable, ttl time.Duration, logger logrus.FieldLogger) *QuoteCache {
	return &QuoteCache{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

// Key returns the cache key of ticker
func Key(ticker string) string {
	return "quote:" + ticker
}

// GetQuote implements domain.QuoteProvider
func (c *QuoteCache) GetQuote(ctx context.Context, ticker string) (*domain.Quote, error) {
	key := Key(ticker)
	log := c.logger.WithField("key", key)

	raw, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		var cached cachedQuote
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			metrics.QuoteCacheLookups.WithLabelValues("hit").Inc()
			return &domain.Quote{Ticker: ticker, Price: cached.Price, AsOf: cached.AsOf}, nil
		}
		log.Warn("discarding unreadable cached quote")
	case errors.Is(err, redis.Nil):
	default:
		log.WithError(err).Warn("quote cache read failed")
	}
	metrics.QuoteCacheLookups.WithLabelValues("miss").Inc()

	quote, err := c.next.GetQuote(ctx, ticker)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(cachedQuote{Ticker: quote.Ticker, Price: quote.Price, AsOf: quote.AsOf})
	if err != nil {
		log.WithError(err).Warn("failed to encode quote for cache")
		return quote, nil
	}
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		log.WithError(err).Warn("quote cache write failed")
	}

	return quote, nil
}
