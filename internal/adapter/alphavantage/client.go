// Package alphavantage fetches latest quotes from the AlphaVantage
// GLOBAL_QUOTE endpoint.
package alphavantage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/simaogato/fintrack-backend/internal/domain"
)

var (
	// ErrSymbolNotFound means the feed answered but knows nothing about the ticker
	ErrSymbolNotFound = errors.New("alphavantage: symbol not found")
	// ErrRateLimited means the feed refused the call because of the API quota
	ErrRateLimited = errors.New("alphavantage: rate limited")
)

// Config configures the client
type Config struct {
	BaseURL       string
	APIKey        string
	Timeout       time.Duration
	RatePerMinute int
}

type globalQuoteResponse struct {
	GlobalQuote struct {
		Symbol           string `json:"01. symbol"`
		Price            string `json:"05. price"`
		LatestTradingDay string `json:"07. latest trading day"`
	} `json:"Global Quote"`
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

// Client implements domain.QuoteProvider
type Client struct {
	http    *resty.Client
	apiKey  string
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewClient creates a new AlphaVantage client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	var limiter *rate.Limiter
	if cfg.RatePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RatePerMinute)), 1)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "alphavantage",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// an unknown symbol is a valid answer, not a feed failure
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrSymbolNotFound)
		},
	})

	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
		apiKey:  cfg.APIKey,
		limiter: limiter,
		breaker: breaker,
	}
}

// GetQuote returns the latest price of ticker. The quote time is the latest
// trading day reported by the feed, at midnight UTC.
func (c *Client) GetQuote(ctx context.Context, ticker string) (*domain.Quote, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("alphavantage: waiting for rate limiter: %w", err)
		}
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, ticker)
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.Quote), nil
}

func (c *Client) fetch(ctx context.Context, ticker string) (*domain.Quote, error) {
	var body globalQuoteResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function": "GLOBAL_QUOTE",
			"symbol":   ticker,
			"apikey":   c.apiKey,
		}).
		SetResult(&body).
		Get("/query")
	if err != nil {
		return nil, fmt.Errorf("alphavantage: request failed: %w", err)
	}
	if resp.StatusCode() == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.IsError() {
		return nil, fmt.Errorf("alphavantage: unexpected status %d", resp.StatusCode())
	}

	switch {
	case body.Note != "", body.Information != "":
		return nil, ErrRateLimited
	case body.ErrorMessage != "":
		return nil, fmt.Errorf("alphavantage: %s", body.ErrorMessage)
	case body.GlobalQuote.Price == "":
		return nil, fmt.Errorf("%w: %s", ErrSymbolNotFound, ticker)
	}

	price, err := decimal.NewFromString(strings.TrimSpace(body.GlobalQuote.Price))
	if err != nil {
		return nil, fmt.Errorf("alphavantage: failed to parse price %q: %w", body.GlobalQuote.Price, err)
	}

	var asOf time.Time
	if day := strings.TrimSpace(body.GlobalQuote.LatestTradingDay); day != "" {
		asOf, err = time.Parse("2006-01-02", day)
		if err != nil {
			return nil, fmt.Errorf("alphavantage: failed to parse trading day %q: %w", day, err)
		}
	}

	return &domain.Quote{
		Ticker: ticker,
		Price:  price,
		AsOf:   asOf,
	}, nil
}
