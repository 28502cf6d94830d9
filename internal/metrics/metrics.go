package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fintrack_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fintrack_http_request_duration_seconds",
		Help:    "Latency of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	GRPCRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fintrack_grpc_requests_total",
		Help: "Total number of gRPC requests",
	}, []string{"method", "code"})

	ProductsRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fintrack_products_registered_total",
		Help: "Total number of products registered",
	})

	PriceUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fintrack_price_updates_total",
		Help: "Total number of price updates recorded",
	}, []string{"source"})

	QuoteCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fintrack_quote_cache_lookups_total",
		Help: "Quote cache lookups by result",
	}, []string{"result"})

	ErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fintrack_errors_total",
		Help: "Total number of errors returned to clients",
	}, []string{"kind"})
)
