package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// HealthChecker reports whether the storage backend is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// RouterConfig carries the router dependencies
type RouterConfig struct {
	Products    ProductService
	Pricing     PricingService
	Health      HealthChecker
	Logger      logrus.FieldLogger
	Development bool
}

// NewRouter builds the gin engine with every route and middleware
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(Recovery(cfg.Logger, cfg.Development), RequestLogger(cfg.Logger), Metrics())

	NewProductHandler(cfg.Products, cfg.Pricing, cfg.Logger, cfg.Development).RegisterRoutes(router)

	router.GET("/health", healthHandler(cfg.Health, cfg.Logger))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

func healthHandler(checker HealthChecker, logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if checker != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := checker.HealthCheck(ctx); err != nil {
				logger.WithError(err).Warn("health check failed")
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
