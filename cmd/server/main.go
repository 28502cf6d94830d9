package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/reflection"

	"github.com/simaogato/fintrack-backend/internal/adapter/alphavantage"
	"github.com/simaogato/fintrack-backend/internal/adapter/cache"
	grpcadapter "github.com/simaogato/fintrack-backend/internal/adapter/grpc"
	httpadapter "github.com/simaogato/fintrack-backend/internal/adapter/http"
	"github.com/simaogato/fintrack-backend/internal/adapter/messaging"
	"github.com/simaogato/fintrack-backend/internal/adapter/repository/memory"
	"github.com/simaogato/fintrack-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/fintrack-backend/internal/config"
	"github.com/simaogato/fintrack-backend/internal/domain"
	"github.com/simaogato/fintrack-backend/internal/logger"
	"github.com/simaogato/fintrack-backend/internal/metrics"
	"github.com/simaogato/fintrack-backend/internal/usecase/pricing"
	"github.com/simaogato/fintrack-backend/internal/usecase/product"
	"github.com/simaogato/fintrack-backend/internal/usecase/seeder"
	"github.com/simaogato/fintrack-backend/internal/validation"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

// storage bundles the repositories of the selected driver
type storage struct {
	products domain.ProductRepository
	history  domain.PriceHistoryRepository
	uow      domain.UnitOfWorkFactory
	health   httpadapter.HealthChecker
	close    func() error
}

func run(cfg config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// 1. Storage
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.close(); err != nil {
			log.WithError(err).Warn("failed to close storage")
		}
	}()

	// 2. Price feed and events
	quotes := openQuoteProvider(ctx, cfg, log)

	var events domain.EventPublisher = domain.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafka := messaging.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopicPrefix, log)
		defer func() {
			if err := kafka.Close(); err != nil {
				log.WithError(err).Warn("failed to close kafka writer")
			}
		}()
		events = kafka
		log.WithField("brokers", cfg.KafkaBrokers).Info("publishing events to kafka")
	}
	events = metrics.NewCountingPublisher(events)

	// 3. Use cases
	engine := validation.New()
	productService := product.NewProductService(store.products, store.uow, events, engine, log)
	pricingService := pricing.NewPricingService(store.products, store.history, store.uow, quotes, events, engine, log)

	if cfg.SeedCatalog {
		added, err := seeder.NewCatalogSeeder(store.products, productService, nil, log).Seed(ctx)
		if err != nil {
			return fmt.Errorf("failed to seed catalog: %w", err)
		}
		log.WithField("added", added).Info("catalog seeded")
	}

	// 4. Servers
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	httpServer := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpadapter.NewRouter(httpadapter.RouterConfig{
			Products:    productService,
			Pricing:     pricingService,
			Health:      store.health,
			Logger:      log,
			Development: cfg.IsDevelopment(),
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpcadapter.NewGRPCServer(grpcadapter.NewServer(productService, pricingService, log), log)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.GRPCAddr, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", cfg.HTTPAddr).Info("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		log.WithField("addr", cfg.GRPCAddr).Info("grpc server listening")
		if err := grpcServer.Serve(lis); err != nil {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		// Graceful shutdown on signal or when either server fails
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		grpcServer.GracefulStop()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openStorage(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (*storage, error) {
	if cfg.StorageDriver == config.DriverMemory {
		log.Warn("using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return &storage{
			products: memory.NewProductRepository(store),
			history:  memory.NewPriceHistoryRepository(store),
			uow:      memory.NewUnitOfWorkFactory(store),
			health:   store,
			close:    func() error { return nil },
		}, nil
	}

	db, err := connectWithRetry(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	if cfg.DBAutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		log.Info("database schema up to date")
	}

	return &storage{
		products: postgres.NewProductRepository(db),
		history:  postgres.NewPriceHistoryRepository(db),
		uow:      postgres.NewUnitOfWorkFactory(db),
		health:   db,
		close:    db.Close,
	}, nil
}

// connectWithRetry waits for Postgres to accept connections
func connectWithRetry(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (*postgres.DB, error) {
	pool := postgres.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	}

	attempts := max(cfg.DBConnectRetries, 1)
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := postgres.NewDB(cfg.PostgresDSN(), pool)
		if err == nil {
			return db, nil
		}
		lastErr = err
		log.WithError(err).WithField("attempt", attempt).Warn("database not ready")
		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cfg.DBConnectRetryWait):
		}
	}
	return nil, fmt.Errorf("failed to connect to database: %w", lastErr)
}

// openQuoteProvider returns nil when no API key is configured, which
// disables price refresh.
func openQuoteProvider(ctx context.Context, cfg config.Config, log logrus.FieldLogger) domain.QuoteProvider {
	if cfg.AlphaVantageAPIKey == "" {
		log.Info("ALPHAVANTAGE_API_KEY not set, price refresh disabled")
		return nil
	}

	var quotes domain.QuoteProvider = alphavantage.NewClient(alphavantage.Config{
		BaseURL:       cfg.AlphaVantageBaseURL,
		APIKey:        cfg.AlphaVantageAPIKey,
		Timeout:       cfg.AlphaVantageTimeout,
		RatePerMinute: cfg.AlphaVantageRateLimit,
	})

	if cfg.RedisAddr == "" {
		return quotes
	}
	rdb, err := cache.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.WithError(err).Warn("redis unavailable, quote cache disabled")
		return quotes
	}
	return cache.NewQuoteCache(quotes, rdb, cfg.QuoteCacheTTL, log)
}
