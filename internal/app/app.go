// Package app wires the checkout service together: configuration, storage,
// messaging, the payment gateway and the operational HTTP endpoints.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/FaysilAlshareef/TalabatProject/internal/config"
	"github.com/FaysilAlshareef/TalabatProject/internal/event"
	"github.com/FaysilAlshareef/TalabatProject/internal/gateway"
	gatewaymock "github.com/FaysilAlshareef/TalabatProject/internal/gateway/mock"
	"github.com/FaysilAlshareef/TalabatProject/internal/gateway/stripe"
	"github.com/FaysilAlshareef/TalabatProject/internal/repository/postgres"
	redisrepo "github.com/FaysilAlshareef/TalabatProject/internal/repository/redis"
	"github.com/FaysilAlshareef/TalabatProject/internal/service"
	"github.com/FaysilAlshareef/TalabatProject/pkg/database"
	"github.com/FaysilAlshareef/TalabatProject/pkg/health"
	"github.com/FaysilAlshareef/TalabatProject/pkg/httpclient"
	pkgkafka "github.com/FaysilAlshareef/TalabatProject/pkg/kafka"
	"github.com/FaysilAlshareef/TalabatProject/pkg/logger"
)

// consumerGroupID identifies the checkout service's position in the payment
// notification topic.
const consumerGroupID = "checkout-service"

// idempotencyTTL bounds how long processed notification ids are remembered.
const idempotencyTTL = 24 * time.Hour

// App wires together all dependencies and runs the checkout service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	rdb        *redis.Client
	producer   *pkgkafka.Producer
	consumer   *pkgkafka.Consumer
	httpServer *http.Server

	// Exposed for composition by callers that embed the service.
	Carts    *service.CartService
	Catalog  *service.CatalogService
	Orders   *service.OrderOrchestrator
	Payments *service.PaymentReconciler
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// PostgreSQL pool with connect retries.
	pgCfg := database.DefaultPostgresConfig()
	pgCfg.Host = cfg.PostgresHost
	pgCfg.Port = cfg.PostgresPort
	pgCfg.User = cfg.PostgresUser
	pgCfg.Password = cfg.PostgresPass
	pgCfg.DBName = cfg.PostgresDB
	pgCfg.SSLMode = cfg.PostgresSSL

	pool, err := database.NewPostgresPool(initCtx, &pgCfg, log)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	// Redis client for cart storage.
	rdb, err := database.NewRedisClient(initCtx, database.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	log.Info("connected to Redis",
		slog.String("host", cfg.RedisHost),
		slog.Int("db", cfg.RedisDB),
	)

	// Kafka producer for order lifecycle events.
	producer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), log)
	log.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Payment gateway. Without a secret key the in-memory gateway stands in,
	// which keeps local development free of provider credentials.
	var gw gateway.Gateway
	if cfg.UseMockGateway() {
		log.Warn("no payment gateway secret configured, using in-memory gateway")
		gw = gatewaymock.New()
	} else {
		httpClient := httpclient.NewCircuitBreakerClient(
			httpclient.New(httpclient.DefaultConfig()),
			httpclient.DefaultCircuitBreakerConfig("payment-gateway"),
			log,
		)
		gw = stripe.New(stripe.Config{
			BaseURL:   cfg.GatewayBaseURL,
			SecretKey: cfg.GatewaySecretKey,
		}, httpClient, log)
	}

	// Build the dependency graph.
	store := postgres.NewStore(pool)
	carts := redisrepo.NewCartStore(rdb, cfg.CartTTLDuration())
	publisher := event.NewProducer(producer, log)

	cartService := service.NewCartService(carts, store, log)
	catalogService := service.NewCatalogService(store, log)
	orchestrator := service.NewOrderOrchestrator(store, carts, publisher, log)
	reconciler := service.NewPaymentReconciler(store, carts, gw, publisher, cfg.Currency, log)

	// Payment notification consumer, deduplicated by event id.
	consumer := event.NewNotificationConsumer(pkgkafka.ConsumerConfig{
		Brokers: cfg.KafkaBrokers,
		GroupID: consumerGroupID,
		Topic:   event.TopicPaymentNotifications,
	}, reconciler, pkgkafka.NewMemoryIdempotencyStore(idempotencyTTL), log)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      newOpsRouter(healthHandler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		pool:       pool,
		rdb:        rdb,
		producer:   producer,
		consumer:   consumer,
		httpServer: httpServer,
		Carts:      cartService,
		Catalog:    catalogService,
		Orders:     orchestrator,
		Payments:   reconciler,
	}, nil
}

// newOpsRouter serves the operational endpoints: liveness, readiness and
// Prometheus metrics.
func newOpsRouter(healthHandler *health.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		promhttp.Handler().ServeHTTP(w, req)
	})

	return r
}

// Run starts the HTTP server and the payment notification consumer, and
// blocks until the context is canceled or a component fails.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	consumerCtx, stopConsumer := context.WithCancel(logger.NewContext(ctx, a.logger))
	defer stopConsumer()
	go func() {
		if err := a.consumer.Start(consumerCtx); err != nil && consumerCtx.Err() == nil {
			errCh <- fmt.Errorf("payment notification consumer: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.consumer.Close(); err != nil {
		a.logger.Error("kafka consumer close error", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return nil
}
