package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/mahmoud22020/Pvdmenus/internal/auth"
	"github.com/mahmoud22020/Pvdmenus/internal/bulk"
	"github.com/mahmoud22020/Pvdmenus/internal/config"
	"github.com/mahmoud22020/Pvdmenus/internal/event"
	handler "github.com/mahmoud22020/Pvdmenus/internal/handler/http"
	"github.com/mahmoud22020/Pvdmenus/internal/repository/postgres"
	"github.com/mahmoud22020/Pvdmenus/internal/service"
	"github.com/mahmoud22020/Pvdmenus/pkg/database"
	"github.com/mahmoud22020/Pvdmenus/pkg/health"
	pkgkafka "github.com/mahmoud22020/Pvdmenus/pkg/kafka"
	"github.com/mahmoud22020/Pvdmenus/pkg/tracing"
)

// ServiceName labels logs, traces and metrics of the server.
const ServiceName = "menu-admin"

// App wires together all dependencies and runs the menu admin service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	rdb            *redis.Client
	producer       *pkgkafka.Producer
	consumers      []*pkgkafka.Consumer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tracerShutdown, err := tracing.InitTracer(ctx, cfg.Tracing(ServiceName))
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	pool, err := openPostgres(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool, ServiceName); err != nil {
		logger.Warn("pool metrics not registered", slog.String("error", err.Error()))
	}

	rdb := openRedis(ctx, cfg, logger)

	// Kafka is optional; without it events are dropped.
	var (
		producer  *pkgkafka.Producer
		publisher pkgkafka.Publisher = pkgkafka.NopPublisher{}
	)
	if cfg.KafkaEnabled {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = producer
		if err := pingKafkaWithRetry(ctx, producer, logger); err != nil {
			logger.Warn("kafka producer ping failed after retries, continuing in degraded mode",
				slog.String("error", err.Error()),
			)
		} else {
			logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
		}
	}

	// Build the dependency graph.
	categoryRepo := postgres.NewCategoryRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	dayPricingRepo := postgres.NewDayPricingRepository(pool)
	translationRepo := postgres.NewTranslationRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessExpiry)
	eventProducer := event.NewProducer(publisher, logger)
	translator := NewTranslator(cfg, rdb, logger)

	authService := service.NewAuthService(userRepo, jwtManager, logger)
	menuService := service.NewMenuService(categoryRepo, itemRepo, eventProducer, logger)
	dayPricingService := service.NewDayPricingService(itemRepo, dayPricingRepo, logger)
	translationService := newTranslationService(pool, translator, cfg, logger)
	bulkService := service.NewBulkService(menuService, dayPricingService, translationRepo, translator, eventProducer,
		bulk.Config{
			Languages:     cfg.TranslateLanguages,
			AutoTranslate: cfg.BulkAutoTranslate,
			MaxRows:       cfg.BulkMaxRows,
		}, logger)

	if err := authService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword, cfg.AdminFullName); err != nil {
		pool.Close()
		return nil, fmt.Errorf("seed admin: %w", err)
	}

	consumers := translationWorker(cfg, rdb, translationService, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if rdb != nil {
		healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}
	if producer != nil {
		healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
			return producer.Ping(ctx)
		})
	}

	router := handler.NewRouter(handler.Services{
		Auth:         authService,
		Menu:         menuService,
		DayPricing:   dayPricingService,
		Translations: translationService,
		Bulk:         bulkService,
	}, jwtManager, cfg, healthHandler, logger)

	// Bulk batches with machine translation run long; the write timeout
	// follows suit.
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		rdb:            rdb,
		producer:       producer,
		consumers:      consumers,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// translationWorker builds one consumer per created-entity topic. It returns
// nil unless the worker is enabled and Kafka is on.
func translationWorker(cfg *config.Config, rdb *redis.Client, filler event.TranslationFiller, logger *slog.Logger) []*pkgkafka.Consumer {
	if !cfg.TranslateWorkerEnabled {
		return nil
	}
	if !cfg.KafkaEnabled {
		logger.Warn("translation worker needs KAFKA_ENABLED, not starting")
		return nil
	}

	var store pkgkafka.IdempotencyStore = pkgkafka.NewMemoryIdempotencyStore(cfg.IdempotencyTTL)
	if rdb != nil {
		store = pkgkafka.NewRedisIdempotencyStore(rdb, cfg.KafkaGroupID, cfg.IdempotencyTTL)
	}

	worker := event.NewConsumer(filler, logger)
	var consumers []*pkgkafka.Consumer
	for topic, h := range worker.Handlers() {
		consumers = append(consumers, pkgkafka.NewConsumer(pkgkafka.ConsumerConfig{
			Brokers:   cfg.KafkaBrokers,
			GroupID:   cfg.KafkaGroupID,
			Topic:     topic,
			MinBytes:  1,
			MaxBytes:  10e6,
			EnableDLQ: true,
		}, pkgkafka.IdempotentHandler(store, h, logger), logger))
	}
	logger.Info("translation worker configured", slog.Int("topics", len(consumers)))
	return consumers
}

// Run starts the HTTP server and the translation worker, then blocks until the
// context is canceled or one of them fails.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	for _, c := range a.consumers {
		g.Go(func() error {
			if err := c.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("translation consumer: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			a.logger.Info("shutdown signal received")
		}
		return a.Shutdown()
	})

	return g.Wait()
}

// Shutdown gracefully stops all components in order: HTTP server, tracer,
// consumers, producer, Redis, PostgreSQL.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	for _, c := range a.consumers {
		if err := c.Close(); err != nil {
			a.logger.Error("consumer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
