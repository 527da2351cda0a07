package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/mahmoud22020/Pvdmenus/internal/config"
	"github.com/mahmoud22020/Pvdmenus/internal/repository/postgres"
	"github.com/mahmoud22020/Pvdmenus/internal/service"
	"github.com/mahmoud22020/Pvdmenus/internal/translate"
	"github.com/mahmoud22020/Pvdmenus/migrations"
	"github.com/mahmoud22020/Pvdmenus/pkg/database"
	"github.com/mahmoud22020/Pvdmenus/pkg/httpclient"
	pkgkafka "github.com/mahmoud22020/Pvdmenus/pkg/kafka"
)

// openPostgres connects, applies pending migrations and configures slow query
// logging.
func openPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	pool, err := database.NewPostgresPool(ctx, cfg.Postgres(), logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	if cfg.SlowQueryThresholdMs > 0 {
		database.SetSlowQueryLogging(time.Duration(cfg.SlowQueryThresholdMs)*time.Millisecond, logger)
	}
	return pool, nil
}

// openRedis connects to Redis. A failure is logged and yields nil so callers
// run without the translation cache.
func openRedis(ctx context.Context, cfg *config.Config, logger *slog.Logger) *redis.Client {
	rdb, err := database.NewRedisClient(ctx, cfg.Redis())
	if err != nil {
		logger.Warn("redis unavailable, translation cache disabled", slog.String("error", err.Error()))
		return nil
	}
	logger.Info("connected to Redis", slog.String("addr", cfg.Redis().Addr()))
	return rdb
}

// NewTranslator builds MyMemory behind a circuit breaker, cached in rdb when
// it is non-nil.
func NewTranslator(cfg *config.Config, rdb *redis.Client, logger *slog.Logger) service.Translator {
	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = cfg.TranslateTimeout
	breaker := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpCfg),
		httpclient.DefaultCircuitBreakerConfig("mymemory"),
		logger,
	)
	mm := translate.NewMyMemory(breaker, cfg.TranslateAPIURL, cfg.TranslateSourceLang)
	if rdb == nil {
		return mm
	}
	return translate.NewCached(mm, rdb, cfg.TranslateSourceLang, cfg.TranslateCacheTTL, logger)
}

func newTranslationService(pool *pgxpool.Pool, translator service.Translator, cfg *config.Config, logger *slog.Logger) *service.TranslationService {
	return service.NewTranslationService(
		postgres.NewTranslationRepository(pool),
		postgres.NewCategoryRepository(pool),
		postgres.NewItemRepository(pool),
		translator,
		cfg.TranslateLanguages,
		cfg.TranslateDelay,
		logger,
	)
}

// Translations is a translation service over PostgreSQL for one-off jobs such
// as menuctl translate-all. Close releases its connections.
type Translations struct {
	*service.TranslationService
	pool *pgxpool.Pool
	rdb  *redis.Client
}

// OpenTranslations connects to PostgreSQL and Redis and builds the translation
// service the server uses.
func OpenTranslations(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Translations, error) {
	pool, err := openPostgres(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	rdb := openRedis(ctx, cfg, logger)
	return &Translations{
		TranslationService: newTranslationService(pool, NewTranslator(cfg, rdb, logger), cfg, logger),
		pool:               pool,
		rdb:                rdb,
	}, nil
}

// Close releases the connections.
func (t *Translations) Close() {
	if t.rdb != nil {
		_ = t.rdb.Close()
	}
	t.pool.Close()
}

// pingKafkaWithRetry attempts to ping the brokers with exponential backoff
// (3 attempts, 1s/2s with ±25% jitter).
func pingKafkaWithRetry(ctx context.Context, producer *pkgkafka.Producer, logger *slog.Logger) error {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if lastErr = producer.Ping(ctx); lastErr == nil {
			return nil
		}
		if attempt < 2 {
			base := time.Duration(1<<uint(attempt)) * time.Second
			jitter := time.Duration(float64(base) * 0.25 * (2*rand.Float64() - 1)) // #nosec G404 -- non-cryptographic jitter for retry backoff
			wait := base + jitter
			logger.Warn("kafka producer ping failed, retrying",
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", wait),
				slog.String("error", lastErr.Error()),
			)
			select {
			case <-ctx.Done():
				return fmt.Errorf("kafka ping: %w", ctx.Err())
			case <-time.After(wait):
			}
		}
	}
	return lastErr
}
