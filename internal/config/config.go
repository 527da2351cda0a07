package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/mahmoud22020/Pvdmenus/pkg/config"
	"github.com/mahmoud22020/Pvdmenus/pkg/database"
	"github.com/mahmoud22020/Pvdmenus/pkg/tracing"
)

const defaultJWTSecret = "change-this-to-a-secure-secret"

// Config holds all configuration for the menu admin service and menuctl.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"5050"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"postgres"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"pvd_menus"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Database pool
	DBMaxConns            int32 `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns            int32 `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetimeMins int   `env:"DB_MAX_CONN_LIFETIME_MINUTES" envDefault:"60"`
	DBMaxConnIdleTimeMins int   `env:"DB_MAX_CONN_IDLE_TIME_MINUTES" envDefault:"30"`
	SlowQueryThresholdMs  int   `env:"LOG_SLOW_QUERY_MS" envDefault:"500"`

	// Redis
	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"true"`
	KafkaGroupID string   `env:"KAFKA_GROUP_ID" envDefault:"menu-admin-translator"`

	// Translation worker consuming created events. Needs KAFKA_ENABLED.
	TranslateWorkerEnabled bool          `env:"TRANSLATE_WORKER_ENABLED" envDefault:"false"`
	IdempotencyTTL         time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// JWT
	JWTSecret       string        `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`
	JWTAccessExpiry time.Duration `env:"JWT_ACCESS_EXPIRY" envDefault:"24h"`

	// Seeded admin. An empty password disables seeding.
	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"AYADMIN"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:""`
	AdminFullName string `env:"ADMIN_FULL_NAME" envDefault:"Administrator"`

	// Machine translation
	TranslateAPIURL     string        `env:"TRANSLATE_API_URL" envDefault:"https://api.mymemory.translated.net/get"`
	TranslateSourceLang string        `env:"TRANSLATE_SOURCE_LANG" envDefault:"en"`
	TranslateLanguages  []string      `env:"TRANSLATE_LANGUAGES" envDefault:"ar,ru,zh" envSeparator:","`
	TranslateCacheTTL   time.Duration `env:"TRANSLATE_CACHE_TTL" envDefault:"720h"`
	TranslateTimeout    time.Duration `env:"TRANSLATE_TIMEOUT" envDefault:"10s"`
	TranslateDelay      time.Duration `env:"TRANSLATE_DELAY" envDefault:"300ms"`

	// Bulk import
	BulkAutoTranslate bool `env:"BULK_AUTO_TRANSLATE" envDefault:"true"`
	BulkMaxRows       int  `env:"BULK_MAX_ROWS" envDefault:"5000"`
	BulkMaxUploadMB   int  `env:"BULK_MAX_UPLOAD_MB" envDefault:"10"`

	// Login rate limiting, per client IP
	LoginRateRPS   float64 `env:"LOGIN_RATE_RPS" envDefault:"1"`
	LoginRateBurst int     `env:"LOGIN_RATE_BURST" envDefault:"5"`

	// menuctl credentials for the admin API. Flags override them.
	APIURL      string `env:"MENU_API_URL" envDefault:"http://localhost:5050"`
	APIUsername string `env:"MENU_API_USERNAME" envDefault:""`
	APIPassword string `env:"MENU_API_PASSWORD" envDefault:""`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load menu config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.PostgresHost == "" {
		return fmt.Errorf("POSTGRES_HOST is required")
	}
	if c.PostgresUser == "" {
		return fmt.Errorf("POSTGRES_USER is required")
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	if len(c.TranslateLanguages) == 0 {
		return fmt.Errorf("TRANSLATE_LANGUAGES must list at least one language")
	}
	if c.BulkMaxRows < 1 {
		return fmt.Errorf("BULK_MAX_ROWS must be positive, got %d", c.BulkMaxRows)
	}
	if c.BulkMaxUploadMB < 1 {
		return fmt.Errorf("BULK_MAX_UPLOAD_MB must be positive, got %d", c.BulkMaxUploadMB)
	}
	if c.LoginRateRPS <= 0 || c.LoginRateBurst < 1 {
		return fmt.Errorf("LOGIN_RATE_RPS and LOGIN_RATE_BURST must be positive")
	}

	if c.Environment != "development" {
		if c.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be explicitly set via environment variable in %q mode", c.Environment)
		}
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters long, got %d", len(c.JWTSecret))
		}
	}
	return nil
}

// Postgres returns the pool configuration.
func (c *Config) Postgres() *database.PostgresConfig {
	return &database.PostgresConfig{
		Host:            c.PostgresHost,
		Port:            c.PostgresPort,
		User:            c.PostgresUser,
		Password:        c.PostgresPass,
		DBName:          c.PostgresDB,
		SSLMode:         c.PostgresSSL,
		MaxConns:        c.DBMaxConns,
		MinConns:        c.DBMinConns,
		MaxConnLifetime: time.Duration(c.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(c.DBMaxConnIdleTimeMins) * time.Minute,
	}
}

// Redis returns the Redis client configuration.
func (c *Config) Redis() database.RedisConfig {
	return database.RedisConfig{Host: c.RedisHost, Port: c.RedisPort, Password: c.RedisPass, DB: c.RedisDB}
}

// Tracing returns the tracer configuration for serviceName.
func (c *Config) Tracing(serviceName string) tracing.Config {
	return tracing.Config{
		ServiceName:  serviceName,
		Environment:  c.Environment,
		OTLPEndpoint: c.OTELEndpoint,
		SampleRate:   c.OTELSampleRate,
		Enabled:      c.OTELEnabled,
	}
}

// MaxUploadBytes is BulkMaxUploadMB in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.BulkMaxUploadMB) << 20
}
