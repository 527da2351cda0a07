package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnvs(t *testing.T, envs map[string]string) {
	t.Helper()
	for k, v := range envs {
		t.Setenv(k, v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5050, cfg.HTTPPort)
	assert.Equal(t, []string{"ar", "ru", "zh"}, cfg.TranslateLanguages)
	assert.Equal(t, 720*time.Hour, cfg.TranslateCacheTTL)
	assert.Equal(t, 300*time.Millisecond, cfg.TranslateDelay)
	assert.Equal(t, 24*time.Hour, cfg.JWTAccessExpiry)
	assert.Equal(t, "AYADMIN", cfg.AdminUsername)
	assert.True(t, cfg.BulkAutoTranslate)
	assert.Equal(t, 5000, cfg.BulkMaxRows)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes())
}

func TestLoad_Overrides(t *testing.T) {
	setEnvs(t, map[string]string{
		"HTTP_PORT":                    "8080",
		"TRANSLATE_LANGUAGES":          "ar,fr",
		"DB_MAX_CONN_LIFETIME_MINUTES": "5",
		"KAFKA_ENABLED":                "false",
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, []string{"ar", "fr"}, cfg.TranslateLanguages)
	assert.Equal(t, 5*time.Minute, cfg.Postgres().MaxConnLifetime)
	assert.False(t, cfg.KafkaEnabled)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		envs map[string]string
		want string
	}{
		{"port", map[string]string{"HTTP_PORT": "70000"}, "invalid HTTP port"},
		{"sample rate", map[string]string{"OTEL_SAMPLE_RATE": "1.5"}, "OTEL_SAMPLE_RATE"},
		{"max rows", map[string]string{"BULK_MAX_ROWS": "0"}, "BULK_MAX_ROWS"},
		{"rate", map[string]string{"LOGIN_RATE_BURST": "0"}, "LOGIN_RATE"},
		{"default secret", map[string]string{"ENVIRONMENT": "production"}, "JWT_SECRET must be explicitly set"},
		{"short secret", map[string]string{"ENVIRONMENT": "staging", "JWT_SECRET": "too-short"}, "at least 32 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnvs(t, tt.envs)
			cfg, err := Load()
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_ProductionWithStrongSecret(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT": "production",
		"JWT_SECRET":  "a-very-long-and-secure-secret-for-production-use",
	})
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
}

func TestDerivedConfigs(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost:6379", cfg.Redis().Addr())
	tc := cfg.Tracing("menu-admin")
	assert.Equal(t, "menu-admin", tc.ServiceName)
	assert.False(t, tc.Enabled)
	assert.Contains(t, cfg.Postgres().DSN(), "/pvd_menus?sslmode=disable")
}
