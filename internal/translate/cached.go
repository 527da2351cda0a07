package translate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

// Translator is anything that can translate text into lang.
type Translator interface {
	Translate(ctx context.Context, text, lang string) (string, error)
}

var cacheLookups = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "translation_cache_lookups_total",
		Help: "Translation cache lookups by result (hit, miss, error)",
	},
	[]string{"result"},
)

// Cached memoizes a Translator in Redis. Cache failures are logged and the
// call falls through to the wrapped translator.
type Cached struct {
	next   Translator
	rdb    redis.Cmdable
	source string
	ttl    time.Duration
	logger *slog.Logger
}

// NewCached wraps next with a Redis cache whose entries expire after ttl.
func NewCached(next Translator, rdb redis.Cmdable, source string, ttl time.Duration, logger *slog.Logger) *Cached {
	return &Cached{next: next, rdb: rdb, source: source, ttl: ttl, logger: logger}
}

// CacheKey is translate:<source>:<lang>:<sha256 of text>.
func CacheKey(source, lang, text string) string {
	sum := sha256.Sum256([]byte(text))
	return "translate:" + source + ":" + lang + ":" + hex.EncodeToString(sum[:])
}

// Translate serves text from the cache or translates and stores it.
func (c *Cached) Translate(ctx context.Context, text, lang string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}
	key := CacheKey(c.source, lang, text)

	cached, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		cacheLookups.WithLabelValues("hit").Inc()
		return cached, nil
	case errors.Is(err, redis.Nil):
		cacheLookups.WithLabelValues("miss").Inc()
	default:
		cacheLookups.WithLabelValues("error").Inc()
		c.logger.WarnContext(ctx, "translation cache read failed",
			slog.String("lang", lang),
			slog.String("error", err.Error()),
		)
	}

	out, err := c.next.Translate(ctx, text, lang)
	if err != nil {
		return "", err
	}
	if err := c.rdb.Set(ctx, key, out, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "translation cache write failed",
			slog.String("lang", lang),
			slog.String("error", err.Error()),
		)
	}
	return out, nil
}
