package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

type contextKey string

const (
	correlationIDKey contextKey = "correlation_id"
	userIDKey        contextKey = "user_id"
	venueKey         contextKey = "venue"
	batchIDKey       contextKey = "batch_id"
	loggerKey        contextKey = "logger"
)

// New creates a JSON logger for the named component writing to stdout.
func New(serviceName, level string) *slog.Logger {
	return NewWithWriter(serviceName, level, os.Stdout)
}

// NewWithWriter creates a JSON logger writing to w.
func NewWithWriter(serviceName, level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	})

	return slog.New(handler).With(
		slog.String("service", serviceName),
	)
}

// ParseLevel maps a level name to a slog level. Unknown names map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithCorrelationID returns a new context with the correlation ID set.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationIDFromContext extracts the correlation ID from the context.
func CorrelationIDFromContext(ctx context.Context) string {
	return stringValue(ctx, correlationIDKey)
}

// WithUserID returns a new context with the acting admin user set for logging.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFromContext extracts the user ID stored by the logger package.
func UserIDFromContext(ctx context.Context) string {
	return stringValue(ctx, userIDKey)
}

// WithVenue returns a new context tagged with the venue being administered.
func WithVenue(ctx context.Context, venue string) context.Context {
	return context.WithValue(ctx, venueKey, venue)
}

// VenueFromContext extracts the venue tag.
func VenueFromContext(ctx context.Context) string {
	return stringValue(ctx, venueKey)
}

// WithBatchID returns a new context tagged with a bulk batch identifier.
func WithBatchID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, batchIDKey, id)
}

// BatchIDFromContext extracts the bulk batch identifier.
func BatchIDFromContext(ctx context.Context) string {
	return stringValue(ctx, batchIDKey)
}

// NewContext stores l in the returned context.
func NewContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the request-scoped logger, or slog.Default() if none is stored.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// WithContext returns l enriched with every context-derived field that is present:
// correlation_id, user_id, venue, batch_id, trace_id and span_id.
func WithContext(ctx context.Context, l *slog.Logger) *slog.Logger {
	fields := []struct {
		key   string
		value string
	}{
		{"correlation_id", CorrelationIDFromContext(ctx)},
		{"user_id", UserIDFromContext(ctx)},
		{"venue", VenueFromContext(ctx)},
		{"batch_id", BatchIDFromContext(ctx)},
	}
	for _, f := range fields {
		if f.value != "" {
			l = l.With(slog.String(f.key, f.value))
		}
	}

	if spanCtx := trace.SpanFromContext(ctx).SpanContext(); spanCtx.IsValid() {
		l = l.With(
			slog.String("trace_id", spanCtx.TraceID().String()),
			slog.String("span_id", spanCtx.SpanID().String()),
		)
	}

	return l
}

func stringValue(ctx context.Context, key contextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}
