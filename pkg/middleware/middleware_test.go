package middleware

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahmoud22020/Pvdmenus/pkg/logger"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func validator(tokens map[string]*Claims) TokenValidator {
	return func(token string) (*Claims, error) {
		if c, ok := tokens[token]; ok {
			return c, nil
		}
		return nil, errors.New("bad token")
	}
}

func TestAuth(t *testing.T) {
	manager := &Claims{UserID: "7", Username: "lina", Role: "manager", Venues: []string{"hikayat"}}
	mw := Auth(validator(map[string]*Claims{"good": manager}))

	var seen *Claims
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ClaimsFromContext(r.Context())
		assert.Equal(t, "7", logger.UserIDFromContext(r.Context()))
	}))

	tests := []struct {
		header string
		want   int
	}{
		{"", http.StatusUnauthorized},
		{"Basic abc", http.StatusUnauthorized},
		{"Bearer nope", http.StatusUnauthorized},
		{"Bearer good", http.StatusOK},
		{"bearer good", http.StatusOK},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, tt.want, rec.Code, tt.header)
	}
	assert.Equal(t, manager, seen)
}

func TestRequireVenue(t *testing.T) {
	r := chi.NewRouter()
	r.With(RequireVenue("venue")).Get("/api/{venue}/items", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(logger.VenueFromContext(r.Context())))
	})

	serve := func(c *Claims, venue string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/"+venue+"/items", nil)
		if c != nil {
			req = req.WithContext(WithClaims(req.Context(), c))
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	manager := &Claims{Role: "manager", Venues: []string{"hikayat"}}
	assert.Equal(t, http.StatusOK, serve(manager, "hikayat").Code)
	assert.Equal(t, "hikayat", serve(manager, "hikayat").Body.String())
	assert.Equal(t, http.StatusForbidden, serve(manager, "mosaico").Code)
	assert.Equal(t, http.StatusOK, serve(&Claims{Role: RoleAdmin}, "mosaico").Code)
	assert.Equal(t, http.StatusForbidden, serve(nil, "mosaico").Code)
}

func TestRequireRole(t *testing.T) {
	h := RequireRole(RoleAdmin)(okHandler)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/users", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(WithClaims(req.Context(), &Claims{Role: "manager"})))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(WithClaims(req.Context(), &Claims{Role: RoleAdmin})))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	h := Recovery(slog.New(slog.NewTextHandler(&buf, nil)))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("nil map")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
	assert.Contains(t, buf.String(), "panic recovered")
}

func TestRequestLogging_PropagatesCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewJSONHandler(&buf, nil))

	var fromCtx string
	h := RequestLogging(l)(RequestLogger(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = logger.CorrelationIDFromContext(r.Context())
		logger.FromContext(r.Context()).Info("inside")
		w.WriteHeader(http.StatusCreated)
	})))

	req := httptest.NewRequest(http.MethodPost, "/api/mosaico/bulk/items", nil)
	req.Header.Set(CorrelationHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", fromCtx)
	assert.Equal(t, "abc-123", rec.Header().Get(CorrelationHeader))
	assert.Contains(t, buf.String(), `"msg":"inside","correlation_id":"abc-123"`)
	assert.Contains(t, buf.String(), `"status":201`)
}

func TestRequestLogging_GeneratesCorrelationID(t *testing.T) {
	rec := httptest.NewRecorder()
	RequestLogging(discard())(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, rec.Header().Get(CorrelationHeader), 36)
}

func TestCORS(t *testing.T) {
	h := CORS(CORSConfig{AllowedOrigins: []string{"https://admin.pvd.example"}})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/login", nil)
	req.Header.Set("Origin", "https://admin.pvd.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://admin.pvd.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/login", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	CORS(DefaultCORSConfig())(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(1, 2, discard())(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req.RemoteAddr = "10.0.0.2:5000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestVisitorStore_SweepsIdleVisitors(t *testing.T) {
	now := time.Unix(1000, 0)
	s := newVisitorStore(1, 1, time.Minute)
	s.now = func() time.Time { return now }

	require.True(t, s.allow("a"))
	now = now.Add(2 * time.Minute)
	require.True(t, s.allow("b"))

	_, stillThere := s.visitors["a"]
	assert.False(t, stillThere)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	assert.Equal(t, "203.0.113.5", clientIP(req))
}
