package translate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahmoud22020/Pvdmenus/pkg/httpclient"
)

func noRetryClient() *httpclient.Client {
	cfg := httpclient.DefaultConfig()
	cfg.MaxRetries = 0
	cfg.Timeout = 2 * time.Second
	return httpclient.New(cfg)
}

func TestMyMemory_Translate(t *testing.T) {
	var gotQuery, gotPair string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotPair = r.URL.Query().Get("langpair")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"responseData":{"translatedText":" 拿铁 "},"responseStatus":200}`)
	}))
	defer srv.Close()

	mm := NewMyMemory(noRetryClient(), srv.URL, "en")
	out, err := mm.Translate(context.Background(), "Latte & milk", "zh")
	require.NoError(t, err)
	assert.Equal(t, "拿铁", out)
	assert.Equal(t, "Latte & milk", gotQuery)
	assert.Equal(t, "en|zh-CN", gotPair)
}

func TestMyMemory_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"empty text", http.StatusOK, `{"responseData":{"translatedText":""},"responseStatus":200}`},
		{"missing data", http.StatusOK, `{}`},
		{"quota status as string", http.StatusOK, `{"responseData":{"translatedText":"MYMEMORY WARNING"},"responseStatus":"429","responseDetails":"quota"}`},
		{"http error", http.StatusBadGateway, `upstream down`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewMyMemory(noRetryClient(), srv.URL, "en").Translate(context.Background(), "Soup", "ar")
			assert.Error(t, err)
		})
	}
}

func TestMyMemory_BlankSkipsCall(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	defer srv.Close()

	out, err := NewMyMemory(noRetryClient(), srv.URL, "en").Translate(context.Background(), "  ", "ar")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.False(t, called)
}

type countingTranslator struct {
	calls int
	err   error
}

func (c *countingTranslator) Translate(_ context.Context, text, lang string) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return lang + ":" + text, nil
}

func TestCached(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	next := &countingTranslator{}
	c := NewCached(next, rdb, "en", time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	out, err := c.Translate(ctx, "Tea", "ru")
	require.NoError(t, err)
	assert.Equal(t, "ru:Tea", out)

	out, err = c.Translate(ctx, "Tea", "ru")
	require.NoError(t, err)
	assert.Equal(t, "ru:Tea", out)
	assert.Equal(t, 1, next.calls)

	assert.True(t, mr.Exists(CacheKey("en", "ru", "Tea")))
	assert.Equal(t, time.Hour, mr.TTL(CacheKey("en", "ru", "Tea")))
}

func TestCached_ErrorsAreNotCached(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	next := &countingTranslator{err: errors.New("quota")}
	c := NewCached(next, rdb, "en", time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := c.Translate(context.Background(), "Tea", "ar")
	assert.Error(t, err)
	assert.False(t, mr.Exists(CacheKey("en", "ar", "Tea")))
}

func TestCached_RedisDownFallsThrough(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	mr.Close()

	next := &countingTranslator{}
	c := NewCached(next, rdb, "en", time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))

	out, err := c.Translate(context.Background(), "Tea", "zh")
	require.NoError(t, err)
	assert.Equal(t, "zh:Tea", out)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t,
		"translate:en:ar:017979e8299034d8c481af1f282eb32af0ca7e39553664ba27289257b01d49c1",
		CacheKey("en", "ar", "Tea"),
	)
	assert.NotEqual(t, CacheKey("en", "ar", "Tea"), CacheKey("en", "ru", "Tea"))
}
