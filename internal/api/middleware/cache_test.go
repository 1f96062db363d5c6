package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/carepulse/healthcare-analytics/backend/internal/api/middleware"
	"github.com/carepulse/healthcare-analytics/backend/internal/infrastructure/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if data, ok := c.entries[key]; ok {
		return data, nil
	}
	return nil, errors.New("key not found")
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.entries[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := c.entries[key]
	return ok, nil
}

func TestCacheMiddleware_MissThenHit(t *testing.T) {
	metrics, err := observability.InitMetrics()
	require.NoError(t, err)

	cache := newMemoryCache()
	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"readmissionRate":{"value":"14.2%"}}`))
	})
	handler := middleware.NewCacheMiddleware(cache, metrics).Middleware(next)

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest("GET", "/overview-metrics", nil))

	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Equal(t, 1, calls)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest("GET", "/overview-metrics", nil))

	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, 1, calls, "cached response must not invoke the handler again")
	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestCacheMiddleware_SkipsUnconfiguredRoutes(t *testing.T) {
	cache := newMemoryCache()
	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"id":"EP000001"}`))
	})
	handler := middleware.NewCacheMiddleware(cache, nil).Middleware(next)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/readmissions/EP000001", nil))
		assert.Empty(t, w.Header().Get("X-Cache"))
	}

	assert.Equal(t, 2, calls)
	assert.Empty(t, cache.entries)
}

func TestCacheMiddleware_QueryStringSplitsEntries(t *testing.T) {
	cache := newMemoryCache()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.URL.RawQuery))
	})
	handler := middleware.NewCacheMiddleware(cache, nil).Middleware(next)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/risk-distribution", nil))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/risk-distribution?unit=ICU", nil))

	assert.Len(t, cache.entries, 2)
}
