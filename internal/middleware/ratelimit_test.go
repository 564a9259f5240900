package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func rateLimitedHandler(t *testing.T, mr *miniredis.Miniredis, requestsPerWindow int) http.Handler {
	t.Helper()

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	config := RateLimitConfig{
		RequestsPerWindow: requestsPerWindow,
		Window:            time.Second,
		KeyPrefix:         "test_rate_limit",
	}

	return RateLimitMiddleware(redisClient, config, zap.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)
}

func TestProperty_RateLimitingBlocksExcessiveRequests(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("excessive requests are blocked with 429", prop.ForAll(
		func(requestsPerWindow int, excessRequests int) bool {
			mr, err := miniredis.Run()
			if err != nil {
				t.Fatalf("Failed to start miniredis: %v", err)
				return false
			}
			defer mr.Close()

			handler := rateLimitedHandler(t, mr, requestsPerWindow)

			successCount := 0
			blockedCount := 0
			for i := 0; i < requestsPerWindow+excessRequests; i++ {
				req := httptest.NewRequest("GET", "/api/products", nil)
				req.RemoteAddr = "192.168.1.100"
				w := httptest.NewRecorder()

				handler.ServeHTTP(w, req)

				switch w.Code {
				case http.StatusOK:
					successCount++
				case http.StatusTooManyRequests:
					blockedCount++
				}
			}

			return successCount == requestsPerWindow && blockedCount == excessRequests
		},
		gen.IntRange(5, 20),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRateLimitHeadersAreSet(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	handler := rateLimitedHandler(t, mr, 10)

	req := httptest.NewRequest("GET", "/api/products", nil)
	req.RemoteAddr = "192.168.1.101"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "9", w.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimitKeyedByClientAddress(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	handler := rateLimitedHandler(t, mr, 1)

	first := httptest.NewRequest("GET", "/api/products", nil)
	first.RemoteAddr = "10.0.0.1"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, first)
	assert.Equal(t, http.StatusOK, w.Code)

	blocked := httptest.NewRequest("GET", "/api/products", nil)
	blocked.RemoteAddr = "10.0.0.1"
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, blocked)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// A different client has its own window.
	other := httptest.NewRequest("GET", "/api/products", nil)
	other.RemoteAddr = "10.0.0.2"
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, other)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitFailsOpenWhenRedisIsDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	handler := rateLimitedHandler(t, mr, 1)
	mr.Close()

	req := httptest.NewRequest("GET", "/api/products", nil)
	req.RemoteAddr = "10.0.0.3"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
