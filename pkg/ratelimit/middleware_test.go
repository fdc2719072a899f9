package ratelimit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func get(h http.Handler, target, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if ip != "" {
		req.Header.Set("CF-Connecting-IP", ip)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		expected string
	}{
		{"cloudflare header", map[string]string{"CF-Connecting-IP": "203.0.113.1", "X-Forwarded-For": "10.0.0.1"}, "203.0.113.1"},
		{"forwarded single", map[string]string{"X-Forwarded-For": "198.51.100.2"}, "198.51.100.2"},
		{"forwarded chain", map[string]string{"X-Forwarded-For": "198.51.100.2, 10.0.0.1"}, "198.51.100.2"},
		{"none", nil, UnknownIP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := ClientIP(req); got != tt.expected {
				t.Errorf("ClientIP() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestMiddleware_IPBoundary(t *testing.T) {
	limiter, _, _ := setupLimiter(t)
	h := limiter.Middleware(okHandler)

	for i := 1; i <= DefaultIPPerMinute; i++ {
		rec := get(h, "/api", "203.0.113.9")
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
		assert.Equal(t, "30", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, strconv.Itoa(DefaultIPPerMinute-i), rec.Header().Get("X-RateLimit-Remaining"))
	}

	before := testutil.ToFloat64(Rejections.WithLabelValues("ip"))
	rec := get(h, "/api", "203.0.113.9")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(Rejections.WithLabelValues("ip")))

	assert.Equal(t, "30", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, strconv.FormatInt(windowStart.Add(60*1e9).UnixMilli(), 10), rec.Header().Get("X-RateLimit-Reset"))
	assert.Equal(t, "50", rec.Header().Get("Retry-After"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Rate limit exceeded", body["error"])
	assert.Equal(t, 50.0, body["retryAfter"])
	assert.NotContains(t, body, "message")

	// Another client is unaffected.
	assert.Equal(t, http.StatusOK, get(h, "/api", "203.0.113.10").Code)
}

func TestMiddleware_UsernameIndependence(t *testing.T) {
	limiter, _, _ := setupLimiter(t, WithIPLimit(100), WithUserLimit(3))
	h := limiter.Middleware(okHandler)

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, get(h, "/api?username=alice", "203.0.113.1").Code)
	}

	rec := get(h, "/api?username=alice", "203.0.113.1")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Rate limit exceeded for this user", body["error"])
	assert.Equal(t, "Too many requests for this GitHub user. Please try again later.", body["message"])
	assert.Greater(t, body["retryAfter"].(float64), 0.0)

	assert.Equal(t, http.StatusOK, get(h, "/api?username=bob", "203.0.113.1").Code)

	// Usernames are case-sensitive identities.
	assert.Equal(t, http.StatusOK, get(h, "/api?username=Alice", "203.0.113.1").Code)
}

func TestMiddleware_NoUsernameSkipsUserRule(t *testing.T) {
	limiter, mr, c := setupLimiter(t, WithUserLimit(1))
	h := limiter.Middleware(okHandler)

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, get(h, "/health", "203.0.113.1").Code)
	}
	_, user := limiter.Rules()
	assert.False(t, mr.Exists(user.Key("", c.Now())))
}

func TestMiddleware_FailOpen(t *testing.T) {
	limiter := NewLimiter(brokenStore{}, zerolog.Nop(), WithIPLimit(1), WithUserLimit(1))
	h := limiter.Middleware(okHandler)

	before := testutil.ToFloat64(FailOpen.WithLabelValues("ip"))
	for i := 0; i < 5; i++ {
		rec := get(h, "/api?username=octocat", "203.0.113.1")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}
	assert.Equal(t, before+5, testutil.ToFloat64(FailOpen.WithLabelValues("ip")))
}
