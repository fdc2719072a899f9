package main

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paveg/devcard/pkg/cache"
	"github.com/paveg/devcard/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{Port: 8080, ShutdownTimeout: time.Second},
		GitHub:    config.GitHubConfig{Endpoint: "http://127.0.0.1:1/graphql", Timeout: time.Second},
		RateLimit: config.RateLimitConfig{IPPerMinute: 30, UserPerHour: 50},
		Metrics:   config.MetricsConfig{Enabled: true},
	}
}

func TestNewStore(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	t.Run("redis url", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := testConfig()
		cfg.Redis.URL = "redis://" + mr.Addr() + "/0"

		store, closeStore := newStore(ctx, cfg, logger)
		defer closeStore()

		require.IsType(t, &cache.RedisStore{}, store)
		require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))
		assert.True(t, mr.Exists("k"))
	})

	t.Run("bare address", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := testConfig()
		cfg.Redis.URL = mr.Addr()

		store, closeStore := newStore(ctx, cfg, logger)
		defer closeStore()
		assert.IsType(t, &cache.RedisStore{}, store)
	})

	t.Run("unreachable redis degrades", func(t *testing.T) {
		cfg := testConfig()
		cfg.Redis.URL = "redis://127.0.0.1:1"

		store, closeStore := newStore(ctx, cfg, logger)
		defer closeStore()
		assert.Equal(t, cache.NopStore{}, store)
	})

	t.Run("invalid url degrades", func(t *testing.T) {
		cfg := testConfig()
		cfg.Redis.URL = "postgres://localhost"

		store, closeStore := newStore(ctx, cfg, logger)
		defer closeStore()
		assert.Equal(t, cache.NopStore{}, store)
	})

	t.Run("memory", func(t *testing.T) {
		cfg := testConfig()
		cfg.Store.Backend = config.BackendMemory

		store, closeStore := newStore(ctx, cfg, logger)
		defer closeStore()
		assert.IsType(t, &cache.MemoryStore{}, store)
	})

	t.Run("none", func(t *testing.T) {
		store, closeStore := newStore(ctx, testConfig(), logger)
		defer closeStore()
		assert.Equal(t, cache.NopStore{}, store)
	})
}

func TestNewHandler(t *testing.T) {
	handler, err := newHandler(testConfig(), cache.NewMemoryStore(time.Minute), prometheus.NewRegistry())
	require.NoError(t, err)

	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api?username=octocat", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Error: GitHub token is required", rec.Body.String())
	})

	t.Run("metrics", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "devcard_http_requests_total")
	})
}

func TestNewHandler_MetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Enabled = false

	handler, err := newHandler(cfg, cache.NopStore{}, prometheus.NewRegistry())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServe_GracefulShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, srv, ln, time.Second, zerolog.Nop())
	}()

	resp, err := http.Get("http://" + ln.Addr().String())
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", strings.TrimSpace(string(body)))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
