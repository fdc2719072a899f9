package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/paveg/devcard/pkg/analytics"
	"github.com/paveg/devcard/pkg/api"
	"github.com/paveg/devcard/pkg/cache"
	"github.com/paveg/devcard/pkg/config"
	"github.com/paveg/devcard/pkg/github"
	"github.com/paveg/devcard/pkg/logging"
	"github.com/paveg/devcard/pkg/metrics"
	"github.com/paveg/devcard/pkg/ratelimit"
)

const (
	redisPingTimeout      = 3 * time.Second
	memoryCleanupInterval = time.Minute
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger := logging.Setup(logging.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
		Output: os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore := newStore(ctx, cfg, logging.NewLogger("store"))
	defer closeStore()

	handler, err := newHandler(cfg, store, prometheus.NewRegistry())
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build HTTP handler")
	}

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		logger.Fatal().Err(err).Str("addr", cfg.Addr()).Msg("Failed to listen")
	}

	logger.Info().
		Str("addr", cfg.Addr()).
		Str("store", cfg.StoreBackend()).
		Bool("metrics", cfg.Metrics.Enabled).
		Bool("github_token", cfg.GitHub.Token != "").
		Msg("Starting devcard server")

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := serve(ctx, srv, ln, cfg.Server.ShutdownTimeout, logger); err != nil {
		logger.Error().Err(err).Msg("Server failed")
		os.Exit(1)
	}
	logger.Info().Msg("Server stopped")
}

// newStore opens the configured backend. An unreachable Redis degrades to
// cache.NopStore so cards are still served, uncached and unlimited.
func newStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (cache.Store, func()) {
	noop := func() {}

	switch cfg.StoreBackend() {
	case config.BackendRedis:
		opts, err := redisOptions(cfg.Redis.URL)
		if err != nil {
			logger.Warn().Err(err).Msg("Invalid REDIS_URL, running without store")
			return cache.NopStore{}, noop
		}
		client := redis.NewClient(opts)

		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			logger.Warn().Err(err).Str("addr", opts.Addr).Msg("Redis unreachable, running without store")
			return cache.NopStore{}, noop
		}

		logger.Info().Str("addr", opts.Addr).Msg("Connected to Redis")
		return cache.NewRedisStore(client), func() { client.Close() }

	case config.BackendMemory:
		logger.Info().Msg("Using in-memory store")
		return cache.NewMemoryStore(memoryCleanupInterval), noop

	default:
		logger.Info().Msg("No store configured, caching and rate limiting disabled")
		return cache.NopStore{}, noop
	}
}

// redisOptions accepts a redis:// URL or a bare host:port.
func redisOptions(raw string) (*redis.Options, error) {
	if !strings.Contains(raw, "://") {
		return &redis.Options{Addr: raw}, nil
	}
	return redis.ParseURL(raw)
}

// newHandler wires the service over store. Service metrics are registered
// with reg and exposed together with the default registry.
func newHandler(cfg *config.Config, store cache.Store, reg *prometheus.Registry) (http.Handler, error) {
	var sink metrics.Sink = metrics.Nop{}
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		sink = metrics.NewPrometheus(reg)
		metricsHandler = promhttp.HandlerFor(
			prometheus.Gatherers{reg, prometheus.DefaultGatherer},
			promhttp.HandlerOpts{},
		)
	}

	client := github.New(github.Config{
		Endpoint: cfg.GitHub.Endpoint,
		Token:    cfg.GitHub.Token,
		Timeout:  cfg.GitHub.Timeout,
		MaxRPS:   cfg.GitHub.MaxRPS,
		Sink:     sink,
		Logger:   logging.NewLogger("github"),
	})

	return api.New(api.Config{
		GitHub:    client,
		Cache:     cache.NewManager(store, logging.NewLogger("cache")),
		Analytics: analytics.NewCollector(store, logging.NewLogger("analytics")),
		Limiter: ratelimit.NewLimiter(store, logging.NewLogger("ratelimit"),
			ratelimit.WithIPLimit(cfg.RateLimit.IPPerMinute),
			ratelimit.WithUserLimit(cfg.RateLimit.UserPerHour),
		),
		Sink:           sink,
		Logger:         logging.NewLogger("http"),
		MetricsHandler: metricsHandler,
	})
}

// serve runs srv on ln until ctx is done, then shuts down gracefully within
// timeout.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, timeout time.Duration, logger zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info().Dur("timeout", timeout).Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
