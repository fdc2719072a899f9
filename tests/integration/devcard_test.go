//go:build integration

package integration

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/paveg/devcard/internal/testutil"
	"github.com/paveg/devcard/pkg/analytics"
	"github.com/paveg/devcard/pkg/api"
	"github.com/paveg/devcard/pkg/cache"
	"github.com/paveg/devcard/pkg/github"
	"github.com/paveg/devcard/pkg/ratelimit"
)

// setupRedis starts a Redis container for integration testing.
func setupRedis(t *testing.T) (testcontainers.Container, *redis.Client) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	t.Cleanup(func() {
		redisClient.Close()
		container.Terminate(ctx)
	})

	return container, redisClient
}

// newTestServer wires a server to Redis and a stub GitHub endpoint.
func newTestServer(t *testing.T, redisClient *redis.Client, limiterOpts ...ratelimit.Option) (*httptest.Server, *testutil.MockGitHub) {
	t.Helper()

	mock := testutil.NewMockGitHub()
	t.Cleanup(mock.Close)

	store := cache.NewRedisStore(redisClient)
	logger := zerolog.Nop()

	server, err := api.New(api.Config{
		GitHub: github.New(github.Config{
			Endpoint: mock.URL(),
			Token:    "integration-token",
			Timeout:  5 * time.Second,
			Logger:   logger,
		}),
		Cache:     cache.NewManager(store, logger),
		Analytics: analytics.NewCollector(store, logger),
		Limiter:   ratelimit.NewLimiter(store, logger, limiterOpts...),
		Logger:    logger,
	})
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	ts := httptest.NewServer(server)
	t.Cleanup(ts.Close)
	return ts, mock
}

func get(t *testing.T, url string, headers map[string]string) (*http.Response, string) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func octocatStats() testutil.MockResponse {
	return testutil.NewUserStatsResponse(testutil.UserFixture{
		Login:     "octocat",
		Name:      "The Octocat",
		Commits:   300,
		PRs:       20,
		Issues:    5,
		Followers: 100,
		RepoStars: []int{800, 150},
	})
}

// TestFullRequestFlow covers rate limit, cache miss, upstream call, cache
// write and cache hit.
func TestFullRequestFlow(t *testing.T) {
	_, redisClient := setupRedis(t)
	ts, mock := newTestServer(t, redisClient)
	mock.SetResponse(testutil.OpUserStats, octocatStats())

	resp1, body1 := get(t, ts.URL+"/api?username=octocat", nil)
	if resp1.StatusCode != http.StatusOK {
		t.Fatalf("Request 1 status = %d, want %d: %s", resp1.StatusCode, http.StatusOK, body1)
	}
	if got := resp1.Header.Get("X-Cache-Status"); got != "MISS" {
		t.Errorf("Request 1 X-Cache-Status = %q, want MISS", got)
	}
	if !strings.Contains(body1, "<svg") {
		t.Errorf("Request 1 body is not an SVG card")
	}

	ctx := context.Background()
	key := "devcard:stats:username:octocat"
	ttl, err := redisClient.TTL(ctx, key).Result()
	if err != nil {
		t.Fatalf("TTL lookup failed: %v", err)
	}
	if ttl <= 59*time.Minute || ttl > time.Hour {
		t.Errorf("Cached card TTL = %v, want about 1h", ttl)
	}

	resp2, body2 := get(t, ts.URL+"/api?username=octocat", nil)
	if got := resp2.Header.Get("X-Cache-Status"); got != "HIT" {
		t.Errorf("Request 2 X-Cache-Status = %q, want HIT", got)
	}
	if body2 != body1 {
		t.Errorf("Request 2 body differs from the cached card")
	}
	if n := mock.RequestCount(testutil.OpUserStats); n != 1 {
		t.Errorf("Upstream requests = %d, want 1", n)
	}
}

// TestCardFailureWritesErrorEntry checks that failures are recorded but never
// served from the cache.
func TestCardFailureWritesErrorEntry(t *testing.T) {
	_, redisClient := setupRedis(t)
	ts, mock := newTestServer(t, redisClient)

	for i := 0; i < 2; i++ {
		resp, body := get(t, ts.URL+"/api/pin?username=octocat&repo=missing", nil)
		if resp.StatusCode != http.StatusInternalServerError {
			t.Fatalf("Status = %d, want 500", resp.StatusCode)
		}
		if body != `Error: Repository "octocat/missing" not found` {
			t.Errorf("Body = %q", body)
		}
	}

	ctx := context.Background()
	n, err := redisClient.Exists(ctx, "devcard:repo:repo:missing,username:octocat:error").Result()
	if err != nil || n != 1 {
		t.Errorf("Error entry missing: n=%d err=%v", n, err)
	}
	if got := mock.RequestCount(testutil.OpRepo); got != 2 {
		t.Errorf("Upstream requests = %d, want 2", got)
	}
}

// TestRateLimitWindow checks the per-IP budget is shared across requests and
// separated between clients.
func TestRateLimitWindow(t *testing.T) {
	_, redisClient := setupRedis(t)
	ts, mock := newTestServer(t, redisClient, ratelimit.WithIPLimit(3))
	mock.SetResponse(testutil.OpUserStats, octocatStats())

	client := map[string]string{"CF-Connecting-IP": "198.51.100.10"}
	for i := 1; i <= 3; i++ {
		resp, _ := get(t, ts.URL+"/api?username=octocat", client)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Request %d status = %d, want 200", i, resp.StatusCode)
		}
	}

	resp, body := get(t, ts.URL+"/api?username=octocat", client)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("Request 4 status = %d, want 429", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Errorf("Retry-After header missing")
	}
	if !strings.Contains(body, "Rate limit exceeded") {
		t.Errorf("Body = %q", body)
	}

	other, _ := get(t, ts.URL+"/api?username=octocat", map[string]string{"CF-Connecting-IP": "198.51.100.11"})
	if other.StatusCode != http.StatusOK {
		t.Errorf("Other client status = %d, want 200", other.StatusCode)
	}
}

// TestRedisOutage checks that cards are still served when Redis goes away.
func TestRedisOutage(t *testing.T) {
	container, redisClient := setupRedis(t)
	ts, mock := newTestServer(t, redisClient)
	mock.SetResponse(testutil.OpUserStats, octocatStats())

	timeout := 5 * time.Second
	if err := container.Stop(context.Background(), &timeout); err != nil {
		t.Fatalf("Failed to stop Redis: %v", err)
	}

	for i := 0; i < 2; i++ {
		resp, _ := get(t, ts.URL+"/api?username=octocat", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Request %d status = %d, want 200", i+1, resp.StatusCode)
		}
		if got := resp.Header.Get("X-Cache-Status"); got != "MISS" {
			t.Errorf("Request %d X-Cache-Status = %q, want MISS", i+1, got)
		}
	}
	if n := mock.RequestCount(testutil.OpUserStats); n != 2 {
		t.Errorf("Upstream requests = %d, want 2", n)
	}
}

// TestAnalyticsPersisted checks telemetry lands in an hourly bucket.
func TestAnalyticsPersisted(t *testing.T) {
	_, redisClient := setupRedis(t)
	ts, _ := newTestServer(t, redisClient)

	resp, err := http.Post(ts.URL+"/api/analytics/vitals", "application/json",
		strings.NewReader(`{"name":"LCP","value":900,"rating":"good","page":"/"}`))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Status = %d, want 200", resp.StatusCode)
	}

	keys, err := redisClient.Keys(context.Background(), "analytics:vitals:*").Result()
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 1 {
		t.Errorf("Vitals buckets = %v, want one", keys)
	}
}
