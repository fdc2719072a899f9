// Package github fetches the data behind each card from the GitHub GraphQL
// API: user contribution stats, top languages and single repositories.
//
// Every query goes through Client.Query, which reports exactly one
// metrics.UpstreamCall per attempt and never retries.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/paveg/devcard/pkg/metrics"
	"github.com/rs/zerolog"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	// DefaultEndpoint is the public GitHub GraphQL endpoint.
	DefaultEndpoint = "https://api.github.com/graphql"

	DefaultUserAgent = "devcard"
	DefaultTimeout   = 10 * time.Second

	// RateLimitWarnThreshold is the remaining quota below which every call
	// logs a warning.
	RateLimitWarnThreshold = 100
)

// Config holds client configuration.
type Config struct {
	Endpoint  string
	Token     string
	UserAgent string

	// Timeout bounds each call, including reading the response.
	Timeout time.Duration

	// MaxRPS caps outbound calls per second. Zero disables the cap.
	MaxRPS float64
	Burst  int

	// Transport is the base round tripper. Defaults to http.DefaultTransport.
	Transport http.RoundTripper

	Sink   metrics.Sink
	Logger zerolog.Logger
}

// Client queries the GitHub GraphQL API.
type Client struct {
	config  Config
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// New creates a client. Missing optional fields get defaults.
// A missing token is reported per call as a ConfigurationError.
func New(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Transport == nil {
		cfg.Transport = http.DefaultTransport
	}
	if cfg.Sink == nil {
		cfg.Sink = metrics.Nop{}
	}

	c := &Client{
		config: cfg,
		logger: cfg.Logger.With().Str("component", "github").Logger(),
	}
	if cfg.MaxRPS > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.MaxRPS), burst)
	}
	return c
}

// exchange captures the single HTTP response of one Query call.
type exchange struct {
	status int
	header http.Header
	body   []byte
}

// recordingTransport sets the User-Agent and keeps a copy of the response.
type recordingTransport struct {
	next      http.RoundTripper
	userAgent string
	record    *exchange
}

func (t *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req2 := req.Clone(req.Context())
	req2.Header.Set("User-Agent", t.userAgent)

	resp, err := t.next.RoundTrip(req2)
	if err != nil {
		return nil, err
	}

	t.record.status = resp.StatusCode
	t.record.header = resp.Header.Clone()

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	t.record.body = body
	resp.Body = io.NopCloser(bytes.NewReader(body))

	return resp, nil
}

// graphQLErrors is the error array of a GraphQL response body.
type graphQLErrors struct {
	Errors []struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"errors"`
}

// Query runs a githubv4 query struct q against the API. endpoint labels the
// call in metrics and logs.
func (c *Client) Query(ctx context.Context, q any, variables map[string]any, endpoint string) error {
	if c.config.Token == "" {
		return &ConfigurationError{Message: "GitHub token is required"}
	}

	start := time.Now()
	record := &exchange{}
	defer func() {
		c.report(endpoint, record, time.Since(start))
	}()

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &TransportError{Err: err}
		}
	}

	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.config.Token}),
			Base: &recordingTransport{
				next:      c.config.Transport,
				userAgent: c.config.UserAgent,
				record:    record,
			},
		},
	}

	err := githubv4.NewEnterpriseClient(c.config.Endpoint, httpClient).Query(ctx, q, variables)
	if err == nil {
		return nil
	}
	return classify(record, err)
}

func classify(record *exchange, err error) error {
	if record.status == 0 {
		return &TransportError{Err: err}
	}
	if record.status < 200 || record.status > 299 {
		return &TransportError{StatusCode: record.status, Err: err}
	}

	var body graphQLErrors
	if jsonErr := json.Unmarshal(record.body, &body); jsonErr == nil && len(body.Errors) > 0 {
		return &ApplicationError{Message: body.Errors[0].Message, Type: body.Errors[0].Type}
	}
	return &TransportError{StatusCode: record.status, Err: err}
}

func (c *Client) report(endpoint string, record *exchange, duration time.Duration) {
	call := metrics.UpstreamCall{
		Endpoint: endpoint,
		Status:   record.status,
		Duration: duration,
	}
	if record.header != nil {
		if v, err := strconv.Atoi(record.header.Get("X-RateLimit-Remaining")); err == nil {
			call.RateLimitRemaining = &v
		}
		if v, err := strconv.ParseInt(record.header.Get("X-RateLimit-Reset"), 10, 64); err == nil {
			call.RateLimitReset = &v
		}
	}

	c.config.Sink.RecordUpstreamCall(call)

	if call.RateLimitRemaining != nil && *call.RateLimitRemaining < RateLimitWarnThreshold {
		event := c.logger.Warn().
			Str("type", "github_rate_limit").
			Str("endpoint", endpoint).
			Int("remaining", *call.RateLimitRemaining)
		if call.RateLimitReset != nil {
			event = event.Int64("reset", *call.RateLimitReset)
		}
		event.Msg("github rate limit low")
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Int("status", record.status).
		Dur("duration", duration).
		Msg("github query")
}
