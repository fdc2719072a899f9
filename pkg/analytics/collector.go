// Package analytics aggregates client-side telemetry into hourly buckets in
// the shared key/value store.
//
// Buckets are updated read-modify-write without locking, so concurrent
// reports for the same hour may overwrite each other. Counts are indicative.
package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/paveg/devcard/pkg/cache"
)

const (
	// RetentionTTL is how long an hourly bucket is kept.
	RetentionTTL = 7 * 24 * time.Hour

	// MaxErrorMessages bounds the unique messages kept per hourly bucket.
	MaxErrorMessages = 100

	// DefaultHoursBack is used by Metrics when hoursBack is not positive.
	DefaultHoursBack = 24
)

// Web vital ratings as reported by the browser library.
const (
	RatingGood             = "good"
	RatingNeedsImprovement = "needs-improvement"
	RatingPoor             = "poor"
)

// WebVital is one Core Web Vitals measurement.
type WebVital struct {
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Rating    string  `json:"rating"`
	Page      string  `json:"page"`
	Timestamp int64   `json:"timestamp"`
	UserAgent string  `json:"userAgent,omitempty"`
	Country   string  `json:"country,omitempty"`
}

// ErrorReport is a frontend error.
type ErrorReport struct {
	Message        string `json:"message"`
	Stack          string `json:"stack,omitempty"`
	ComponentStack string `json:"componentStack,omitempty"`
	Page           string `json:"page"`
	UserAgent      string `json:"userAgent,omitempty"`
	Timestamp      int64  `json:"timestamp"`
	IP             string `json:"ip,omitempty"`
	Country        string `json:"country,omitempty"`
}

// CustomMetric is an application-defined measurement.
type CustomMetric struct {
	Name      string         `json:"name"`
	Value     float64        `json:"value"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp int64          `json:"timestamp"`
}

// VitalStats aggregates one web vital within an hour.
type VitalStats struct {
	Count            int     `json:"count"`
	Sum              float64 `json:"sum"`
	Good             int     `json:"good"`
	NeedsImprovement int     `json:"needsImprovement"`
	Poor             int     `json:"poor"`
}

// ErrorStats aggregates frontend errors within an hour.
type ErrorStats struct {
	Count    int      `json:"count"`
	Messages []string `json:"messages"`
}

// Aggregate is an hourly bucket.
type Aggregate struct {
	WebVitals map[string]*VitalStats `json:"webVitals"`
	Errors    ErrorStats             `json:"errors"`
	PageViews map[string]int         `json:"pageViews"`
}

func newAggregate() *Aggregate {
	return &Aggregate{
		WebVitals: map[string]*VitalStats{},
		Errors:    ErrorStats{Messages: []string{}},
		PageViews: map[string]int{},
	}
}

// CustomStats aggregates a custom metric within an hour.
type CustomStats struct {
	Count int     `json:"count"`
	Sum   float64 `json:"sum"`
}

// Collector records telemetry into a cache.Store.
type Collector struct {
	store  cache.Store
	logger zerolog.Logger
	now    func() time.Time
}

// Option configures a Collector.
type Option func(*Collector)

// WithClock overrides the clock used to select hourly buckets.
func WithClock(now func() time.Time) Option {
	return func(c *Collector) {
		c.now = now
	}
}

// NewCollector creates a collector over store. A nil store behaves like
// cache.NopStore.
func NewCollector(store cache.Store, logger zerolog.Logger, opts ...Option) *Collector {
	if store == nil {
		store = cache.NopStore{}
	}
	c := &Collector{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Collector) hour() int64 {
	return c.now().Unix() / 3600
}

// HourlyKey returns the bucket key for prefix at hour, an hour count since
// the Unix epoch.
func HourlyKey(prefix string, hour int64) string {
	return "analytics:" + prefix + ":" + strconv.FormatInt(hour, 10)
}

// load decodes key into v. It reports false when there is no stored value
// and no backend to store one.
func (c *Collector) load(ctx context.Context, key string, v any) (bool, error) {
	data, err := c.store.Get(ctx, key)
	switch {
	case errors.Is(err, cache.ErrUnavailable):
		return false, nil
	case errors.Is(err, cache.ErrNotFound):
		return true, nil
	case err != nil:
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		// Corrupt buckets are overwritten by the next save.
		c.logger.Warn().Err(err).Str("key", key).Msg("Discarding undecodable analytics bucket")
	}
	return true, nil
}

func (c *Collector) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := c.store.Set(ctx, key, data, RetentionTTL); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func timestamp(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// RecordWebVital adds a measurement to the current hour's vitals bucket and
// counts a page view.
func (c *Collector) RecordWebVital(ctx context.Context, v WebVital) error {
	c.logger.Info().
		Str("type", "web_vital").
		Str("metric", v.Name).
		Float64("value", v.Value).
		Str("rating", v.Rating).
		Str("page", v.Page).
		Str("country", v.Country).
		Time("timestamp", timestamp(v.Timestamp)).
		Msg("Web vital")
	Events.WithLabelValues("web_vital").Inc()

	key := HourlyKey("vitals", c.hour())
	agg := newAggregate()
	ok, err := c.load(ctx, key, agg)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to record web vital")
		return err
	}
	if !ok {
		return nil
	}
	agg.normalize()

	stats := agg.WebVitals[v.Name]
	if stats == nil {
		stats = &VitalStats{}
		agg.WebVitals[v.Name] = stats
	}
	stats.Count++
	stats.Sum += v.Value
	switch v.Rating {
	case RatingGood:
		stats.Good++
	case RatingNeedsImprovement:
		stats.NeedsImprovement++
	default:
		stats.Poor++
	}
	agg.PageViews[v.Page]++

	if err := c.save(ctx, key, agg); err != nil {
		c.logger.Error().Err(err).Msg("Failed to record web vital")
		return err
	}
	return nil
}

// RecordError counts a frontend error in the current hour's errors bucket.
// The stack is never logged.
func (c *Collector) RecordError(ctx context.Context, r ErrorReport) error {
	c.logger.Info().
		Str("type", "frontend_error").
		Str("message", r.Message).
		Str("page", r.Page).
		Str("country", r.Country).
		Time("timestamp", timestamp(r.Timestamp)).
		Bool("hasStack", r.Stack != "").
		Msg("Frontend error")
	Events.WithLabelValues("error").Inc()

	key := HourlyKey("errors", c.hour())
	agg := newAggregate()
	ok, err := c.load(ctx, key, agg)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to record error")
		return err
	}
	if !ok {
		return nil
	}
	agg.normalize()

	agg.Errors.Count++
	if len(agg.Errors.Messages) < MaxErrorMessages && !containsString(agg.Errors.Messages, r.Message) {
		agg.Errors.Messages = append(agg.Errors.Messages, r.Message)
	}

	if err := c.save(ctx, key, agg); err != nil {
		c.logger.Error().Err(err).Msg("Failed to record error")
		return err
	}
	return nil
}

// RecordCustomMetric adds a value to the current hour's bucket for m.Name.
func (c *Collector) RecordCustomMetric(ctx context.Context, m CustomMetric) error {
	c.logger.Info().
		Str("type", "custom_metric").
		Str("name", m.Name).
		Float64("value", m.Value).
		Interface("metadata", m.Metadata).
		Time("timestamp", timestamp(m.Timestamp)).
		Msg("Custom metric")
	Events.WithLabelValues("custom").Inc()

	key := HourlyKey("custom:"+m.Name, c.hour())
	var stats CustomStats
	ok, err := c.load(ctx, key, &stats)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to record custom metric")
		return err
	}
	if !ok {
		return nil
	}

	stats.Count++
	stats.Sum += m.Value

	if err := c.save(ctx, key, stats); err != nil {
		c.logger.Error().Err(err).Msg("Failed to record custom metric")
		return err
	}
	return nil
}

// Metrics returns the vitals buckets of the last hoursBack hours, newest
// first. Hours without data are skipped.
func (c *Collector) Metrics(ctx context.Context, hoursBack int) ([]Aggregate, error) {
	if hoursBack <= 0 {
		hoursBack = DefaultHoursBack
	}

	now := c.hour()
	var out []Aggregate
	for i := 0; i < hoursBack; i++ {
		key := HourlyKey("vitals", now-int64(i))
		data, err := c.store.Get(ctx, key)
		switch {
		case errors.Is(err, cache.ErrUnavailable):
			return nil, nil
		case errors.Is(err, cache.ErrNotFound):
			continue
		case err != nil:
			return nil, fmt.Errorf("load %s: %w", key, err)
		}

		agg := newAggregate()
		if err := json.Unmarshal(data, agg); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("Skipping undecodable analytics bucket")
			continue
		}
		agg.normalize()
		out = append(out, *agg)
	}
	return out, nil
}

// normalize restores maps a decoded bucket may have carried as null.
func (a *Aggregate) normalize() {
	if a.WebVitals == nil {
		a.WebVitals = map[string]*VitalStats{}
	}
	if a.PageViews == nil {
		a.PageViews = map[string]int{}
	}
	if a.Errors.Messages == nil {
		a.Errors.Messages = []string{}
	}
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
