package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// ErrCacheMiss indicates the requested key has no valid entry.
var ErrCacheMiss = errors.New("cache miss")

// Manager stores enveloped values in a Store.
//
// Manager is best-effort: store failures and corrupt entries are logged and
// reported as misses, and writes never fail the caller.
type Manager struct {
	store  Store
	logger zerolog.Logger
	now    func() time.Time
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithClock overrides the clock used to stamp and validate entries.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a cache manager over store.
// A nil store behaves like NopStore.
func NewManager(store Store, logger zerolog.Logger, opts ...ManagerOption) *Manager {
	if store == nil {
		store = NopStore{}
	}
	m := &Manager{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get decodes the value stored under key into v.
// Returns ErrCacheMiss if the key is absent, stale, undecodable or the store
// failed.
func (m *Manager) Get(ctx context.Context, key string, v any) error {
	data, err := m.store.Get(ctx, key)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			CacheMisses.WithLabelValues("absent").Inc()
		case errors.Is(err, ErrUnavailable):
			CacheMisses.WithLabelValues("unavailable").Inc()
		default:
			CacheMisses.WithLabelValues("error").Inc()
			CacheErrors.WithLabelValues("get").Inc()
			m.logger.Warn().Err(err).Str("key", key).Msg("cache get failed")
		}
		return ErrCacheMiss
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		CacheMisses.WithLabelValues("decode").Inc()
		m.logger.Warn().Err(err).Str("key", key).Msg("cache entry corrupt")
		return ErrCacheMiss
	}

	if entry.IsExpired(m.now()) {
		CacheMisses.WithLabelValues("stale").Inc()
		if err := m.store.Delete(ctx, key); err != nil {
			CacheErrors.WithLabelValues("delete").Inc()
			m.logger.Warn().Err(err).Str("key", key).Msg("cache delete of stale entry failed")
		}
		return ErrCacheMiss
	}

	if err := json.Unmarshal(entry.Value, v); err != nil {
		CacheMisses.WithLabelValues("decode").Inc()
		m.logger.Warn().Err(err).Str("key", key).Msg("cache value corrupt")
		return ErrCacheMiss
	}

	CacheHits.Inc()
	m.logger.Debug().Str("key", key).Msg("cache hit")
	return nil
}

// Set stores v under key for ttl. A non-positive ttl falls back to StatsTTL.
// Failures are logged and swallowed.
func (m *Manager) Set(ctx context.Context, key string, v any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = StatsTTL
	}

	value, err := json.Marshal(v)
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		m.logger.Warn().Err(err).Str("key", key).Msg("cache value not encodable")
		return
	}

	data, err := json.Marshal(Entry{
		Value:     value,
		Timestamp: m.now().UnixMilli(),
		TTL:       int(ttl / time.Second),
	})
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		m.logger.Warn().Err(err).Str("key", key).Msg("cache entry not encodable")
		return
	}

	if err := m.store.Set(ctx, key, data, ttl); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		m.logger.Warn().Err(err).Str("key", key).Msg("cache set failed")
		return
	}

	CacheWrittenBytes.Add(float64(len(data)))
	m.logger.Debug().Str("key", key).Dur("ttl", ttl).Msg("cache set")
}

// Delete removes the entry stored under key.
func (m *Manager) Delete(ctx context.Context, key string) error {
	if err := m.store.Delete(ctx, key); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		return err
	}
	return nil
}
