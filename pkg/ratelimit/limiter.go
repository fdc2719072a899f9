package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/paveg/devcard/pkg/cache"
	"github.com/rs/zerolog"
)

// Limiter checks and advances fixed-window counters in a cache.Store.
type Limiter struct {
	store  cache.Store
	logger zerolog.Logger
	ip     Rule
	user   Rule
	now    func() time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithIPLimit sets the per-IP budget per minute.
func WithIPLimit(limit int) Option {
	return func(l *Limiter) {
		l.ip = IPPerMinute(limit)
	}
}

// WithUserLimit sets the per-username budget per hour.
func WithUserLimit(limit int) Option {
	return func(l *Limiter) {
		l.user = UserPerHour(limit)
	}
}

// WithClock overrides the clock used to pick windows.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// NewLimiter creates a limiter over store with the default budgets.
func NewLimiter(store cache.Store, logger zerolog.Logger, opts ...Option) *Limiter {
	if store == nil {
		store = cache.NopStore{}
	}
	l := &Limiter{
		store:  store,
		logger: logger,
		ip:     IPPerMinute(DefaultIPPerMinute),
		user:   UserPerHour(DefaultUserPerHour),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow checks rule for identity and, if the window has budget left,
// records the request. A rejected request does not advance the counter.
//
// Store failures are returned so the caller can decide to fail open.
func (l *Limiter) Allow(ctx context.Context, rule Rule, identity string) (Decision, error) {
	now := l.now()
	key := rule.Key(identity, now)
	resetAt := rule.WindowEnd(now)

	var counter Counter
	data, err := l.store.Get(ctx, key)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &counter); err != nil {
			l.logger.Warn().Err(err).Str("key", key).Msg("rate limit counter corrupt, restarting window")
			counter = Counter{}
		}
	case errors.Is(err, cache.ErrNotFound):
	default:
		return Decision{Rule: rule, Allowed: true}, fmt.Errorf("read counter: %w", err)
	}

	if counter.Count >= rule.Limit {
		if counter.ResetAt > 0 {
			resetAt = time.UnixMilli(counter.ResetAt)
		}
		return Decision{Rule: rule, Allowed: false, Count: counter.Count, ResetAt: resetAt}, nil
	}

	next := Counter{Count: counter.Count + 1, ResetAt: resetAt.UnixMilli()}
	data, err = json.Marshal(next)
	if err != nil {
		return Decision{Rule: rule, Allowed: true}, fmt.Errorf("encode counter: %w", err)
	}
	if err := l.store.Set(ctx, key, data, rule.Window); err != nil {
		return Decision{Rule: rule, Allowed: true}, fmt.Errorf("write counter: %w", err)
	}

	l.logger.Debug().
		Str("scope", string(rule.Scope)).
		Str("identity", identity).
		Int("count", next.Count).
		Int("limit", rule.Limit).
		Msg("rate limit counted")

	return Decision{Rule: rule, Allowed: true, Count: next.Count, ResetAt: resetAt}, nil
}
