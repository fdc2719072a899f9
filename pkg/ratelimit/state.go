// Package ratelimit implements fixed-window request counters for the public
// card endpoints: one window per client IP and minute, and one per GitHub
// username and hour.
//
// Counters live in the shared cache.Store as JSON. Updates are a plain read
// followed by a write, so concurrent requests at a window boundary can
// overshoot a budget by the number of requests in flight. A missing or failing
// store disables limiting rather than rejecting traffic.
package ratelimit

import (
	"math"
	"strconv"
	"time"
)

// Scope names what a counter is keyed by.
type Scope string

const (
	ScopeIP   Scope = "ip"
	ScopeUser Scope = "user"
)

// Default budgets.
const (
	DefaultIPPerMinute = 30
	DefaultUserPerHour = 50
)

// Rule is a budget of Limit requests per Window for one scope.
type Rule struct {
	Scope  Scope
	Limit  int
	Window time.Duration
}

// IPPerMinute returns the per-client-IP rule.
func IPPerMinute(limit int) Rule {
	return Rule{Scope: ScopeIP, Limit: limit, Window: time.Minute}
}

// UserPerHour returns the per-username rule.
func UserPerHour(limit int) Rule {
	return Rule{Scope: ScopeUser, Limit: limit, Window: time.Hour}
}

// Key returns the counter key for identity in the window containing now.
// Format: ratelimit:<scope>:<identity>:<window number>
func (r Rule) Key(identity string, now time.Time) string {
	bucket := now.UnixMilli() / r.Window.Milliseconds()
	return "ratelimit:" + string(r.Scope) + ":" + identity + ":" + strconv.FormatInt(bucket, 10)
}

// WindowEnd returns the end of the window containing now.
func (r Rule) WindowEnd(now time.Time) time.Time {
	window := r.Window.Milliseconds()
	return time.UnixMilli((now.UnixMilli()/window + 1) * window)
}

// Counter is the stored state of one window.
type Counter struct {
	Count int `json:"count"`

	// ResetAt is when the window ends, in unix milliseconds.
	ResetAt int64 `json:"resetAt"`
}

// Decision is the outcome of checking one rule.
type Decision struct {
	Rule    Rule
	Allowed bool

	// Count is the window's count after this request was admitted, or the
	// count that caused the rejection.
	Count int

	ResetAt time.Time
}

// Remaining returns how many requests the window still admits.
func (d Decision) Remaining() int {
	if d.Count >= d.Rule.Limit {
		return 0
	}
	return d.Rule.Limit - d.Count
}

// RetryAfter returns the whole seconds until the window resets, rounded up.
func (d Decision) RetryAfter(now time.Time) int {
	ms := d.ResetAt.UnixMilli() - now.UnixMilli()
	return int(math.Ceil(float64(ms) / 1000))
}
