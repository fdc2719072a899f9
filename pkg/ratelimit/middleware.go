package ratelimit

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// UnknownIP is the identity used when a request carries no client address.
const UnknownIP = "unknown"

type rejection struct {
	Error      string `json:"error"`
	Message    string `json:"message,omitempty"`
	RetryAfter int    `json:"retryAfter"`
}

// ClientIP returns the client address reported by the edge: CF-Connecting-IP,
// then the first X-Forwarded-For entry, else UnknownIP.
func ClientIP(r *http.Request) string {
	if ip := strings.TrimSpace(r.Header.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	return UnknownIP
}

// Middleware enforces the IP budget on every request and the username budget
// on requests carrying a username query parameter.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		ip, ipErr := l.Allow(ctx, l.ip, ClientIP(r))
		if ipErr != nil {
			l.failOpen(l.ip, ipErr)
		} else if !ip.Allowed {
			l.reject(w, ip, rejection{Error: "Rate limit exceeded"})
			return
		}

		if username := r.URL.Query().Get("username"); username != "" {
			user, err := l.Allow(ctx, l.user, username)
			if err != nil {
				l.failOpen(l.user, err)
			} else if !user.Allowed {
				l.reject(w, user, rejection{
					Error:   "Rate limit exceeded for this user",
					Message: "Too many requests for this GitHub user. Please try again later.",
				})
				return
			}
		}

		if ipErr == nil {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(ip.Rule.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(ip.Rule.Limit-ip.Count))
		}

		next.ServeHTTP(w, r)
	})
}

func (l *Limiter) failOpen(rule Rule, err error) {
	FailOpen.WithLabelValues(string(rule.Scope)).Inc()
	l.logger.Warn().Err(err).Str("scope", string(rule.Scope)).Msg("rate limit store unavailable, allowing request")
}

func (l *Limiter) reject(w http.ResponseWriter, d Decision, body rejection) {
	retryAfter := d.RetryAfter(l.now())
	body.RetryAfter = retryAfter

	Rejections.WithLabelValues(string(d.Rule.Scope)).Inc()
	l.logger.Info().
		Str("scope", string(d.Rule.Scope)).
		Int("limit", d.Rule.Limit).
		Time("reset_at", d.ResetAt).
		Msg("rate limit exceeded")

	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("X-RateLimit-Limit", strconv.Itoa(d.Rule.Limit))
	h.Set("X-RateLimit-Remaining", "0")
	h.Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.UnixMilli(), 10))
	h.Set("Retry-After", strconv.Itoa(retryAfter))
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(body)
}

// Rules returns the IP and username rules in effect.
func (l *Limiter) Rules() (ip, user Rule) {
	return l.ip, l.user
}

