package api

import (
	"context"
	"net/http"
	"time"

	"github.com/paveg/devcard/pkg/cache"
)

const (
	contentTypeSVG    = "image/svg+xml"
	headerCacheStatus = "X-Cache-Status"

	cacheHit  = "HIT"
	cacheMiss = "MISS"
)

// serveCard answers from the card cache or runs produce and caches its
// output. A failed produce writes an error entry and answers 500.
//
// Concurrent misses for the same key each run produce; the last write wins.
// Cache writes outlive the request context.
func (s *Server) serveCard(w http.ResponseWriter, r *http.Request, t cache.CardType, produce func(context.Context) (string, error)) {
	ctx := r.Context()
	key := cache.Key{Type: t, Params: r.URL.Query()}
	ttl := cache.TTLFor(t)

	var svg string
	if err := s.cache.Get(ctx, key.String(), &svg); err == nil {
		writeSVG(w, svg, ttl, cacheHit)
		return
	}

	svg, err := produce(ctx)
	if err != nil {
		message := err.Error()
		if message == "" {
			message = "Unknown error"
		}
		s.cache.Set(context.WithoutCancel(ctx), key.ErrorKey(), message, cache.ErrorTTL)
		s.log(r).Warn().
			Err(err).
			Str("card", string(t)).
			Str("key", key.String()).
			Msg("Card generation failed")
		respondText(w, "Error: "+message, http.StatusInternalServerError)
		return
	}

	s.cache.Set(context.WithoutCancel(ctx), key.String(), svg, ttl)
	writeSVG(w, svg, ttl, cacheMiss)
}

func writeSVG(w http.ResponseWriter, svg string, ttl time.Duration, status string) {
	h := w.Header()
	h.Set("Content-Type", contentTypeSVG)
	cache.SetCacheHeaders(h, ttl)
	h.Set(headerCacheStatus, status)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(svg))
}
