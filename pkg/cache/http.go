package cache

import (
	"net/http"
	"strconv"
	"time"
)

// StaleWhileRevalidate is how long shared caches may serve a stale card
// while revalidating it.
const StaleWhileRevalidate = 24 * time.Hour

// SetCacheHeaders sets the browser and CDN caching headers for a response
// that is fresh for ttl.
func SetCacheHeaders(h http.Header, ttl time.Duration) {
	maxAge := strconv.Itoa(int(ttl / time.Second))
	swr := strconv.Itoa(int(StaleWhileRevalidate / time.Second))

	h.Set("Cache-Control", "public, max-age="+maxAge+", s-maxage="+maxAge+", stale-while-revalidate="+swr)
	h.Set("CDN-Cache-Control", "max-age="+maxAge)
}
