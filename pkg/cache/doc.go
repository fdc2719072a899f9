// Package cache provides the card cache: deterministic key construction,
// per-card-type TTL policy and a best-effort envelope store over Redis,
// an in-process memory cache or nothing at all.
//
// The Manager never surfaces store failures to callers. A broken or absent
// backend degrades to an always-miss cache, so card rendering keeps working
// when the store does not.
//
// # Basic Usage
//
//	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	manager := cache.NewManager(cache.NewRedisStore(rdb), logger)
//
//	key := cache.Key{
//		Type:   cache.TypeStats,
//		Params: url.Values{"username": []string{"octocat"}},
//	}
//
//	var svg string
//	if err := manager.Get(ctx, key.String(), &svg); err == cache.ErrCacheMiss {
//		svg = render()
//		manager.Set(ctx, key.String(), svg, cache.TTLFor(key.Type))
//	}
//
// # Entry Format
//
// Values are wrapped in an envelope recording when they were written and the
// TTL they were written with:
//
//	{"value": <json>, "timestamp": <unix millis>, "ttl": <seconds>}
//
// An entry is valid while now - timestamp <= ttl*1000, independent of the
// backend's own expiry. Stale entries are deleted on read.
//
// # Metrics
//
//   - devcard_cache_hits_total - Cache hits
//   - devcard_cache_misses_total{reason} - Misses by reason (absent, stale, decode, unavailable, error)
//   - devcard_cache_errors_total{operation} - Store failures by operation
//   - devcard_cache_written_bytes_total - Envelope bytes written
package cache
