package cache

import (
	"net/http"
	"testing"
	"time"
)

func TestEntry_IsExpired(t *testing.T) {
	written := time.UnixMilli(1_700_000_000_000)
	entry := &Entry{Timestamp: written.UnixMilli(), TTL: 60}

	tests := []struct {
		name    string
		now     time.Time
		expired bool
	}{
		{"just written", written, false},
		{"exactly at ttl", written.Add(60 * time.Second), false},
		{"one ms past ttl", written.Add(60*time.Second + time.Millisecond), true},
		{"long past", written.Add(time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := entry.IsExpired(tt.now); got != tt.expired {
				t.Errorf("IsExpired() = %v, want %v", got, tt.expired)
			}
		})
	}

	if got := entry.Expires(); !got.Equal(written.Add(60 * time.Second)) {
		t.Errorf("Expires() = %v, want %v", got, written.Add(60*time.Second))
	}
}

func TestSetCacheHeaders(t *testing.T) {
	h := http.Header{}
	SetCacheHeaders(h, RepoTTL)

	if got, want := h.Get("Cache-Control"), "public, max-age=1800, s-maxage=1800, stale-while-revalidate=86400"; got != want {
		t.Errorf("Cache-Control = %q, want %q", got, want)
	}
	if got, want := h.Get("CDN-Cache-Control"), "max-age=1800"; got != want {
		t.Errorf("CDN-Cache-Control = %q, want %q", got, want)
	}
}
