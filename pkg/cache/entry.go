package cache

import (
	"encoding/json"
	"time"
)

// Entry is the envelope stored for every cached value.
type Entry struct {
	// Value is the JSON encoding of the cached value.
	Value json.RawMessage `json:"value"`

	// Timestamp is when the entry was written, in unix milliseconds.
	Timestamp int64 `json:"timestamp"`

	// TTL is the lifetime the entry was written with, in seconds.
	TTL int `json:"ttl"`
}

// IsExpired reports whether the entry is stale at now.
func (e *Entry) IsExpired(now time.Time) bool {
	return now.UnixMilli()-e.Timestamp > int64(e.TTL)*1000
}

// Expires returns the instant after which the entry is stale.
func (e *Entry) Expires() time.Time {
	return time.UnixMilli(e.Timestamp + int64(e.TTL)*1000)
}
