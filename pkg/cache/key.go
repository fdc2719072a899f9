package cache

import (
	"net/url"
	"sort"
	"strings"
)

// CardType identifies the kind of card a cache entry belongs to.
type CardType string

const (
	TypeStats     CardType = "stats"
	TypeLanguages CardType = "languages"
	TypeRepo      CardType = "repo"
)

// Key identifies a cached card by its type and request parameters.
type Key struct {
	Type CardType

	// Params are the request query parameters. A name with no values is
	// treated as undefined and does not contribute to the key.
	Params url.Values
}

// String generates a deterministic cache key string.
// Format: devcard:<type>:<name>:<value>,<name>:<value>
//
// Names are sorted and only the first value of a repeated parameter is used.
// Names and values are query-escaped so separators inside a value cannot
// produce the key of a different parameter set.
//
// Example:
//
//	devcard:stats:theme:dark,username:octocat
func (k Key) String() string {
	names := make([]string, 0, len(k.Params))
	for name, values := range k.Params {
		if len(values) == 0 {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, url.QueryEscape(name)+":"+url.QueryEscape(k.Params[name][0]))
	}

	return "devcard:" + string(k.Type) + ":" + strings.Join(pairs, ",")
}

// ErrorKey returns the key under which a failed render of k is recorded.
func (k Key) ErrorKey() string {
	return k.String() + ":error"
}

// GenerateKey builds the cache key for a card type and parameter set.
func GenerateKey(t CardType, params url.Values) string {
	return Key{Type: t, Params: params}.String()
}
