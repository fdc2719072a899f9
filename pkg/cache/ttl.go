package cache

import "time"

const (
	StatsTTL     = time.Hour
	LanguagesTTL = 2 * time.Hour
	RepoTTL      = 30 * time.Minute

	// ErrorTTL bounds how long a failed render is remembered.
	ErrorTTL = 5 * time.Minute
)

// TTLFor returns the cache lifetime for a card type.
// Unknown types get StatsTTL.
func TTLFor(t CardType) time.Duration {
	switch t {
	case TypeLanguages:
		return LanguagesTTL
	case TypeRepo:
		return RepoTTL
	default:
		return StatsTTL
	}
}
