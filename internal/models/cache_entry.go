package models

import (
	"time"

	json "github.com/goccy/go-json"
)

// CacheEntry wraps a cached API payload together with its lifetime.
// Invariant: Expiration is after Timestamp. Expiration is enforced
// lazily on read, not by a background sweep.
type CacheEntry struct {
	Data       json.RawMessage `json:"data"`
	Timestamp  time.Time       `json:"timestamp"`
	Expiration time.Time       `json:"expiration"`
}

// Expired reports whether the entry is stale at the given instant.
func (e *CacheEntry) Expired(now time.Time) bool {
	return now.After(e.Expiration)
}
