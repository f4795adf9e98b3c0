package models

import (
	json "github.com/goccy/go-json"
)

// OfflineAction is a queued, not-yet-synced mutation. The queue is
// append-only; a consumer reads and clears it as a whole unit and must
// tolerate re-processing after a crash between read and clear.
type OfflineAction struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp string          `json:"timestamp"`
}
