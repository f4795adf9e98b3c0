package models

import "time"

// SnapshotVersion is the current on-disk envelope version.
const SnapshotVersion = 2

// Snapshot is the V2 persistence envelope for the key-value namespace:
// an explicit version field plus the flat key→value map. V1 files are a
// bare map without the envelope and are migrated on load.
type Snapshot struct {
	Version int               `json:"version"`
	SavedAt time.Time         `json:"saved_at"`
	Entries map[string]string `json:"entries"`
}

// StorageStats is the approximate usage summary of the namespace: key
// counts bucketed by prefix plus the summed value sizes in bytes.
type StorageStats struct {
	TotalKeys    int `json:"total_keys"`
	TotalBytes   int `json:"total_bytes"`
	Profiles     int `json:"profiles"`
	Predictions  int `json:"predictions"`
	CacheEntries int `json:"cache_entries"`
	TestResults  int `json:"test_results"`
	Settings     int `json:"settings"`
	Other        int `json:"other"`
}
