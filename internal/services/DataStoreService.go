package services

import (
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"cvdd/internal/models"
	"cvdd/internal/providers"
	"cvdd/internal/storage"
	"cvdd/internal/structures"
)

// Key namespace of the on-device store. These names are part of the
// persisted format and must stay stable across releases.
const (
	KeyCurrentProfile   = "current_user_profile"
	KeyLatestPrediction = "latest_prediction"
	KeyOfflineActions   = "offline_actions"
	KeyLatestResults    = "latestTestResults"
	KeyLegacyResults    = "cvdTestResults"

	PrefixProfile     = "user_profile_"
	PrefixPredictions = "predictions_"
	PrefixPrediction  = "prediction_"
	PrefixCache       = "cache_"
	PrefixSetting     = "setting_"
	PrefixResults     = "cvd_results_"
	PrefixQuestions   = "testQuestions_"
)

const defaultCacheTTL = 24 * time.Hour

// StorageWriteError wraps a failed persistence write. Write failures
// always surface to the caller; read failures never do.
type StorageWriteError struct {
	Key string
	Err error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("storage write for key %q failed: %s", e.Key, e.Err)
}

func (e *StorageWriteError) Unwrap() error {
	return e.Err
}

type DataStoreServiceInterface interface {
	SaveProfile(profile *models.UserProfile) error
	GetProfile(userID string) *models.UserProfile
	SavePrediction(prediction *models.CVDPrediction) error
	GetUserPredictions(userID string) []models.CVDPrediction
	GetLatestPrediction() *models.CVDPrediction
	CacheApiData(key string, data any, ttl time.Duration) error
	GetCachedData(key string) (json.RawMessage, bool)
	CleanupExpiredCache() int
	SaveOfflineAction(action *models.OfflineAction) error
	GetOfflineActions() []models.OfflineAction
	ClearOfflineActions()
	SaveTestResult(result *models.CVDResult) error
	GetTestResults(userID string) []models.CVDResult
	GetLatestTestResult() *models.CVDResult
	SaveTestQuestions(questions *models.TestQuestions) error
	GetTestQuestions(testID string) *models.TestQuestions
	SaveSetting(key string, value any) error
	GetSetting(key string, dst any) bool
	ExportAllData() ([]byte, error)
	GetStorageStats() models.StorageStats
	ClearAllData()
}

// DataStoreService owns the flat key-value namespace: typed JSON CRUD,
// time-boxed caching with lazy expiration and the offline action queue.
// Reads degrade to "absent" on any parse or access error; writes
// propagate the underlying store's error unchanged.
type DataStoreService struct {
	store   storage.KeyValueStore
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	conf    *structures.Config
	now     func() time.Time
}

func NewDataStoreService(conf *structures.Config, store storage.KeyValueStore, logger providers.Logger, metrics providers.MetricsProviderInterface) DataStoreServiceInterface {
	return &DataStoreService{
		store:   store,
		logger:  logger,
		metrics: metrics,
		conf:    conf,
		now:     time.Now,
	}
}

func (ds *DataStoreService) setJSON(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		ds.metrics.IncStoreWriteErrors()
		return &StorageWriteError{Key: key, Err: err}
	}
	if err := ds.store.Set(key, string(data)); err != nil {
		ds.metrics.IncStoreWriteErrors()
		return &StorageWriteError{Key: key, Err: err}
	}
	ds.metrics.IncStoreWrites()
	ds.metrics.SetStoreKeys(len(ds.store.Keys()))
	return nil
}

// getJSON reads and decodes a key. A missing key or a value that fails
// to parse both count as "absent" and are logged, never raised.
func (ds *DataStoreService) getJSON(key string, dst any) bool {
	raw, ok := ds.store.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		ds.logger.Warnf(providers.TypeStore, "Discarding unparseable value at key %s: %s", key, err)
		return false
	}
	return true
}

func (ds *DataStoreService) timestamp() string {
	return ds.now().Format(time.RFC3339)
}

// newID derives a unique identifier from the current time plus a random
// suffix, collision-free within a single device's lifetime.
func (ds *DataStoreService) newID() string {
	return fmt.Sprintf("%d_%s", ds.now().UnixMilli(), uuid.NewString()[:8])
}

func (ds *DataStoreService) SaveProfile(profile *models.UserProfile) error {
	profile.UpdatedAt = ds.timestamp()
	if err := ds.setJSON(PrefixProfile+profile.UserID, profile); err != nil {
		return err
	}
	return ds.setJSON(KeyCurrentProfile, profile)
}

func (ds *DataStoreService) GetProfile(userID string) *models.UserProfile {
	key := KeyCurrentProfile
	if userID != "" {
		key = PrefixProfile + userID
	}
	var profile models.UserProfile
	if !ds.getJSON(key, &profile) {
		return nil
	}
	return &profile
}

// SavePrediction performs three writes: the individual record, a
// prepend to the per-user list and the "latest" singleton. The record
// write is best-effort; list and singleton failures propagate. The keys
// are independent, so a repeated identical call converges.
func (ds *DataStoreService) SavePrediction(prediction *models.CVDPrediction) error {
	prediction.PredictionID = ds.newID()
	prediction.SavedAt = ds.timestamp()

	if err := ds.setJSON(PrefixPrediction+prediction.PredictionID, prediction); err != nil {
		ds.logger.Errorf(providers.TypeStore, "Skipping individual prediction record: %s", err)
	}

	list := ds.GetUserPredictions(prediction.UserID)
	list = append([]models.CVDPrediction{*prediction}, list...)
	if err := ds.setJSON(PrefixPredictions+prediction.UserID, list); err != nil {
		return err
	}

	return ds.setJSON(KeyLatestPrediction, prediction)
}

func (ds *DataStoreService) GetUserPredictions(userID string) []models.CVDPrediction {
	var list []models.CVDPrediction
	if !ds.getJSON(PrefixPredictions+userID, &list) {
		return []models.CVDPrediction{}
	}
	return list
}

func (ds *DataStoreService) GetLatestPrediction() *models.CVDPrediction {
	var prediction models.CVDPrediction
	if !ds.getJSON(KeyLatestPrediction, &prediction) {
		return nil
	}
	return &prediction
}

func (ds *DataStoreService) CacheApiData(key string, data any, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = ds.conf.Store.DefaultCacheTTL
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	raw, err := json.Marshal(data)
	if err != nil {
		ds.metrics.IncStoreWriteErrors()
		return &StorageWriteError{Key: PrefixCache + key, Err: err}
	}
	entry := models.CacheEntry{
		Data:       raw,
		Timestamp:  ds.now(),
		Expiration: ds.now().Add(ttl),
	}
	return ds.setJSON(PrefixCache+key, &entry)
}

// GetCachedData enforces expiration lazily: a stale read deletes the
// entry and reports a miss.
func (ds *DataStoreService) GetCachedData(key string) (json.RawMessage, bool) {
	var entry models.CacheEntry
	if !ds.getJSON(PrefixCache+key, &entry) {
		return nil, false
	}
	if entry.Expired(ds.now()) {
		ds.store.Delete(PrefixCache + key)
		ds.metrics.IncCacheExpirations()
		return nil, false
	}
	return entry.Data, true
}

// CleanupExpiredCache is the explicit bulk pass over the cache
// namespace. There is no background sweep; callers opt in.
func (ds *DataStoreService) CleanupExpiredCache() int {
	removed := 0
	for _, key := range ds.store.Keys() {
		if !strings.HasPrefix(key, PrefixCache) {
			continue
		}
		var entry models.CacheEntry
		if !ds.getJSON(key, &entry) || entry.Expired(ds.now()) {
			ds.store.Delete(key)
			ds.metrics.IncCacheExpirations()
			removed++
		}
	}
	if removed > 0 {
		ds.metrics.SetStoreKeys(len(ds.store.Keys()))
	}
	return removed
}

func (ds *DataStoreService) SaveOfflineAction(action *models.OfflineAction) error {
	if action.ID == "" {
		action.ID = ds.newID()
	}
	if action.Timestamp == "" {
		action.Timestamp = ds.timestamp()
	}

	queue := ds.GetOfflineActions()
	queue = append(queue, *action)
	if err := ds.setJSON(KeyOfflineActions, queue); err != nil {
		return err
	}
	ds.metrics.SetOfflineActions(len(queue))
	return nil
}

func (ds *DataStoreService) GetOfflineActions() []models.OfflineAction {
	var queue []models.OfflineAction
	if !ds.getJSON(KeyOfflineActions, &queue) {
		return []models.OfflineAction{}
	}
	return queue
}

func (ds *DataStoreService) ClearOfflineActions() {
	ds.store.Delete(KeyOfflineActions)
	ds.metrics.SetOfflineActions(0)
}

func (ds *DataStoreService) SaveTestResult(result *models.CVDResult) error {
	if result.Timestamp == "" {
		result.Timestamp = ds.timestamp()
	}

	history := ds.GetTestResults(result.UserID)
	history = append(history, *result)
	if err := ds.setJSON(PrefixResults+result.UserID, history); err != nil {
		return err
	}
	return ds.setJSON(KeyLatestResults, result)
}

// GetTestResults reads the per-user history. When the per-user key is
// absent, the legacy flat list is consulted once as an import source
// and the matching entries are migrated to the per-user layout.
func (ds *DataStoreService) GetTestResults(userID string) []models.CVDResult {
	var history []models.CVDResult
	if ds.getJSON(PrefixResults+userID, &history) {
		return history
	}
	if !ds.conf.Store.LegacyImport {
		return []models.CVDResult{}
	}

	var legacy []models.CVDResult
	if !ds.getJSON(KeyLegacyResults, &legacy) {
		return []models.CVDResult{}
	}
	imported := make([]models.CVDResult, 0)
	for _, r := range legacy {
		if r.UserID == userID {
			imported = append(imported, r)
		}
	}
	if len(imported) == 0 {
		return []models.CVDResult{}
	}
	if err := ds.setJSON(PrefixResults+userID, imported); err != nil {
		ds.logger.Errorf(providers.TypeStore, "Legacy history import failed: %s", err)
	} else {
		ds.logger.Infof(providers.TypeStore, "Imported %d legacy test results for user %s", len(imported), userID)
	}
	return imported
}

func (ds *DataStoreService) GetLatestTestResult() *models.CVDResult {
	var result models.CVDResult
	if !ds.getJSON(KeyLatestResults, &result) {
		return nil
	}
	return &result
}

func (ds *DataStoreService) SaveTestQuestions(questions *models.TestQuestions) error {
	return ds.setJSON(PrefixQuestions+questions.TestID, questions)
}

func (ds *DataStoreService) GetTestQuestions(testID string) *models.TestQuestions {
	var questions models.TestQuestions
	if !ds.getJSON(PrefixQuestions+testID, &questions) {
		return nil
	}
	return &questions
}

func (ds *DataStoreService) SaveSetting(key string, value any) error {
	return ds.setJSON(PrefixSetting+key, value)
}

// GetSetting decodes a setting into dst and reports whether it was
// found; on a miss or parse failure dst is untouched, so callers keep
// their preloaded default.
func (ds *DataStoreService) GetSetting(key string, dst any) bool {
	return ds.getJSON(PrefixSetting+key, dst)
}

// ExportAllData returns one JSON document with the full, unfiltered
// key→value map. Values that fail to parse export as null.
func (ds *DataStoreService) ExportAllData() ([]byte, error) {
	export := struct {
		ExportTimestamp string                     `json:"export_timestamp"`
		AppVersion      string                     `json:"app_version"`
		Data            map[string]json.RawMessage `json:"data"`
	}{
		ExportTimestamp: ds.timestamp(),
		AppVersion:      ds.conf.Version,
		Data:            make(map[string]json.RawMessage),
	}

	for _, key := range ds.store.Keys() {
		raw, ok := ds.store.Get(key)
		if !ok {
			continue
		}
		if json.Valid([]byte(raw)) {
			export.Data[key] = json.RawMessage(raw)
		} else {
			export.Data[key] = json.RawMessage("null")
		}
	}

	return json.Marshal(export)
}

func (ds *DataStoreService) GetStorageStats() models.StorageStats {
	stats := models.StorageStats{}
	for _, key := range ds.store.Keys() {
		raw, ok := ds.store.Get(key)
		if !ok {
			continue
		}
		stats.TotalKeys++
		stats.TotalBytes += len(raw)

		switch {
		case key == KeyCurrentProfile || strings.HasPrefix(key, PrefixProfile):
			stats.Profiles++
		case key == KeyLatestPrediction ||
			strings.HasPrefix(key, PrefixPrediction) ||
			strings.HasPrefix(key, PrefixPredictions):
			stats.Predictions++
		case strings.HasPrefix(key, PrefixCache):
			stats.CacheEntries++
		case key == KeyLatestResults || key == KeyLegacyResults || strings.HasPrefix(key, PrefixResults):
			stats.TestResults++
		case strings.HasPrefix(key, PrefixSetting):
			stats.Settings++
		default:
			stats.Other++
		}
	}
	return stats
}

// ClearAllData erases the whole namespace. Irreversible.
func (ds *DataStoreService) ClearAllData() {
	ds.store.Clear()
	ds.metrics.SetStoreKeys(0)
	ds.metrics.SetOfflineActions(0)
	ds.logger.Warnf(providers.TypeStore, "Cleared all on-device data")
}
