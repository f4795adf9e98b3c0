package controllers

import (
	"context"
	"time"

	json "github.com/goccy/go-json"

	"cvdd/internal/client"
	"cvdd/internal/models"
	"cvdd/internal/providers"
)

// --- local mocks (scoped to controller tests) ---

type mockLogger struct{}

func (m *mockLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Warnf(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *mockLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *mockLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Close()                                                  {}

type mockCache struct {
	data map[string][]byte
}

func newMockCache() *mockCache                     { return &mockCache{data: make(map[string][]byte)} }
func (m *mockCache) Get(key string) ([]byte, bool) { v, ok := m.data[key]; return v, ok }
func (m *mockCache) Set(key string, value []byte)  { m.data[key] = value }
func (m *mockCache) Del(key string)                { delete(m.data, key) }

type mockDataStore struct {
	profiles        map[string]*models.UserProfile
	predictions     []models.CVDPrediction
	results         []models.CVDResult
	questions       map[string]*models.TestQuestions
	offlineActions  []models.OfflineAction
	stats           models.StorageStats
	exportPayload   []byte
	cleanupRemoved  int
	saveProfileErr  error
	savePredErr     error
	saveResultErr   error
	saveActionErr   error
	clearAllCalled  bool
	clearQueueCalls int
}

func newMockDataStore() *mockDataStore {
	return &mockDataStore{
		profiles:  make(map[string]*models.UserProfile),
		questions: make(map[string]*models.TestQuestions),
	}
}

func (m *mockDataStore) SaveProfile(profile *models.UserProfile) error {
	if m.saveProfileErr != nil {
		return m.saveProfileErr
	}
	m.profiles[profile.UserID] = profile
	return nil
}

func (m *mockDataStore) GetProfile(userID string) *models.UserProfile {
	return m.profiles[userID]
}

func (m *mockDataStore) SavePrediction(prediction *models.CVDPrediction) error {
	if m.savePredErr != nil {
		return m.savePredErr
	}
	m.predictions = append([]models.CVDPrediction{*prediction}, m.predictions...)
	return nil
}

func (m *mockDataStore) GetUserPredictions(_ string) []models.CVDPrediction {
	return m.predictions
}

func (m *mockDataStore) GetLatestPrediction() *models.CVDPrediction {
	if len(m.predictions) == 0 {
		return nil
	}
	return &m.predictions[0]
}

func (m *mockDataStore) CacheApiData(_ string, _ any, _ time.Duration) error { return nil }
func (m *mockDataStore) GetCachedData(_ string) (json.RawMessage, bool)      { return nil, false }
func (m *mockDataStore) CleanupExpiredCache() int                            { return m.cleanupRemoved }

func (m *mockDataStore) SaveOfflineAction(action *models.OfflineAction) error {
	if m.saveActionErr != nil {
		return m.saveActionErr
	}
	m.offlineActions = append(m.offlineActions, *action)
	return nil
}

func (m *mockDataStore) GetOfflineActions() []models.OfflineAction { return m.offlineActions }

func (m *mockDataStore) ClearOfflineActions() {
	m.offlineActions = nil
	m.clearQueueCalls++
}

func (m *mockDataStore) SaveTestResult(result *models.CVDResult) error {
	if m.saveResultErr != nil {
		return m.saveResultErr
	}
	m.results = append(m.results, *result)
	return nil
}

func (m *mockDataStore) GetTestResults(_ string) []models.CVDResult { return m.results }

func (m *mockDataStore) GetLatestTestResult() *models.CVDResult {
	if len(m.results) == 0 {
		return nil
	}
	return &m.results[len(m.results)-1]
}

func (m *mockDataStore) SaveTestQuestions(questions *models.TestQuestions) error {
	m.questions[questions.TestID] = questions
	return nil
}

func (m *mockDataStore) GetTestQuestions(testID string) *models.TestQuestions {
	return m.questions[testID]
}

func (m *mockDataStore) SaveSetting(_ string, _ any) error    { return nil }
func (m *mockDataStore) GetSetting(_ string, _ any) bool      { return false }
func (m *mockDataStore) ExportAllData() ([]byte, error)       { return m.exportPayload, nil }
func (m *mockDataStore) GetStorageStats() models.StorageStats { return m.stats }

func (m *mockDataStore) ClearAllData() { m.clearAllCalled = true }

type mockBackend struct {
	profileErr     error
	questions      *models.TestQuestions
	questionsErr   error
	responseErr    error
	result         *models.CVDResult
	resultErr      error
	adaptive       *client.AdaptiveFilterResponse
	adaptiveErr    error
	prediction     *models.CVDPrediction
	predictionErr  error
	feedbackErr    error
	analytics      json.RawMessage
	analyticsErr   error
	createdProfile *models.UserProfile
}

func (m *mockBackend) Health(_ context.Context) (*client.HealthStatus, error) {
	return &client.HealthStatus{Status: "healthy"}, nil
}

func (m *mockBackend) CreateProfile(_ context.Context, profile *models.UserProfile) error {
	if m.profileErr != nil {
		return m.profileErr
	}
	m.createdProfile = profile
	return nil
}

func (m *mockBackend) GetProfile(_ context.Context, _ string) (*models.UserProfile, error) {
	return nil, nil
}

func (m *mockBackend) GetTestQuestions(_ context.Context, _ string, _ int) (*models.TestQuestions, error) {
	return m.questions, m.questionsErr
}

func (m *mockBackend) SubmitTestResponse(_ context.Context, _, _ string, _ bool) error {
	return m.responseErr
}

func (m *mockBackend) CompleteTest(_ context.Context, _ string) (*models.CVDResult, error) {
	return m.result, m.resultErr
}

func (m *mockBackend) GenerateFilter(_ context.Context, _ *models.CVDResult) (*models.FilterParams, error) {
	return nil, nil
}

func (m *mockBackend) GenerateAdaptiveFilterParams(_ context.Context, _ models.SeverityScores) (*client.AdaptiveFilterResponse, error) {
	return m.adaptive, m.adaptiveErr
}

func (m *mockBackend) PredictRisk(_ context.Context, _ *models.UserProfile, _ map[string]any) (*models.CVDPrediction, error) {
	return m.prediction, m.predictionErr
}

func (m *mockBackend) SubmitFeedback(_ context.Context, _ *models.FeedbackData) error {
	return m.feedbackErr
}

func (m *mockBackend) GetFeedbackAnalytics(_ context.Context, _, _ string) (json.RawMessage, error) {
	return m.analytics, m.analyticsErr
}

type mockProducer struct {
	feedbackEvents []*models.FeedbackData
	testEvents     []*models.CVDResult
	publishErr     error
}

func (m *mockProducer) PublishFeedback(_ context.Context, feedback *models.FeedbackData) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.feedbackEvents = append(m.feedbackEvents, feedback)
	return nil
}

func (m *mockProducer) PublishTestCompleted(_ context.Context, result *models.CVDResult) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.testEvents = append(m.testEvents, result)
	return nil
}

func (m *mockProducer) Close() error { return nil }
