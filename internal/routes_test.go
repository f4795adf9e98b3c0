package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cvdd/internal/client"
	"cvdd/internal/controllers"
	"cvdd/internal/models"
	"cvdd/internal/providers"
	"cvdd/internal/services"
)

// --- minimal mocks for routes test ---

type routeTestLogger struct{}

func (m *routeTestLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *routeTestLogger) Warnf(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *routeTestLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *routeTestLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *routeTestLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *routeTestLogger) Close()                                                  {}

type routeTestCache struct{}

func (m *routeTestCache) Get(_ string) ([]byte, bool) { return nil, false }
func (m *routeTestCache) Set(_ string, _ []byte)      {}
func (m *routeTestCache) Del(_ string)                {}

type routeTestStore struct{}

func (m *routeTestStore) SaveProfile(_ *models.UserProfile) error             { return nil }
func (m *routeTestStore) GetProfile(_ string) *models.UserProfile             { return nil }
func (m *routeTestStore) SavePrediction(_ *models.CVDPrediction) error        { return nil }
func (m *routeTestStore) GetUserPredictions(_ string) []models.CVDPrediction  { return nil }
func (m *routeTestStore) GetLatestPrediction() *models.CVDPrediction          { return nil }
func (m *routeTestStore) CacheApiData(_ string, _ any, _ time.Duration) error { return nil }
func (m *routeTestStore) GetCachedData(_ string) (json.RawMessage, bool)      { return nil, false }
func (m *routeTestStore) CleanupExpiredCache() int                            { return 0 }
func (m *routeTestStore) SaveOfflineAction(_ *models.OfflineAction) error     { return nil }
func (m *routeTestStore) GetOfflineActions() []models.OfflineAction           { return nil }
func (m *routeTestStore) ClearOfflineActions()                                {}
func (m *routeTestStore) SaveTestResult(_ *models.CVDResult) error            { return nil }
func (m *routeTestStore) GetTestResults(_ string) []models.CVDResult          { return nil }
func (m *routeTestStore) GetLatestTestResult() *models.CVDResult              { return nil }
func (m *routeTestStore) SaveTestQuestions(_ *models.TestQuestions) error     { return nil }
func (m *routeTestStore) GetTestQuestions(_ string) *models.TestQuestions     { return nil }
func (m *routeTestStore) SaveSetting(_ string, _ any) error                   { return nil }
func (m *routeTestStore) GetSetting(_ string, _ any) bool                     { return false }
func (m *routeTestStore) ExportAllData() ([]byte, error)                      { return []byte("{}"), nil }
func (m *routeTestStore) GetStorageStats() models.StorageStats                { return models.StorageStats{} }
func (m *routeTestStore) ClearAllData()                                       {}

type routeTestBackend struct{}

func (m *routeTestBackend) Health(_ context.Context) (*client.HealthStatus, error) {
	return &client.HealthStatus{}, nil
}

func (m *routeTestBackend) CreateProfile(_ context.Context, _ *models.UserProfile) error { return nil }

func (m *routeTestBackend) GetProfile(_ context.Context, _ string) (*models.UserProfile, error) {
	return nil, nil
}

func (m *routeTestBackend) GetTestQuestions(_ context.Context, _ string, _ int) (*models.TestQuestions, error) {
	return &models.TestQuestions{}, nil
}

func (m *routeTestBackend) SubmitTestResponse(_ context.Context, _, _ string, _ bool) error {
	return nil
}

func (m *routeTestBackend) CompleteTest(_ context.Context, _ string) (*models.CVDResult, error) {
	return &models.CVDResult{}, nil
}

func (m *routeTestBackend) GenerateFilter(_ context.Context, _ *models.CVDResult) (*models.FilterParams, error) {
	return nil, nil
}

func (m *routeTestBackend) GenerateAdaptiveFilterParams(_ context.Context, _ models.SeverityScores) (*client.AdaptiveFilterResponse, error) {
	return &client.AdaptiveFilterResponse{}, nil
}

func (m *routeTestBackend) PredictRisk(_ context.Context, _ *models.UserProfile, _ map[string]any) (*models.CVDPrediction, error) {
	return &models.CVDPrediction{}, nil
}

func (m *routeTestBackend) SubmitFeedback(_ context.Context, _ *models.FeedbackData) error {
	return nil
}

func (m *routeTestBackend) GetFeedbackAnalytics(_ context.Context, _, _ string) (json.RawMessage, error) {
	return json.RawMessage("{}"), nil
}

type routeTestProducer struct{}

func (m *routeTestProducer) PublishFeedback(_ context.Context, _ *models.FeedbackData) error {
	return nil
}

func (m *routeTestProducer) PublishTestCompleted(_ context.Context, _ *models.CVDResult) error {
	return nil
}

func (m *routeTestProducer) Close() error { return nil }

func testRouter() providers.RouterProviderInterface {
	logger := &routeTestLogger{}
	store := &routeTestStore{}
	backend := &routeTestBackend{}
	cache := &routeTestCache{}

	sc := controllers.NewStoreController(logger, store, backend, cache)
	tc := controllers.NewTestController(logger, store, backend, &routeTestProducer{})
	fc := controllers.NewFilterController(logger, services.NewFilterService(), backend, cache)
	return InitRoutes(sc, tc, fc)
}

func TestInitRoutes_RegistersAllRoutes(t *testing.T) {
	routes := testRouter().GetRoutes()

	require.Len(t, routes, 20)

	urls := make([]string, len(routes))
	for i, r := range routes {
		urls[i] = r.Url
	}

	for _, expected := range []string{
		"/profile",
		"/predict",
		"/predictions",
		"/predictions/latest",
		"/test/start",
		"/test/response",
		"/test/complete",
		"/results",
		"/results/latest",
		"/filter/effects",
		"/filter/presets",
		"/feedback",
		"/feedback/analytics",
		"/analytics/storage",
		"/export",
		"/maintenance/cache-cleanup",
		"/maintenance/reset",
		"/sync/queue",
		"/sync/clear",
	} {
		assert.Contains(t, urls, expected)
	}
}

func TestInitRoutes_BuildMux(t *testing.T) {
	router := testRouter()

	var mux *http.ServeMux
	require.NotPanics(t, func() { mux = router.BuildMux() })

	body := strings.NewReader(`{"user_id":"u1","name":"Dana"}`)
	post := httptest.NewRequest(http.MethodPost, "/profile", body)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, post)
	assert.Equal(t, http.StatusCreated, rr.Code)

	get := httptest.NewRequest(http.MethodGet, "/profile?user_id=u1", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, get)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestInitRoutes_MethodEnforcement(t *testing.T) {
	mux := testRouter().BuildMux()

	req := httptest.NewRequest(http.MethodGet, "/filter/effects", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
