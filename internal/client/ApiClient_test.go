package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cvdd/internal/models"
	"cvdd/internal/structures"
	"cvdd/internal/testutil"
)

func newTestClient(baseURL string) (*ApiClient, *testutil.MockMetrics) {
	metrics := &testutil.MockMetrics{}
	conf := &structures.Config{
		Backend: structures.BackendConfig{
			BaseURL: baseURL,
			Timeout: 2 * time.Second,
		},
	}
	ac := NewApiClient(conf, &testutil.MockLogger{}, metrics).(*ApiClient)
	return ac, metrics
}

func TestHealth_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/health", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"status":"healthy","version":"2.0.0"}`)
	}))
	defer srv.Close()

	ac, metrics := newTestClient(srv.URL)
	status, err := ac.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "2.0.0", status.Version)
	assert.Equal(t, 1, metrics.BackendRequests)
	assert.Zero(t, metrics.BackendFailures)
}

func TestCreateProfile_PostsJSONBody(t *testing.T) {
	var received models.UserProfile
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/users/profile", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	ac, _ := newTestClient(srv.URL)
	err := ac.CreateProfile(context.Background(), &models.UserProfile{UserID: "u1", Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "u1", received.UserID)
}

func TestGetProfile_EscapesUserID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users/profile/u%201", r.URL.EscapedPath())
		io.WriteString(w, `{"user_id":"u 1","name":"Ada"}`)
	}))
	defer srv.Close()

	ac, _ := newTestClient(srv.URL)
	profile, err := ac.GetProfile(context.Background(), "u 1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.Name)
}

func TestGetTestQuestions_RequestShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ishihara", req["test_type"])
		assert.EqualValues(t, 10, req["count"])
		io.WriteString(w, `{"test_id":"t1","test_type":"ishihara","questions":[{"question_id":"q1"}]}`)
	}))
	defer srv.Close()

	ac, _ := newTestClient(srv.URL)
	questions, err := ac.GetTestQuestions(context.Background(), "ishihara", 10)
	require.NoError(t, err)
	assert.Equal(t, "t1", questions.TestID)
	require.Len(t, questions.Questions, 1)
}

func TestCompleteTest_DecodesResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/color-test/complete/t1", r.URL.Path)
		io.WriteString(w, `{"test_id":"t1","user_id":"u1","protanopia":0.6,"overall_severity":"moderate"}`)
	}))
	defer srv.Close()

	ac, _ := newTestClient(srv.URL)
	result, err := ac.CompleteTest(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "moderate", result.OverallSeverity)
	assert.InDelta(t, 0.6, result.Protanopia, 1e-9)
}

func TestGenerateFilter_UnwrapsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"filter_params":{"protanopia_correction":0.48,"hue_rotation":12}}`)
	}))
	defer srv.Close()

	ac, _ := newTestClient(srv.URL)
	params, err := ac.GenerateFilter(context.Background(), &models.CVDResult{TestID: "t1"})
	require.NoError(t, err)
	assert.InDelta(t, 0.48, params.ProtanopiaCorrection, 1e-9)
	require.NotNil(t, params.HueRotation)
	assert.InDelta(t, 12.0, *params.HueRotation, 1e-9)
}

func TestGenerateAdaptiveFilterParams_SendsScores(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/gan/filter-parameters", r.URL.Path)
		var req struct {
			SeverityScores models.SeverityScores `json:"severity_scores"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.InDelta(t, 0.7, req.SeverityScores.Deuteranopia, 1e-9)
		io.WriteString(w, `{"status":"success","source":"gan","filter_params":{"deuteranopia_correction":0.56}}`)
	}))
	defer srv.Close()

	ac, _ := newTestClient(srv.URL)
	resp, err := ac.GenerateAdaptiveFilterParams(context.Background(), models.SeverityScores{Deuteranopia: 0.7})
	require.NoError(t, err)
	assert.Equal(t, "gan", resp.Source)
	assert.InDelta(t, 0.56, resp.FilterParams.DeuteranopiaCorrection, 1e-9)
}

func TestPredictRisk_EmbedsProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "u1", req["user_id"])
		assert.NotNil(t, req["risk_factors"])
		io.WriteString(w, `{"user_id":"u1","risk_level":"high","prediction_score":0.82}`)
	}))
	defer srv.Close()

	ac, _ := newTestClient(srv.URL)
	prediction, err := ac.PredictRisk(context.Background(), &models.UserProfile{UserID: "u1"}, map[string]any{"family_history": true})
	require.NoError(t, err)
	assert.Equal(t, "high", prediction.RiskLevel)
}

func TestGetFeedbackAnalytics_QueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "home", r.URL.Query().Get("page_name"))
		assert.Equal(t, "7d", r.URL.Query().Get("time_range"))
		io.WriteString(w, `{"total":3}`)
	}))
	defer srv.Close()

	ac, _ := newTestClient(srv.URL)
	analytics, err := ac.GetFeedbackAnalytics(context.Background(), "home", "7d")
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":3}`, string(analytics))
}

func TestDoJSON_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"detail":"invalid profile"}`)
	}))
	defer srv.Close()

	ac, metrics := newTestClient(srv.URL)
	err := ac.CreateProfile(context.Background(), &models.UserProfile{})
	require.Error(t, err)

	var serr *StatusError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, http.StatusUnprocessableEntity, serr.StatusCode)
	assert.Contains(t, serr.Body, "invalid profile")
	assert.False(t, IsConnectivityError(err))
	assert.Equal(t, 1, metrics.BackendFailures)
}

func TestDoJSON_UnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens anymore

	ac, metrics := newTestClient(srv.URL)
	_, err := ac.Health(context.Background())
	require.Error(t, err)
	assert.True(t, IsConnectivityError(err))
	assert.Equal(t, 1, metrics.BackendFailures)
}

func TestDoJSON_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	ac, _ := newTestClient(srv.URL)
	_, err := ac.Health(ctx)
	require.Error(t, err)
	assert.True(t, IsConnectivityError(err))
}
