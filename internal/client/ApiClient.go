package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"cvdd/internal/models"
	"cvdd/internal/providers"
	"cvdd/internal/structures"
)

const maxResponseBodySize = 4 << 20 // 4 MB

// ConnectivityError marks the backend as unreachable (DNS, refused
// connection, timeout). Callers distinguish it from HTTP-level failures
// to drive offline behavior.
type ConnectivityError struct {
	Endpoint string
	Err      error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("backend unreachable at %s: %s", e.Endpoint, e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// IsConnectivityError reports whether err stems from the backend being
// unreachable rather than from a rejected request.
func IsConnectivityError(err error) bool {
	var ce *ConnectivityError
	return errors.As(err, &ce)
}

// StatusError is a non-2xx backend response.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned %d for %s", e.StatusCode, e.Endpoint)
}

// HealthStatus is the backend liveness envelope.
type HealthStatus struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// AdaptiveFilterResponse carries adaptively generated parameters plus
// their provenance ("gan" or "traditional").
type AdaptiveFilterResponse struct {
	Status       string              `json:"status"`
	FilterParams models.FilterParams `json:"filter_params"`
	Source       string              `json:"source"`
}

type ApiClientInterface interface {
	Health(ctx context.Context) (*HealthStatus, error)
	CreateProfile(ctx context.Context, profile *models.UserProfile) error
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	GetTestQuestions(ctx context.Context, testType string, count int) (*models.TestQuestions, error)
	SubmitTestResponse(ctx context.Context, testID, questionID string, response bool) error
	CompleteTest(ctx context.Context, testID string) (*models.CVDResult, error)
	GenerateFilter(ctx context.Context, result *models.CVDResult) (*models.FilterParams, error)
	GenerateAdaptiveFilterParams(ctx context.Context, scores models.SeverityScores) (*AdaptiveFilterResponse, error)
	PredictRisk(ctx context.Context, profile *models.UserProfile, riskFactors map[string]any) (*models.CVDPrediction, error)
	SubmitFeedback(ctx context.Context, feedback *models.FeedbackData) error
	GetFeedbackAnalytics(ctx context.Context, pageName, timeRange string) (json.RawMessage, error)
}

// ApiClient is the thin typed wrapper over the remote CVD backend: one
// method per endpoint, bounded timeout, no retries.
type ApiClient struct {
	baseURL    string
	httpClient *http.Client
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewApiClient(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) ApiClientInterface {
	return &ApiClient{
		baseURL: strings.TrimRight(conf.Backend.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: conf.Backend.Timeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

func (ac *ApiClient) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, ac.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := ac.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		ac.metrics.ObserveBackendRequest(path, duration, true)
		ac.logger.Warnf(providers.TypeSync, "Request %s %s failed: %s", method, path, err)
		return &ConnectivityError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		ac.metrics.ObserveBackendRequest(path, duration, true)
		return &ConnectivityError{Endpoint: path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		ac.metrics.ObserveBackendRequest(path, duration, true)
		ac.logger.Warnf(providers.TypeSync, "Request %s %s returned %d", method, path, resp.StatusCode)
		return &StatusError{Endpoint: path, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	ac.metrics.ObserveBackendRequest(path, duration, false)
	ac.logger.Debugf(providers.TypeSync, "Request %s %s completed in %s", method, path, duration)

	if out == nil {
		return nil
	}
	return json.Unmarshal(respBody, out)
}

func (ac *ApiClient) Health(ctx context.Context) (*HealthStatus, error) {
	var status HealthStatus
	if err := ac.doJSON(ctx, http.MethodGet, "/health", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (ac *ApiClient) CreateProfile(ctx context.Context, profile *models.UserProfile) error {
	return ac.doJSON(ctx, http.MethodPost, "/api/v1/users/profile", profile, nil)
}

func (ac *ApiClient) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := ac.doJSON(ctx, http.MethodGet, "/api/v1/users/profile/"+url.PathEscape(userID), nil, &profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (ac *ApiClient) GetTestQuestions(ctx context.Context, testType string, count int) (*models.TestQuestions, error) {
	req := struct {
		TestType string `json:"test_type"`
		Count    int    `json:"count"`
	}{TestType: testType, Count: count}

	var questions models.TestQuestions
	if err := ac.doJSON(ctx, http.MethodPost, "/api/v1/color-test/questions", &req, &questions); err != nil {
		return nil, err
	}
	return &questions, nil
}

func (ac *ApiClient) SubmitTestResponse(ctx context.Context, testID, questionID string, response bool) error {
	req := struct {
		TestID     string `json:"test_id"`
		QuestionID string `json:"question_id"`
		Response   bool   `json:"response"`
		Timestamp  string `json:"timestamp"`
	}{
		TestID:     testID,
		QuestionID: questionID,
		Response:   response,
		Timestamp:  time.Now().Format(time.RFC3339),
	}
	return ac.doJSON(ctx, http.MethodPost, "/api/v1/color-test/response", &req, nil)
}

func (ac *ApiClient) CompleteTest(ctx context.Context, testID string) (*models.CVDResult, error) {
	req := struct {
		TestID string `json:"test_id"`
	}{TestID: testID}

	var result models.CVDResult
	err := ac.doJSON(ctx, http.MethodPost, "/api/v1/color-test/complete/"+url.PathEscape(testID), &req, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (ac *ApiClient) GenerateFilter(ctx context.Context, result *models.CVDResult) (*models.FilterParams, error) {
	var resp struct {
		FilterParams models.FilterParams `json:"filter_params"`
	}
	if err := ac.doJSON(ctx, http.MethodPost, "/api/v1/filter/generate", result, &resp); err != nil {
		return nil, err
	}
	return &resp.FilterParams, nil
}

func (ac *ApiClient) GenerateAdaptiveFilterParams(ctx context.Context, scores models.SeverityScores) (*AdaptiveFilterResponse, error) {
	req := struct {
		SeverityScores models.SeverityScores `json:"severity_scores"`
	}{SeverityScores: scores}

	var resp AdaptiveFilterResponse
	if err := ac.doJSON(ctx, http.MethodPost, "/api/v1/gan/filter-parameters", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (ac *ApiClient) PredictRisk(ctx context.Context, profile *models.UserProfile, riskFactors map[string]any) (*models.CVDPrediction, error) {
	req := struct {
		models.UserProfile
		RiskFactors map[string]any `json:"risk_factors,omitempty"`
	}{UserProfile: *profile, RiskFactors: riskFactors}

	var prediction models.CVDPrediction
	if err := ac.doJSON(ctx, http.MethodPost, "/api/v1/predict/cvd", &req, &prediction); err != nil {
		return nil, err
	}
	return &prediction, nil
}

func (ac *ApiClient) SubmitFeedback(ctx context.Context, feedback *models.FeedbackData) error {
	return ac.doJSON(ctx, http.MethodPost, "/api/v1/feedback/submit", feedback, nil)
}

func (ac *ApiClient) GetFeedbackAnalytics(ctx context.Context, pageName, timeRange string) (json.RawMessage, error) {
	query := url.Values{}
	if pageName != "" {
		query.Set("page_name", pageName)
	}
	if timeRange != "" {
		query.Set("time_range", timeRange)
	}
	path := "/api/v1/feedback/analytics"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var analytics json.RawMessage
	if err := ac.doJSON(ctx, http.MethodGet, path, nil, &analytics); err != nil {
		return nil, err
	}
	return analytics, nil
}
