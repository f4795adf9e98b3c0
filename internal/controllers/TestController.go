package controllers

import (
	"net/http"

	json "github.com/goccy/go-json"

	"cvdd/internal/client"
	"cvdd/internal/events"
	"cvdd/internal/models"
	"cvdd/internal/providers"
	"cvdd/internal/services"
)

// TestController drives the color-test lifecycle against the backend
// and records outcomes locally: question fetch, per-plate responses,
// completion and feedback submission.
type TestController struct {
	logger   providers.Logger
	store    services.DataStoreServiceInterface
	backend  client.ApiClientInterface
	producer events.EventProducerInterface
}

func NewTestController(logger providers.Logger, store services.DataStoreServiceInterface, backend client.ApiClientInterface, producer events.EventProducerInterface) *TestController {
	return &TestController{
		logger:   logger,
		store:    store,
		backend:  backend,
		producer: producer,
	}
}

func (tc *TestController) StartTest(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req struct {
		TestType string `json:"test_type"`
		Count    int    `json:"count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if req.TestType == "" {
		req.TestType = "ishihara"
	}
	if req.Count <= 0 {
		req.Count = 10
	}

	questions, err := tc.backend.GetTestQuestions(r.Context(), req.TestType, req.Count)
	if err != nil {
		tc.logger.Errorf(providers.TypeSync, "Question fetch failed: %s", err)
		http.Error(w, "Backend Unavailable", http.StatusBadGateway)
		return
	}

	// Keep the plates locally so the test can resume after a reload.
	if err := tc.store.SaveTestQuestions(questions); err != nil {
		tc.logger.Errorf(providers.TypeStore, "Question save failed: %s", err)
	}

	writeJSON(w, http.StatusOK, questions)
}

func (tc *TestController) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req struct {
		TestID     string `json:"test_id"`
		QuestionID string `json:"question_id"`
		Response   bool   `json:"response"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := tc.backend.SubmitTestResponse(r.Context(), req.TestID, req.QuestionID, req.Response); err != nil {
		tc.logger.Errorf(providers.TypeSync, "Response submit failed: %s", err)
		http.Error(w, "Backend Unavailable", http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (tc *TestController) CompleteTest(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req struct {
		TestID string `json:"test_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	result, err := tc.backend.CompleteTest(r.Context(), req.TestID)
	if err != nil {
		tc.logger.Errorf(providers.TypeSync, "Test completion failed: %s", err)
		http.Error(w, "Backend Unavailable", http.StatusBadGateway)
		return
	}

	if err := tc.store.SaveTestResult(result); err != nil {
		tc.logger.Errorf(providers.TypeStore, "Result save failed: %s", err)
		http.Error(w, "Storage Error", http.StatusInsufficientStorage)
		return
	}

	if err := tc.producer.PublishTestCompleted(r.Context(), result); err != nil {
		tc.queueOffline("test_completed_event", result)
	}

	writeJSON(w, http.StatusOK, result)
}

func (tc *TestController) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var feedback models.FeedbackData
	if err := json.NewDecoder(r.Body).Decode(&feedback); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	delivered := true
	if err := tc.backend.SubmitFeedback(r.Context(), &feedback); err != nil {
		if !client.IsConnectivityError(err) {
			tc.logger.Warnf(providers.TypeSync, "Backend rejected feedback: %s", err)
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		delivered = false
		tc.queueOffline("feedback_sync", &feedback)
	}

	if err := tc.producer.PublishFeedback(r.Context(), &feedback); err != nil {
		tc.queueOffline("feedback_event", &feedback)
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":    "accepted",
		"delivered": delivered,
	})
}

func (tc *TestController) GetFeedbackAnalytics(w http.ResponseWriter, r *http.Request) {
	pageName := r.URL.Query().Get("page_name")
	timeRange := r.URL.Query().Get("time_range")

	analytics, err := tc.backend.GetFeedbackAnalytics(r.Context(), pageName, timeRange)
	if err != nil {
		tc.logger.Errorf(providers.TypeSync, "Analytics fetch failed: %s", err)
		http.Error(w, "Backend Unavailable", http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(analytics)
}

func (tc *TestController) queueOffline(actionType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		tc.logger.Errorf(providers.TypeSync, "Cannot queue %s action: %s", actionType, err)
		return
	}
	action := models.OfflineAction{Type: actionType, Payload: data}
	if err := tc.store.SaveOfflineAction(&action); err != nil {
		tc.logger.Errorf(providers.TypeStore, "Offline queue write failed for %s: %s", actionType, err)
		return
	}
	tc.logger.Infof(providers.TypeSync, "Queued %s action for later sync", actionType)
}
