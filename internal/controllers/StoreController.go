package controllers

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"cvdd/internal/client"
	"cvdd/internal/models"
	"cvdd/internal/providers"
	"cvdd/internal/services"
)

// StoreController exposes the on-device namespace to the local web
// client: profile, prediction and history reads/writes plus the
// maintenance operations (export, stats, cache cleanup, reset).
type StoreController struct {
	logger  providers.Logger
	store   services.DataStoreServiceInterface
	backend client.ApiClientInterface
	cache   providers.CacheProviderInterface
}

func NewStoreController(logger providers.Logger, store services.DataStoreServiceInterface, backend client.ApiClientInterface, cache providers.CacheProviderInterface) *StoreController {
	return &StoreController{
		logger:  logger,
		store:   store,
		backend: backend,
		cache:   cache,
	}
}

func (sc *StoreController) SaveProfile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var profile models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if profile.UserID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	if err := sc.store.SaveProfile(&profile); err != nil {
		sc.logger.Errorf(providers.TypeStore, "Profile save failed: %s", err)
		http.Error(w, "Storage Error", http.StatusInsufficientStorage)
		return
	}
	sc.cache.Del("profile:" + profile.UserID)

	// Push to the backend opportunistically; while offline the profile
	// goes on the sync queue instead.
	if err := sc.backend.CreateProfile(r.Context(), &profile); err != nil {
		if client.IsConnectivityError(err) {
			sc.queueOffline(r, "profile_sync", &profile)
		} else {
			sc.logger.Warnf(providers.TypeSync, "Backend rejected profile: %s", err)
		}
	}

	writeJSON(w, http.StatusCreated, &profile)
}

func (sc *StoreController) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	serveFromCacheOrCompute(w, sc.cache, "profile:"+userID, func() (any, error) {
		profile := sc.store.GetProfile(userID)
		if profile == nil {
			return map[string]any{"profile": nil}, nil
		}
		return map[string]any{"profile": profile}, nil
	})
}

func (sc *StoreController) PredictRisk(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req struct {
		UserID      string         `json:"user_id"`
		RiskFactors map[string]any `json:"risk_factors"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	profile := sc.store.GetProfile(req.UserID)
	if profile == nil {
		http.Error(w, "Unknown user", http.StatusNotFound)
		return
	}

	prediction, err := sc.backend.PredictRisk(r.Context(), profile, req.RiskFactors)
	if err != nil {
		sc.logger.Errorf(providers.TypeSync, "Risk prediction failed: %s", err)
		http.Error(w, "Backend Unavailable", http.StatusBadGateway)
		return
	}

	if err := sc.store.SavePrediction(prediction); err != nil {
		sc.logger.Errorf(providers.TypeStore, "Prediction save failed: %s", err)
		http.Error(w, "Storage Error", http.StatusInsufficientStorage)
		return
	}

	writeJSON(w, http.StatusOK, prediction)
}

func (sc *StoreController) GetPredictions(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	predictions := sc.store.GetUserPredictions(userID)
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":           userID,
		"predictions":       predictions,
		"total_predictions": len(predictions),
	})
}

func (sc *StoreController) GetLatestPrediction(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"prediction": sc.store.GetLatestPrediction(),
	})
}

func (sc *StoreController) GetTestResults(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	results := sc.store.GetTestResults(userID)
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id": userID,
		"results": results,
		"total":   len(results),
	})
}

func (sc *StoreController) GetLatestTestResult(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"result": sc.store.GetLatestTestResult(),
	})
}

func (sc *StoreController) GetStorageStats(w http.ResponseWriter, r *http.Request) {
	serveFromCacheOrCompute(w, sc.cache, "analytics:storage", func() (any, error) {
		return sc.store.GetStorageStats(), nil
	})
}

func (sc *StoreController) ExportData(w http.ResponseWriter, r *http.Request) {
	data, err := sc.store.ExportAllData()
	if err != nil {
		sc.logger.Errorf(providers.TypeStore, "Export failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (sc *StoreController) CleanupCache(w http.ResponseWriter, r *http.Request) {
	removed := sc.store.CleanupExpiredCache()
	writeJSON(w, http.StatusOK, map[string]any{"removed": removed})
}

func (sc *StoreController) ResetAllData(w http.ResponseWriter, r *http.Request) {
	sc.store.ClearAllData()
	w.WriteHeader(http.StatusNoContent)
}

func (sc *StoreController) GetOfflineQueue(w http.ResponseWriter, r *http.Request) {
	actions := sc.store.GetOfflineActions()
	writeJSON(w, http.StatusOK, map[string]any{
		"actions": actions,
		"total":   len(actions),
	})
}

func (sc *StoreController) ClearOfflineQueue(w http.ResponseWriter, r *http.Request) {
	sc.store.ClearOfflineActions()
	w.WriteHeader(http.StatusNoContent)
}

func (sc *StoreController) queueOffline(r *http.Request, actionType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		sc.logger.Errorf(providers.TypeSync, "Cannot queue %s action: %s", actionType, err)
		return
	}
	action := models.OfflineAction{Type: actionType, Payload: data}
	if err := sc.store.SaveOfflineAction(&action); err != nil {
		// Both the backend and local persistence failed; the mutation is lost
		// and only the log records it.
		var werr *services.StorageWriteError
		if errors.As(err, &werr) {
			sc.logger.Errorf(providers.TypeStore, "Offline queue write failed for %s: %s", actionType, err)
		}
		return
	}
	sc.logger.Infof(providers.TypeSync, "Queued %s action for later sync", actionType)
}
