package controllers

import (
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"cvdd/internal/services"
	"cvdd/internal/structures"
)

type HealthController struct {
	store     services.DataStoreServiceInterface
	version   string
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Timestamp     string  `json:"timestamp"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	StoreKeys     int     `json:"store_keys"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Version:       hc.version,
		Timestamp:     time.Now().Format(time.RFC3339),
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		StoreKeys:     hc.store.GetStorageStats().TotalKeys,
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(store services.DataStoreServiceInterface, conf *structures.Config) *HealthController {
	return &HealthController{
		store:     store,
		version:   conf.Version,
		startTime: time.Now(),
	}
}
