package controllers

import (
	"net/http"

	json "github.com/goccy/go-json"

	"cvdd/internal/client"
	"cvdd/internal/models"
	"cvdd/internal/providers"
	"cvdd/internal/services"
)

// FilterController turns filter selections into effect sequences for
// the preview surface. The adaptive preset asks the backend for
// generated parameters and falls back to the traditional derivation
// when the backend is unreachable.
type FilterController struct {
	logger  providers.Logger
	filters services.FilterServiceInterface
	backend client.ApiClientInterface
	cache   providers.CacheProviderInterface
}

func NewFilterController(logger providers.Logger, filters services.FilterServiceInterface, backend client.ApiClientInterface, cache providers.CacheProviderInterface) *FilterController {
	return &FilterController{
		logger:  logger,
		filters: filters,
		backend: backend,
		cache:   cache,
	}
}

type effectsRequest struct {
	Preset         string                 `json:"preset"`
	Params         *models.FilterParams   `json:"params"`
	SeverityScores *models.SeverityScores `json:"severity_scores"`
}

type effectsResponse struct {
	Preset  string              `json:"preset"`
	Source  string              `json:"source"`
	Params  models.FilterParams `json:"params"`
	Effects []services.Effect   `json:"effects"`
	CSS     string              `json:"css"`
}

func (fc *FilterController) DeriveEffects(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req effectsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if req.Preset == "" {
		req.Preset = services.PresetNone
	}

	params := models.NeutralFilterParams()
	if req.Params != nil {
		params = *req.Params
	} else if preset, ok := fc.filters.PresetParams(req.Preset); ok {
		params = preset
	}

	source := "preset"
	var override *models.FilterParams
	if req.Preset == services.PresetSmartAI && req.SeverityScores != nil {
		adaptive, err := fc.backend.GenerateAdaptiveFilterParams(r.Context(), *req.SeverityScores)
		switch {
		case err == nil:
			override = &adaptive.FilterParams
			source = adaptive.Source
		case client.IsConnectivityError(err):
			fallback := fc.filters.TraditionalFilterParams(*req.SeverityScores)
			override = &fallback
			source = "traditional"
			fc.logger.Warnf(providers.TypeSync, "Adaptive generator unreachable, using traditional derivation")
		default:
			fc.logger.Errorf(providers.TypeSync, "Adaptive generator failed: %s", err)
			http.Error(w, "Backend Unavailable", http.StatusBadGateway)
			return
		}
	}

	effects := fc.filters.EffectsForPreset(req.Preset, params, override)
	if override != nil {
		params = *override
	}

	writeJSON(w, http.StatusOK, &effectsResponse{
		Preset:  req.Preset,
		Source:  source,
		Params:  params,
		Effects: effects,
		CSS:     fc.filters.FilterString(effects),
	})
}

func (fc *FilterController) GetPresets(w http.ResponseWriter, r *http.Request) {
	serveFromCacheOrCompute(w, fc.cache, "filter:presets", func() (any, error) {
		presets := make(map[string]models.FilterParams)
		for _, name := range []string{
			services.PresetNone,
			services.PresetSmartAI,
			services.PresetProtanopia,
			services.PresetDeuteranopia,
			services.PresetTritanopia,
		} {
			if params, ok := fc.filters.PresetParams(name); ok {
				presets[name] = params
			}
		}
		return map[string]any{"presets": presets}, nil
	})
}
