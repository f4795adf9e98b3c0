package models

// CVDPrediction is a risk assessment produced by the prediction variant
// of the backend. PredictionID is assigned locally on save.
type CVDPrediction struct {
	PredictionID    string         `json:"prediction_id,omitempty"`
	UserID          string         `json:"user_id"`
	RiskFactors     map[string]any `json:"risk_factors,omitempty"`
	PredictionScore float64        `json:"prediction_score"`
	RiskLevel       string         `json:"risk_level"`
	Recommendations []string       `json:"recommendations,omitempty"`
	Confidence      float64        `json:"confidence"`
	Timestamp       string         `json:"timestamp"`
	SavedAt         string         `json:"saved_at,omitempty"`
}
