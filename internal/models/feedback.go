package models

// FilterFeedbackContext carries the filter state a piece of feedback
// refers to. Optional, may be partially populated.
type FilterFeedbackContext struct {
	Preset       string        `json:"preset,omitempty"`
	Params       *FilterParams `json:"params,omitempty"`
	Source       string        `json:"source,omitempty"`
	PreviewScene string        `json:"preview_scene,omitempty"`
}

// TestResultContext ties feedback to a completed test.
type TestResultContext struct {
	TestID          string  `json:"test_id,omitempty"`
	OverallSeverity string  `json:"overall_severity,omitempty"`
	Score           float64 `json:"score,omitempty"`
}

// FeedbackData is a user feedback submission. Exactly one of the typed
// context fields is populated depending on the page the feedback came
// from; both may be absent for free-form feedback.
type FeedbackData struct {
	UserID        string                 `json:"user_id"`
	PageName      string                 `json:"page_name,omitempty"`
	FeedbackType  string                 `json:"feedback_type"`
	Rating        int                    `json:"rating"`
	Comments      string                 `json:"comments,omitempty"`
	Timestamp     string                 `json:"timestamp,omitempty"`
	FilterContext *FilterFeedbackContext `json:"filter_context,omitempty"`
	TestContext   *TestResultContext     `json:"test_context,omitempty"`
}
