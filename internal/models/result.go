package models

// Overall severity grades assigned by the remote scoring service.
const (
	SeverityNone     = "none"
	SeverityMild     = "mild"
	SeverityModerate = "moderate"
	SeveritySevere   = "severe"
)

// CVDResult is the outcome of one completed color-vision test. Created
// once by the remote scoring service and immutable afterwards.
type CVDResult struct {
	TestID            string       `json:"test_id"`
	UserID            string       `json:"user_id"`
	Protanopia        float64      `json:"protanopia"`
	Deuteranopia      float64      `json:"deuteranopia"`
	Tritanopia        float64      `json:"tritanopia"`
	NoBlindness       int          `json:"no_blindness"`
	OverallSeverity   string       `json:"overall_severity"`
	RecommendedFilter FilterParams `json:"recommended_filter"`
	Timestamp         string       `json:"timestamp"`
}

// Severity extracts the three axis scores as a SeverityScores value.
func (r *CVDResult) Severity() SeverityScores {
	return SeverityScores{
		Protanopia:   r.Protanopia,
		Deuteranopia: r.Deuteranopia,
		Tritanopia:   r.Tritanopia,
	}
}

// TestQuestion is one plate of a color-vision test: two images and a
// same/different expectation.
type TestQuestion struct {
	QuestionID    string `json:"question_id"`
	ImageOriginal string `json:"image_original"`
	ImageFiltered string `json:"image_filtered"`
	CorrectAnswer bool   `json:"correct_answer"`
	FilterType    string `json:"filter_type,omitempty"`
}

// TestQuestions is the generated question set for one test run.
type TestQuestions struct {
	TestID    string         `json:"test_id"`
	TestType  string         `json:"test_type"`
	Questions []TestQuestion `json:"questions"`
}
