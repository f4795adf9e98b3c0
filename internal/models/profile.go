package models

// UserProfile is the identity and demographic record created on first
// launch and mutated only by explicit profile saves.
type UserProfile struct {
	UserID        string   `json:"user_id"`
	Name          string   `json:"name"`
	Age           int      `json:"age"`
	Gender        string   `json:"gender"`
	Email         string   `json:"email,omitempty"`
	PreviousTests []string `json:"previous_tests,omitempty"`
	UpdatedAt     string   `json:"updated_at,omitempty"`
}
