package webapi

import "github.com/spboyer/modelpick/internal/notes"

// HealthResponse is the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Rules   int    `json:"rules"`
}

// RecommendRequest wraps a profile when the caller wants to pick the report
// parts. A bare profile object is also accepted as the request body.
type RecommendRequest struct {
	Profile map[string]any `json:"profile"`
	Explain *bool          `json:"explain,omitempty"`
	Notes   *bool          `json:"notes,omitempty"`
}

// TipsResponse lists the general modelling tips.
type TipsResponse struct {
	Tips []string `json:"tips"`
}

// ChecklistResponse lists what to tune per model family.
type ChecklistResponse struct {
	Checklist []notes.ChecklistItem `json:"checklist"`
}

// ErrorResponse is returned for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
