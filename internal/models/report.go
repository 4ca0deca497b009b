package models

import (
	"github.com/spboyer/modelpick/internal/notes"
	"github.com/spboyer/modelpick/internal/profile"
)

// Report is what the CLI, the HTTP API and the JSON-RPC server return for one
// profile. MatchedRules and the notes fields are only populated on request.
type Report struct {
	Profile         profile.Profile  `json:"profile" yaml:"profile"`
	Recommendations []Recommendation `json:"recommendations" yaml:"recommendations"`
	MatchedRules    []string         `json:"matchedRules,omitempty" yaml:"matchedRules,omitempty"`
	Notes           []notes.Note     `json:"notes,omitempty" yaml:"notes,omitempty"`
	NotesHTML       string           `json:"notesHtml,omitempty" yaml:"notesHtml,omitempty"`
}
