package models

import "math"

// Recommendation is one ranked output with its accumulated score and the
// rationale of every rule that proposed it, in knowledge base order.
type Recommendation struct {
	Output    string   `json:"output" yaml:"output"`
	Score     float64  `json:"score" yaml:"score"`
	Rationale []string `json:"rationale" yaml:"rationale"`
}

// Percent returns the score as a whole percentage.
func (r Recommendation) Percent() int {
	return int(math.Round(r.Score * 100))
}

// Evaluation is an explained evaluation of one profile: the ranked
// recommendations plus the IDs of the rules that matched, in knowledge base
// order.
type Evaluation struct {
	MatchedRules    []string         `json:"matchedRules" yaml:"matchedRules"`
	Recommendations []Recommendation `json:"recommendations" yaml:"recommendations"`
}
