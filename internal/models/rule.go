package models

import "github.com/spboyer/modelpick/internal/knowledge"

// RuleSummary is the wire form of a knowledge base rule.
type RuleSummary struct {
	ID         string         `json:"id" yaml:"id"`
	Weight     float64        `json:"weight" yaml:"weight"`
	When       map[string]any `json:"when" yaml:"when"`
	Condition  string         `json:"condition" yaml:"condition"`
	Candidates []string       `json:"candidates" yaml:"candidates"`
	Rationale  string         `json:"rationale" yaml:"rationale"`
}

// SummarizeRule converts r to its wire form.
func SummarizeRule(r knowledge.Rule) RuleSummary {
	when := make(map[string]any, len(r.Condition))
	for _, c := range r.Condition {
		when[string(c.Attribute)] = c.Value.Interface()
	}
	return RuleSummary{
		ID:         r.ID,
		Weight:     r.Weight,
		When:       when,
		Condition:  r.Condition.String(),
		Candidates: r.Candidates,
		Rationale:  r.Rationale,
	}
}

// SummarizeRules converts rules in order.
func SummarizeRules(rules []knowledge.Rule) []RuleSummary {
	out := make([]RuleSummary, len(rules))
	for i, r := range rules {
		out[i] = SummarizeRule(r)
	}
	return out
}
