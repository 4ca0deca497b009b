package recommend

import (
	"sort"

	"github.com/spboyer/modelpick/internal/knowledge"
	"github.com/spboyer/modelpick/internal/models"
	"github.com/spboyer/modelpick/internal/profile"
)

// Engine evaluates profiles against one frozen knowledge base. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	kb *knowledge.Base
}

// NewEngine creates a recommendation engine bound to kb.
func NewEngine(kb *knowledge.Base) *Engine {
	return &Engine{kb: kb}
}

// Recommend evaluates p against the engine's knowledge base.
func (e *Engine) Recommend(p profile.Profile) ([]models.Recommendation, error) {
	return Evaluate(p, e.kb)
}

// Explain evaluates p and reports which rules matched.
func (e *Engine) Explain(p profile.Profile) (*models.Evaluation, error) {
	return Explain(p, e.kb)
}

// Rules returns the knowledge base rules in authoring order.
func (e *Engine) Rules() []knowledge.Rule {
	return e.kb.Rules()
}

// Rule looks up a rule by ID.
func (e *Engine) Rule(id string) (knowledge.Rule, bool) {
	return e.kb.Rule(id)
}

// Evaluate returns the ranked recommendations for p. Scores are the sum of
// the weights of every matching rule that names the output; ties keep the
// order in which outputs were first proposed. A profile that matches no rule
// yields an empty, non-nil slice.
func Evaluate(p profile.Profile, kb *knowledge.Base) ([]models.Recommendation, error) {
	ev, err := Explain(p, kb)
	if err != nil {
		return nil, err
	}
	return ev.Recommendations, nil
}

// Explain is Evaluate plus the IDs of the matched rules in knowledge base
// order. An invalid profile yields profile.ErrInvalidProfile and no partial
// result.
func Explain(p profile.Profile, kb *knowledge.Base) (*models.Evaluation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	board := newScoreBoard()
	matched := []string{}

	kb.Each(func(r knowledge.Rule) {
		if !r.Condition.Matches(p) {
			return
		}
		matched = append(matched, r.ID)

		// A rule counts once per output even if it lists it twice.
		seen := make(map[string]bool, len(r.Candidates))
		for _, c := range r.Candidates {
			if seen[c] {
				continue
			}
			seen[c] = true
			board.add(c, r.Weight, r.Rationale)
		}
	})

	return &models.Evaluation{
		MatchedRules:    matched,
		Recommendations: board.ranked(),
	}, nil
}

// scoreEntry accumulates the score and rationale of a single output.
type scoreEntry struct {
	score     float64
	rationale []string
}

// scoreBoard is an insertion-ordered map from output identifier to its
// entry. The insertion order is the tie-break for equal scores.
type scoreBoard struct {
	order   []string
	entries map[string]*scoreEntry
}

func newScoreBoard() *scoreBoard {
	return &scoreBoard{entries: make(map[string]*scoreEntry)}
}

func (b *scoreBoard) add(output string, weight float64, rationale string) {
	entry, ok := b.entries[output]
	if !ok {
		entry = &scoreEntry{}
		b.entries[output] = entry
		b.order = append(b.order, output)
	}
	entry.score += weight
	entry.rationale = append(entry.rationale, rationale)
}

func (b *scoreBoard) ranked() []models.Recommendation {
	recs := make([]models.Recommendation, len(b.order))
	for i, output := range b.order {
		entry := b.entries[output]
		recs[i] = models.Recommendation{
			Output:    output,
			Score:     entry.score,
			Rationale: entry.rationale,
		}
	}

	// Sort descending by score; stable sort preserves insertion order for ties
	sort.SliceStable(recs, func(a, b int) bool {
		return recs[a].Score > recs[b].Score
	})
	return recs
}
