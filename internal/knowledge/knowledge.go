// Package knowledge holds the ordered, immutable rule set that the
// recommendation engine evaluates profiles against.
package knowledge

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/spboyer/modelpick/internal/profile"
)

// ErrInvalidKnowledgeBase is returned when a rule set fails structural
// validation. It is fatal at startup: no evaluation may run against it.
var ErrInvalidKnowledgeBase = errors.New("invalid knowledge base")

// Clause is a single equality test against one profile attribute.
type Clause struct {
	Attribute profile.Attribute
	Value     profile.Value
}

func (c Clause) String() string {
	return fmt.Sprintf("%s=%s", c.Attribute, c.Value)
}

// Condition is a conjunction of clauses. The empty condition matches every
// profile.
type Condition []Clause

// Matches reports whether every clause holds for p.
func (c Condition) Matches(p profile.Profile) bool {
	for _, clause := range c {
		if !p.Value(clause.Attribute).Equal(clause.Value) {
			return false
		}
	}
	return true
}

func (c Condition) String() string {
	if len(c) == 0 {
		return "*"
	}
	parts := make([]string, len(c))
	for i, clause := range c {
		parts[i] = clause.String()
	}
	return strings.Join(parts, " && ")
}

// Rule proposes candidate outputs, with a weight and a rationale, for every
// profile its condition matches.
type Rule struct {
	ID         string
	Weight     float64
	Condition  Condition
	Candidates []string
	Rationale  string
}

func (r Rule) clone() Rule {
	r.Condition = slices.Clone(r.Condition)
	r.Candidates = slices.Clone(r.Candidates)
	return r
}

// Base is a validated, frozen knowledge base. A nil or zero Base holds no
// rules; use New to build a populated one.
type Base struct {
	rules []Rule
	index map[string]int
}

// New validates rules and returns a frozen knowledge base holding private
// copies of them in the given order. Conditions are normalized to canonical
// attribute order.
func New(rules []Rule) (*Base, error) {
	b := &Base{
		rules: make([]Rule, 0, len(rules)),
		index: make(map[string]int, len(rules)),
	}

	for i, r := range rules {
		if err := validateRule(r); err != nil {
			return nil, fmt.Errorf("%w: rule %d (%q): %v", ErrInvalidKnowledgeBase, i, r.ID, err)
		}
		if prev, ok := b.index[r.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate rule ID %q (rules %d and %d)", ErrInvalidKnowledgeBase, r.ID, prev, i)
		}

		rule := r.clone()
		sort.SliceStable(rule.Condition, func(a, c int) bool {
			return rule.Condition[a].Attribute.Rank() < rule.Condition[c].Attribute.Rank()
		})

		b.index[rule.ID] = len(b.rules)
		b.rules = append(b.rules, rule)
	}
	return b, nil
}

func validateRule(r Rule) error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("id is required")
	}
	if math.IsNaN(r.Weight) || math.IsInf(r.Weight, 0) || r.Weight <= 0 {
		return fmt.Errorf("weight must be a positive number, got %v", r.Weight)
	}

	seen := make(map[profile.Attribute]bool, len(r.Condition))
	for _, clause := range r.Condition {
		if !clause.Attribute.Recognized() {
			return fmt.Errorf("condition references unrecognized attribute %q", clause.Attribute)
		}
		if seen[clause.Attribute] {
			return fmt.Errorf("condition tests %q more than once", clause.Attribute)
		}
		seen[clause.Attribute] = true
		if !clause.Attribute.Admits(clause.Value) {
			return fmt.Errorf("condition value %q (%s) is outside the domain of %q", clause.Value, clause.Value.Kind(), clause.Attribute)
		}
	}

	if len(r.Candidates) == 0 {
		return errors.New("candidates must not be empty")
	}
	for _, c := range r.Candidates {
		if strings.TrimSpace(c) == "" {
			return errors.New("candidate names must not be blank")
		}
	}
	return nil
}

// Rules returns the rules in authoring order. The result is a copy; changing
// it does not affect the knowledge base.
func (b *Base) Rules() []Rule {
	if b == nil {
		return nil
	}
	out := make([]Rule, len(b.rules))
	for i, r := range b.rules {
		out[i] = r.clone()
	}
	return out
}

// Len returns the number of rules.
func (b *Base) Len() int {
	if b == nil {
		return 0
	}
	return len(b.rules)
}

// Rule returns a copy of the rule with the given ID.
func (b *Base) Rule(id string) (Rule, bool) {
	if b == nil {
		return Rule{}, false
	}
	i, ok := b.index[id]
	if !ok {
		return Rule{}, false
	}
	return b.rules[i].clone(), true
}

// Each calls fn for every rule in authoring order without copying. fn must
// not retain or modify the rule's slices.
func (b *Base) Each(fn func(Rule)) {
	if b == nil {
		return
	}
	for _, r := range b.rules {
		fn(r)
	}
}
