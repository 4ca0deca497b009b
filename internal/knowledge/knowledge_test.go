package knowledge

import (
	"math"
	"testing"
	"testing/fstest"

	"github.com/spboyer/modelpick/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRule(id string) Rule {
	return Rule{
		ID:         id,
		Weight:     0.5,
		Condition:  Condition{{Attribute: profile.AttrGaussian, Value: profile.Bool(true)}},
		Candidates: []string{"LDA"},
		Rationale:  "because",
	}
}

func TestNew_Valid(t *testing.T) {
	kb, err := New([]Rule{validRule("a"), validRule("b")})
	require.NoError(t, err)
	assert.Equal(t, 2, kb.Len())

	ids := []string{}
	for _, r := range kb.Rules() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestNew_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Rule)
		want   string
	}{
		{"blank id", func(r *Rule) { r.ID = " " }, "id is required"},
		{"zero weight", func(r *Rule) { r.Weight = 0 }, "weight"},
		{"negative weight", func(r *Rule) { r.Weight = -1 }, "weight"},
		{"NaN weight", func(r *Rule) { r.Weight = math.NaN() }, "weight"},
		{"infinite weight", func(r *Rule) { r.Weight = math.Inf(1) }, "weight"},
		{"unrecognized attribute", func(r *Rule) {
			r.Condition = Condition{{Attribute: "rows", Value: profile.Bool(true)}}
		}, "unrecognized attribute"},
		{"out of domain enum", func(r *Rule) {
			r.Condition = Condition{{Attribute: profile.AttrErrorFocus, Value: profile.Enum("both")}}
		}, "outside the domain"},
		{"wrong kind", func(r *Rule) {
			r.Condition = Condition{{Attribute: profile.AttrGaussian, Value: profile.Enum("true")}}
		}, "outside the domain"},
		{"repeated attribute", func(r *Rule) {
			r.Condition = append(r.Condition, Clause{Attribute: profile.AttrGaussian, Value: profile.Bool(false)})
		}, "more than once"},
		{"no candidates", func(r *Rule) { r.Candidates = nil }, "candidates"},
		{"blank candidate", func(r *Rule) { r.Candidates = []string{"LDA", ""} }, "blank"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRule("x")
			tt.mutate(&r)
			_, err := New([]Rule{r})
			require.ErrorIs(t, err, ErrInvalidKnowledgeBase)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNew_DuplicateID(t *testing.T) {
	_, err := New([]Rule{validRule("a"), validRule("b"), validRule("a")})
	require.ErrorIs(t, err, ErrInvalidKnowledgeBase)
	assert.Contains(t, err.Error(), `duplicate rule ID "a"`)
}

func TestNew_EmptyIsValid(t *testing.T) {
	kb, err := New(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, kb.Len())
	assert.Empty(t, kb.Rules())
}

func TestBaseIsFrozen(t *testing.T) {
	input := []Rule{validRule("a")}
	kb, err := New(input)
	require.NoError(t, err)

	// Mutating the caller's slices after construction has no effect.
	input[0].Candidates[0] = "changed"
	input[0].Condition[0].Value = profile.Bool(false)

	// Mutating a returned copy has no effect either.
	got := kb.Rules()
	got[0].Candidates[0] = "also changed"
	got[0].Weight = 99

	r, ok := kb.Rule("a")
	require.True(t, ok)
	assert.Equal(t, []string{"LDA"}, r.Candidates)
	assert.Equal(t, 0.5, r.Weight)
	assert.Equal(t, profile.Bool(true), r.Condition[0].Value)
}

func TestNew_NormalizesConditionOrder(t *testing.T) {
	r := validRule("a")
	r.Condition = Condition{
		{Attribute: profile.AttrErrorFocus, Value: profile.Enum("fn")},
		{Attribute: profile.AttrProblemType, Value: profile.Enum("regression")},
	}
	kb, err := New([]Rule{r})
	require.NoError(t, err)

	got, _ := kb.Rule("a")
	assert.Equal(t, "problemType=regression && errorFocus=fn", got.Condition.String())
}

func TestConditionMatches(t *testing.T) {
	p := profile.Profile{ProblemType: profile.ProblemRegression, Gaussian: true, ErrorFocus: profile.FocusFalsePositive}

	tests := []struct {
		name string
		cond Condition
		want bool
	}{
		{"empty matches everything", nil, true},
		{"single clause", Condition{{Attribute: profile.AttrProblemType, Value: profile.Enum("regression")}}, true},
		{"other problem type", Condition{{Attribute: profile.AttrProblemType, Value: profile.Enum("clustering")}}, false},
		{"false default is a real value", Condition{{Attribute: profile.AttrClassImbalance, Value: profile.Bool(false)}}, true},
		{"all clauses must hold", Condition{
			{Attribute: profile.AttrProblemType, Value: profile.Enum("regression")},
			{Attribute: profile.AttrGaussian, Value: profile.Bool(false)},
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cond.Matches(p))
		})
	}
}

func TestReference(t *testing.T) {
	kb, err := Reference()
	require.NoError(t, err)
	require.Equal(t, 10, kb.Len())

	var ids []string
	kb.Each(func(r Rule) { ids = append(ids, r.ID) })
	assert.Equal(t, []string{"lda", "qda", "tree", "imbalance", "p_gt_n", "fp", "fn", "regression", "clustering", "time"}, ids)

	lda, ok := kb.Rule("lda")
	require.True(t, ok)
	assert.Equal(t, 0.9, lda.Weight)
	assert.Equal(t, "problemType=classification && gaussian=true", lda.Condition.String())

	pgtn, ok := kb.Rule("p_gt_n")
	require.True(t, ok)
	assert.Equal(t, 0.88, pgtn.Weight)
	assert.Equal(t, []string{"Ridge", "Lasso", "ElasticNet"}, pgtn.Candidates)

	imb, ok := kb.Rule("imbalance")
	require.True(t, ok)
	assert.Equal(t, []string{"Logistic (class_weight)", "Random Forest (balanced)", "XGBoost"}, imb.Candidates)
}

func TestLoad(t *testing.T) {
	kb, err := Load([]byte(`version: 1
rules:
  - id: always
    weight: 2
    candidates: [Baseline]
    rationale: Always compare against a baseline.
  - id: fn
    weight: 0.7
    when:
      errorFocus: fn
    candidates: [Random Forest, Boosting]
    rationale: Recall reduces missed positives.
`))
	require.NoError(t, err)
	require.Equal(t, 2, kb.Len())

	always, _ := kb.Rule("always")
	assert.Empty(t, always.Condition)
	assert.Equal(t, 2.0, always.Weight)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"schema violation", "version: 1\nrules:\n  - id: a\n    weight: 0\n    candidates: [X]\n    rationale: r\n"},
		{"bool as string", "version: 1\nrules:\n  - id: a\n    weight: 1\n    when:\n      gaussian: \"true\"\n    candidates: [X]\n    rationale: r\n"},
		{"duplicate ids", "version: 1\nrules:\n  - id: a\n    weight: 1\n    candidates: [X]\n    rationale: r\n  - id: a\n    weight: 1\n    candidates: [Y]\n    rationale: r\n"},
		{"not yaml", "rules: [oops\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.doc))
			require.ErrorIs(t, err, ErrInvalidKnowledgeBase)
		})
	}
}

func TestLoadFS_MultipleFilesInNameOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"kb/20-second.yaml": {Data: []byte("version: 1\nrules:\n  - id: b\n    weight: 1\n    candidates: [Y]\n    rationale: second\n")},
		"kb/10-first.yaml":  {Data: []byte("version: 1\nrules:\n  - id: a\n    weight: 1\n    candidates: [X]\n    rationale: first\n")},
		"kb/README.md":      {Data: []byte("ignored")},
	}

	kb, err := LoadFS(fsys, "kb")
	require.NoError(t, err)

	var ids []string
	kb.Each(func(r Rule) { ids = append(ids, r.ID) })
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestLoadFS_DuplicateAcrossFiles(t *testing.T) {
	doc := []byte("version: 1\nrules:\n  - id: a\n    weight: 1\n    candidates: [X]\n    rationale: r\n")
	fsys := fstest.MapFS{
		"kb/one.yaml": {Data: doc},
		"kb/two.yaml": {Data: doc},
	}
	_, err := LoadFS(fsys, "kb")
	require.ErrorIs(t, err, ErrInvalidKnowledgeBase)
}

func TestMarshalRoundTrip(t *testing.T) {
	kb, err := Reference()
	require.NoError(t, err)

	data, err := Marshal(kb)
	require.NoError(t, err)

	back, err := Load(data)
	require.NoError(t, err)
	assert.Equal(t, kb.Rules(), back.Rules())
}
