// Package notes maps individual profile values to static advisory notes and
// carries the general modelling tips shown next to recommendations. It is
// independent of the scoring engine.
package notes

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spboyer/modelpick/internal/profile"
	"github.com/yuin/goldmark"
)

// Note is an advisory attached to one attribute value.
type Note struct {
	Attribute profile.Attribute `json:"attribute" yaml:"attribute"`
	Value     string            `json:"value" yaml:"value"`
	Title     string            `json:"title" yaml:"title"`
	Text      string            `json:"text" yaml:"text"`
}

// Markdown renders the note as a single markdown line.
func (n Note) Markdown() string {
	return fmt.Sprintf("**%s:** %s", n.Title, n.Text)
}

func (n Note) String() string {
	return fmt.Sprintf("%s: %s", n.Title, n.Text)
}

// ChecklistItem is a tuning hint for a family of models.
type ChecklistItem struct {
	Family string `json:"family" yaml:"family"`
	Advice string `json:"advice" yaml:"advice"`
}

type key struct {
	attr  profile.Attribute
	value profile.Value
}

// table is ordered; For returns notes in this order.
var table = []Note{
	{Attribute: profile.AttrProblemType, Value: "classification", Title: "Classification", Text: "Metrics must be chosen first because accuracy can hide imbalance."},
	{Attribute: profile.AttrProblemType, Value: "regression", Title: "Regression", Text: "Linear models reveal bias–variance behavior."},
	{Attribute: profile.AttrProblemType, Value: "clustering", Title: "Clustering", Text: "No labels exist, validation relies on structure."},
	{Attribute: profile.AttrProblemType, Value: "time-series", Title: "Time-Series", Text: "Random splits cause leakage."},
	{Attribute: profile.AttrGaussian, Value: "false", Title: "Non-Gaussian", Text: "Tree models work better due to no distribution assumptions."},
	{Attribute: profile.AttrGaussian, Value: "true", Title: "Gaussian", Text: "Linear & discriminant models are statistically efficient."},
	{Attribute: profile.AttrClassImbalance, Value: "true", Title: "Imbalance", Text: "Use Precision/Recall instead of Accuracy."},
	{Attribute: profile.AttrErrorFocus, Value: "fp", Title: "FP Costly", Text: "Precision minimizes false alarms."},
	{Attribute: profile.AttrErrorFocus, Value: "fn", Title: "FN Costly", Text: "Recall avoids missing positives."},
	{Attribute: profile.AttrPGreaterThanN, Value: "true", Title: "p ≫ n", Text: "Regularization or PCA is mandatory."},
}

var index = buildIndex()

func buildIndex() map[key]int {
	m := make(map[key]int, len(table))
	for i, n := range table {
		v, err := parseTableValue(n.Attribute, n.Value)
		if err != nil {
			panic(fmt.Sprintf("notes table entry %d: %v", i, err))
		}
		m[key{n.Attribute, v}] = i
	}
	return m
}

func parseTableValue(attr profile.Attribute, s string) (profile.Value, error) {
	if attr.Kind() == profile.KindBool {
		return profile.ParseValue(attr, s == "true")
	}
	return profile.ParseValue(attr, s)
}

// Lookup returns the note for one attribute value, if there is one.
func Lookup(attr profile.Attribute, v profile.Value) (Note, bool) {
	i, ok := index[key{attr, v}]
	if !ok {
		return Note{}, false
	}
	return table[i], true
}

// For returns every note that applies to p.
func For(p profile.Profile) []Note {
	out := []Note{}
	for _, n := range table {
		if got, ok := Lookup(n.Attribute, p.Value(n.Attribute)); ok && got == n {
			out = append(out, n)
		}
	}
	return out
}

// Tips returns general modelling advice that applies to every profile.
func Tips() []string {
	return []string{
		"Always compare against a simple baseline.",
		"EDA quality matters more than hyperparameter tuning.",
		"Cross-validation beats a single split.",
		"Tree models are safest for messy real-world data.",
	}
}

// Checklist returns what to tune, per model family, when comparing models.
func Checklist() []ChecklistItem {
	return []ChecklistItem{
		{Family: "Linear / Logistic", Advice: "Tune L1 vs L2 regularization."},
		{Family: "LDA / QDA", Advice: "Validate Gaussian assumption & covariance."},
		{Family: "Decision Tree", Advice: "Tune max depth, min samples per leaf."},
		{Family: "Random Forest", Advice: "Tune n_estimators, max_features."},
		{Family: "Boosting", Advice: "Tune learning rate before adding trees."},
		{Family: "SVM", Advice: "Tune C and kernel choice."},
		{Family: "K-Means", Advice: "Experiment with K and distance metric."},
		{Family: "Time-Series Models", Advice: "Validate trend & seasonality."},
	}
}

// Markdown renders notes as a markdown bullet list.
func Markdown(notes []Note) string {
	var b strings.Builder
	for _, n := range notes {
		b.WriteString("- ")
		b.WriteString(n.Markdown())
		b.WriteString("\n")
	}
	return b.String()
}

// RenderHTML converts markdown to HTML.
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("rendering notes: %w", err)
	}
	return buf.String(), nil
}
