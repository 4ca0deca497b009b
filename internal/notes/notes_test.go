package notes

import (
	"testing"

	"github.com/spboyer/modelpick/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(notes []Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.Title
	}
	return out
}

func TestLookup(t *testing.T) {
	n, ok := Lookup(profile.AttrProblemType, profile.Enum("time-series"))
	require.True(t, ok)
	assert.Equal(t, "Random splits cause leakage.", n.Text)

	n, ok = Lookup(profile.AttrGaussian, profile.Bool(false))
	require.True(t, ok)
	assert.Equal(t, "Non-Gaussian", n.Title)

	// Not every value has a note.
	_, ok = Lookup(profile.AttrClassImbalance, profile.Bool(false))
	assert.False(t, ok)

	// An enum "true" is not the bool true.
	_, ok = Lookup(profile.AttrPGreaterThanN, profile.Enum("true"))
	assert.False(t, ok)
}

func TestFor(t *testing.T) {
	tests := []struct {
		name string
		p    profile.Profile
		want []string
	}{
		{
			name: "defaults",
			p:    profile.Default(),
			want: []string{"Classification", "Non-Gaussian", "FP Costly"},
		},
		{
			name: "every flag set",
			p: profile.Profile{
				ProblemType:    profile.ProblemTimeSeries,
				Gaussian:       true,
				ClassImbalance: true,
				PGreaterThanN:  true,
				ErrorFocus:     profile.FocusFalseNegative,
			},
			want: []string{"Time-Series", "Gaussian", "Imbalance", "FN Costly", "p ≫ n"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, titles(For(tt.p)))
		})
	}
}

func TestTipsAndChecklist(t *testing.T) {
	assert.Len(t, Tips(), 4)
	checklist := Checklist()
	require.Len(t, checklist, 8)
	assert.Equal(t, "LDA / QDA", checklist[1].Family)
}

func TestMarkdownAndHTML(t *testing.T) {
	md := Markdown(For(profile.Profile{ProblemType: profile.ProblemRegression, Gaussian: true, ErrorFocus: profile.FocusFalsePositive}))
	assert.Contains(t, md, "- **Regression:** Linear models reveal bias–variance behavior.\n")

	html, err := RenderHTML(md)
	require.NoError(t, err)
	assert.Contains(t, html, "<ul>")
	assert.Contains(t, html, "<li><strong>Regression:</strong> Linear models reveal bias–variance behavior.</li>")
	assert.Contains(t, html, "Linear &amp; discriminant")
}
