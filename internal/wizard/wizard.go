// Package wizard collects a dataset profile interactively.
package wizard

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spboyer/modelpick/internal/profile"
	"golang.org/x/term"
)

const (
	distributionGaussian    = "gaussian"
	distributionNonGaussian = "non-gaussian"
)

// answers mirrors the form controls; the distribution is a two-way select
// rather than a checkbox, as in the original dataset form.
type answers struct {
	ProblemType    string
	Distribution   string
	ErrorFocus     string
	ClassImbalance bool
	PGreaterThanN  bool
}

func answersFrom(p profile.Profile) answers {
	dist := distributionNonGaussian
	if p.Gaussian {
		dist = distributionGaussian
	}
	return answers{
		ProblemType:    string(p.ProblemType),
		Distribution:   dist,
		ErrorFocus:     string(p.ErrorFocus),
		ClassImbalance: p.ClassImbalance,
		PGreaterThanN:  p.PGreaterThanN,
	}
}

// Profile converts the collected answers into a validated profile.
func (a answers) Profile() (profile.Profile, error) {
	var gaussian bool
	switch a.Distribution {
	case distributionGaussian:
		gaussian = true
	case distributionNonGaussian:
	default:
		return profile.Profile{}, fmt.Errorf("%w: unknown feature distribution %q", profile.ErrInvalidProfile, a.Distribution)
	}

	p := profile.Profile{
		ProblemType:    profile.ProblemType(a.ProblemType),
		Gaussian:       gaussian,
		ClassImbalance: a.ClassImbalance,
		PGreaterThanN:  a.PGreaterThanN,
		ErrorFocus:     profile.ErrorFocus(a.ErrorFocus),
	}
	if err := p.Validate(); err != nil {
		return profile.Profile{}, err
	}
	return p, nil
}

var problemTypeLabels = map[profile.ProblemType]string{
	profile.ProblemClassification: "Classification",
	profile.ProblemRegression:     "Regression",
	profile.ProblemClustering:     "Clustering",
	profile.ProblemTimeSeries:     "Time-Series",
}

var errorFocusLabels = map[profile.ErrorFocus]string{
	profile.FocusFalsePositive: "False Positives",
	profile.FocusFalseNegative: "False Negatives",
}

func problemTypeOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(problemTypeLabels))
	for _, pt := range profile.ProblemTypes() {
		opts = append(opts, huh.NewOption(problemTypeLabels[pt], string(pt)))
	}
	return opts
}

func errorFocusOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(errorFocusLabels))
	for _, f := range profile.ErrorFoci() {
		opts = append(opts, huh.NewOption(errorFocusLabels[f], string(f)))
	}
	return opts
}

func newForm(a *answers) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Problem type").
				Options(problemTypeOptions()...).
				Value(&a.ProblemType),
			huh.NewSelect[string]().
				Title("Feature distribution").
				Options(
					huh.NewOption("Gaussian", distributionGaussian),
					huh.NewOption("Non-Gaussian", distributionNonGaussian),
				).
				Value(&a.Distribution),
			huh.NewSelect[string]().
				Title("Error cost focus").
				Description("Which mistake is more expensive?").
				Options(errorFocusOptions()...).
				Value(&a.ErrorFocus),
			huh.NewConfirm().
				Title("Class imbalance?").
				Affirmative("Yes").
				Negative("No").
				Value(&a.ClassImbalance),
			huh.NewConfirm().
				Title("p ≫ n (high dimensional)?").
				Affirmative("Yes").
				Negative("No").
				Value(&a.PGreaterThanN),
		),
	)
}

// RunProfileWizard runs an interactive huh form pre-filled with initial and
// returns the profile the user confirmed.
func RunProfileWizard(in io.Reader, out io.Writer, initial profile.Profile) (profile.Profile, error) {
	a := answersFrom(initial)

	form := newForm(&a).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return profile.Profile{}, fmt.Errorf("wizard failed: %w", err)
	}
	return a.Profile()
}
