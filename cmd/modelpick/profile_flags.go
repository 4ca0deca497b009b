package main

import (
	"github.com/spboyer/modelpick/internal/profile"
	"github.com/spboyer/modelpick/internal/projectconfig"
	"github.com/spf13/cobra"
)

// profileFlags are the per-attribute flags shared by recommend and notes.
type profileFlags struct {
	problemType    string
	gaussian       bool
	classImbalance bool
	pGreaterThanN  bool
	errorFocus     string
}

func (f *profileFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.problemType, "problem-type", "", "classification, regression, clustering or time-series")
	cmd.Flags().BoolVar(&f.gaussian, "gaussian", false, "Features are roughly Gaussian")
	cmd.Flags().BoolVar(&f.classImbalance, "class-imbalance", false, "Classes are imbalanced")
	cmd.Flags().BoolVar(&f.pGreaterThanN, "p-gt-n", false, "More features than samples")
	cmd.Flags().StringVar(&f.errorFocus, "error-focus", "", "Costlier error: fp or fn")
}

// resolve starts from the configured defaults and applies only the flags the
// user set explicitly.
func (f *profileFlags) resolve(cmd *cobra.Command, cfg *projectconfig.ProjectConfig) (profile.Profile, error) {
	p, err := cfg.Defaults.Profile.Profile()
	if err != nil {
		return profile.Profile{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("problem-type") {
		p.ProblemType = profile.ProblemType(f.problemType)
	}
	if flags.Changed("gaussian") {
		p.Gaussian = f.gaussian
	}
	if flags.Changed("class-imbalance") {
		p.ClassImbalance = f.classImbalance
	}
	if flags.Changed("p-gt-n") {
		p.PGreaterThanN = f.pGreaterThanN
	}
	if flags.Changed("error-focus") {
		p.ErrorFocus = profile.ErrorFocus(f.errorFocus)
	}

	if err := p.Validate(); err != nil {
		return profile.Profile{}, err
	}
	return p, nil
}
