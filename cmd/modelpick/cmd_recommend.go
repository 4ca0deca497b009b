package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spboyer/modelpick/internal/dataset"
	"github.com/spboyer/modelpick/internal/models"
	"github.com/spboyer/modelpick/internal/profile"
	"github.com/spboyer/modelpick/internal/recommend"
	"github.com/spboyer/modelpick/internal/wizard"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// maxParallelProfiles bounds concurrent --profile evaluations.
const maxParallelProfiles = 8

type recommendOptions struct {
	profileFlags
	profileFiles []string
	csvFile      string
	interactive  bool
	format       string
	notes        bool
	explain      bool
}

func newRecommendCommand(app *cli) *cobra.Command {
	opts := &recommendOptions{}

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank model families for a dataset profile",
		Long: `Rank model families for a dataset profile.

The profile comes from flags (unset flags fall back to the project defaults),
from one or more --profile files (YAML or JSON, evaluated concurrently and
printed in argument order), from the rows of a --csv batch file, or from an
interactive form with --interactive.

A batch CSV has a header naming the five attributes (problemType, gaussian,
classImbalance, pGreaterThanN, errorFocus) and an optional name column.

Exits with status 1 when a profile is invalid.`,
		Example: `  modelpick recommend --problem-type classification --gaussian --error-focus fn
  modelpick recommend --profile a.yaml --profile b.json --format json
  modelpick recommend --csv datasets.csv --format yaml
  modelpick recommend --interactive --notes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRecommend(cmd, app, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringArrayVar(&opts.profileFiles, "profile", nil, "Profile file to evaluate (repeatable)")
	cmd.Flags().StringVar(&opts.csvFile, "csv", "", "CSV file with one profile per row")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "Collect the profile with an interactive form")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "table", "Output format: table, json or yaml")
	cmd.Flags().BoolVar(&opts.notes, "notes", false, "Include advisory notes for the profile")
	cmd.Flags().BoolVar(&opts.explain, "explain", false, "List the rules that matched")
	cmd.MarkFlagsMutuallyExclusive("profile", "csv", "interactive")

	return cmd
}

func runRecommend(cmd *cobra.Command, app *cli, opts *recommendOptions) error {
	cfg := app.config()
	format, err := outputFormat(cmd, opts.format, cfg)
	if err != nil {
		return err
	}

	reportOpts := recommend.ReportOptions{
		Notes:   opts.notes,
		Explain: opts.explain,
	}
	if !cmd.Flags().Changed("notes") && cfg.Defaults.Notes != nil {
		reportOpts.Notes = *cfg.Defaults.Notes
	}
	if !cmd.Flags().Changed("explain") && cfg.Defaults.Explain != nil {
		reportOpts.Explain = *cfg.Defaults.Explain
	}

	engine, err := app.recommender()
	if err != nil {
		return err
	}

	var (
		reports []*models.Report
		labels  []string
	)
	switch {
	case len(opts.profileFiles) > 0:
		sources := make([]profileSource, len(opts.profileFiles))
		for i, path := range opts.profileFiles {
			sources[i] = func() (profile.Profile, error) {
				return profile.LoadFile(path)
			}
		}
		if reports, err = evaluateSources(engine, sources, reportOpts); err != nil {
			return err
		}
		labels = opts.profileFiles
	case opts.csvFile != "":
		entries, err := dataset.LoadProfiles(opts.csvFile)
		if err != nil {
			return err
		}
		sources := make([]profileSource, len(entries))
		labels = make([]string, len(entries))
		for i, e := range entries {
			sources[i] = func() (profile.Profile, error) {
				return e.Profile, nil
			}
			labels[i] = e.Name
		}
		if reports, err = evaluateSources(engine, sources, reportOpts); err != nil {
			return err
		}
	default:
		p, err := opts.resolve(cmd, cfg)
		if err != nil {
			return err
		}
		if opts.interactive {
			p, err = wizard.RunProfileWizard(cmd.InOrStdin(), cmd.OutOrStdout(), p)
			if err != nil {
				return err
			}
		}
		report, err := engine.Report(p, reportOpts)
		if err != nil {
			return err
		}
		reports = []*models.Report{report}
	}

	for _, r := range reports {
		slog.Debug("profile evaluated",
			"problemType", r.Profile.ProblemType,
			"recommendations", len(r.Recommendations))
	}

	out := cmd.OutOrStdout()
	if format != "table" {
		// Batches always render as a list, even of one.
		if labels == nil {
			return writeStructured(out, format, reports[0])
		}
		return writeStructured(out, format, reports)
	}

	for i, r := range reports {
		if labels != nil {
			if i > 0 {
				fmt.Fprintln(out) //nolint:errcheck
			}
			fmt.Fprintf(out, "== %s ==\n", labels[i]) //nolint:errcheck
		}
		printReport(out, r)
	}
	return nil
}

// profileSource yields one profile of a batch.
type profileSource func() (profile.Profile, error)

// evaluateSources loads and evaluates every source concurrently. Results keep
// input order; every failing source is reported.
func evaluateSources(engine *recommend.Engine, sources []profileSource, opts recommend.ReportOptions) ([]*models.Report, error) {
	reports := make([]*models.Report, len(sources))
	errs := make([]error, len(sources))

	var g errgroup.Group
	g.SetLimit(maxParallelProfiles)
	for i, src := range sources {
		g.Go(func() error {
			p, err := src()
			if err != nil {
				errs[i] = err
				return nil
			}
			reports[i], errs[i] = engine.Report(p, opts)
			return nil
		})
	}
	_ = g.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return reports, nil
}

func printReport(w io.Writer, r *models.Report) {
	fmt.Fprintf(w, "Profile: %s\n\n", describeProfile(r.Profile)) //nolint:errcheck

	if len(r.Recommendations) == 0 {
		fmt.Fprintln(w, "No rule matched this profile.") //nolint:errcheck
	} else {
		printRecommendationTable(w, r.Recommendations)
	}

	if r.MatchedRules != nil {
		matched := "none"
		if len(r.MatchedRules) > 0 {
			matched = strings.Join(r.MatchedRules, ", ")
		}
		fmt.Fprintf(w, "\nMatched rules: %s\n", matched) //nolint:errcheck
	}

	if len(r.Notes) > 0 {
		fmt.Fprintln(w, "\nNotes:") //nolint:errcheck
		for _, n := range r.Notes {
			fmt.Fprintf(w, "  • %s\n", n) //nolint:errcheck
		}
	}
}

func printRecommendationTable(w io.Writer, recs []models.Recommendation) {
	outputs := make([]string, len(recs))
	for i, r := range recs {
		outputs[i] = r.Output
	}
	const colRank, colScore = 4, 7
	colModel := columnWidth(len("Model"), outputs...) + 2

	fmt.Fprintf(w, "%s%s%s%s\n", //nolint:errcheck
		padRight("#", colRank),
		padRight("Model", colModel),
		padRight("Score", colScore),
		"Why")
	fmt.Fprintln(w, strings.Repeat("─", colRank+colModel+colScore+24)) //nolint:errcheck

	for i, r := range recs {
		fmt.Fprintf(w, "%s%s%s%s\n", //nolint:errcheck
			padRight(strconv.Itoa(i+1), colRank),
			padRight(r.Output, colModel),
			padRight(fmt.Sprintf("%d%%", r.Percent()), colScore),
			strings.Join(r.Rationale, " "))
	}
}

func describeProfile(p profile.Profile) string {
	dist := "non-Gaussian"
	if p.Gaussian {
		dist = "Gaussian"
	}
	parts := []string{string(p.ProblemType), dist}
	if p.ClassImbalance {
		parts = append(parts, "imbalanced")
	}
	if p.PGreaterThanN {
		parts = append(parts, "p ≫ n")
	}
	parts = append(parts, string(p.ErrorFocus)+" costly")
	return strings.Join(parts, ", ")
}
