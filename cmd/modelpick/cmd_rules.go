package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spboyer/modelpick/internal/knowledge"
	"github.com/spboyer/modelpick/internal/models"
	"github.com/spboyer/modelpick/internal/validation"
	"github.com/spf13/cobra"
)

func newRulesCommand(app *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect and validate knowledge bases",
	}
	cmd.AddCommand(newRulesListCommand(app))
	cmd.AddCommand(newRulesValidateCommand())
	cmd.AddCommand(newRulesExportCommand(app))
	return cmd
}

func newRulesListCommand(app *cli) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the active rules in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd, format, app.config())
			if err != nil {
				return err
			}
			engine, err := app.recommender()
			if err != nil {
				return err
			}

			summaries := models.SummarizeRules(engine.Rules())
			if format != "table" {
				return writeStructured(cmd.OutOrStdout(), format, summaries)
			}
			printRulesTable(cmd.OutOrStdout(), summaries)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json or yaml")
	return cmd
}

func printRulesTable(w io.Writer, rules []models.RuleSummary) {
	ids := make([]string, len(rules))
	conds := make([]string, len(rules))
	for i, r := range rules {
		ids[i] = r.ID
		conds[i] = r.Condition
	}
	colID := columnWidth(len("ID"), ids...) + 2
	colWeight := 8
	colCond := columnWidth(len("When"), conds...) + 2

	fmt.Fprintf(w, "%s%s%s%s\n", //nolint:errcheck
		padRight("ID", colID),
		padRight("Weight", colWeight),
		padRight("When", colCond),
		"Candidates")
	fmt.Fprintln(w, strings.Repeat("─", colID+colWeight+colCond+30)) //nolint:errcheck

	for _, r := range rules {
		fmt.Fprintf(w, "%s%s%s%s\n", //nolint:errcheck
			padRight(r.ID, colID),
			padRight(strconv.FormatFloat(r.Weight, 'f', -1, 64), colWeight),
			padRight(r.Condition, colCond),
			strings.Join(r.Candidates, ", "))
	}
}

func newRulesValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file> [file...]",
		Short: "Check knowledge base files against the schema and rule invariants",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				if !validateRulesFile(out, path) {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d file(s) failed validation", knowledge.ErrInvalidKnowledgeBase, failed, len(args))
			}
			return nil
		},
	}
}

// validateRulesFile prints the outcome for one file and reports whether it
// passed.
func validateRulesFile(w io.Writer, path string) bool {
	schemaErrs, err := validation.ValidateKnowledgeBaseFile(path)
	if err != nil {
		fmt.Fprintf(w, "❌ %s\n   %v\n", path, err) //nolint:errcheck
		return false
	}
	if len(schemaErrs) > 0 {
		fmt.Fprintf(w, "❌ %s\n", path) //nolint:errcheck
		for _, e := range schemaErrs {
			fmt.Fprintf(w, "   %s\n", e) //nolint:errcheck
		}
		return false
	}

	kb, err := knowledge.LoadFile(path)
	if err != nil {
		fmt.Fprintf(w, "❌ %s\n   %s\n", path, strings.TrimPrefix(err.Error(), path+": ")) //nolint:errcheck
		return false
	}

	fmt.Fprintf(w, "✅ %s (%d rules)\n", path, kb.Len()) //nolint:errcheck
	return true
}

func newRulesExportCommand(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the active knowledge base as YAML",
		Long: `Print the active knowledge base as a YAML document that "rules validate"
accepts and --kb can load. Useful as a starting point for a custom rule set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kb, err := app.knowledgeBase()
			if err != nil {
				return err
			}
			data, err := knowledge.Marshal(kb)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
