package main

import (
	"fmt"
	"io"

	"github.com/spboyer/modelpick/internal/notes"
	"github.com/spf13/cobra"
)

type notesOutput struct {
	Notes     []notes.Note          `json:"notes" yaml:"notes"`
	Tips      []string              `json:"tips" yaml:"tips"`
	Checklist []notes.ChecklistItem `json:"checklist" yaml:"checklist"`
}

func newNotesCommand(app *cli) *cobra.Command {
	var (
		flags  profileFlags
		format string
		html   bool
	)

	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Show advisory notes, general tips and a tuning checklist",
		Long: `Show the advisory notes that apply to a profile, followed by general
modelling tips and what to tune per model family.

The profile is built from the same flags as "recommend". With --html the
notes are rendered to HTML instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := flags.resolve(cmd, app.config())
			if err != nil {
				return err
			}
			applicable := notes.For(p)
			out := cmd.OutOrStdout()

			if html {
				rendered, err := notes.RenderHTML(notes.Markdown(applicable))
				if err != nil {
					return err
				}
				_, err = io.WriteString(out, rendered)
				return err
			}

			format, err := outputFormat(cmd, format, app.config())
			if err != nil {
				return err
			}
			if format != "table" {
				return writeStructured(out, format, notesOutput{
					Notes:     applicable,
					Tips:      notes.Tips(),
					Checklist: notes.Checklist(),
				})
			}
			printNotes(out, applicable)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json or yaml")
	cmd.Flags().BoolVar(&html, "html", false, "Render the profile notes as HTML")
	cmd.MarkFlagsMutuallyExclusive("html", "format")
	return cmd
}

func printNotes(w io.Writer, applicable []notes.Note) {
	fmt.Fprintln(w, "Notes for this profile:") //nolint:errcheck
	for _, n := range applicable {
		fmt.Fprintf(w, "  • %s\n", n) //nolint:errcheck
	}

	fmt.Fprintln(w, "\nGeneral tips:") //nolint:errcheck
	for _, t := range notes.Tips() {
		fmt.Fprintf(w, "  • %s\n", t) //nolint:errcheck
	}

	checklist := notes.Checklist()
	families := make([]string, len(checklist))
	for i, c := range checklist {
		families[i] = c.Family
	}
	col := columnWidth(0, families...) + 2

	fmt.Fprintln(w, "\nWhat to tune:") //nolint:errcheck
	for _, c := range checklist {
		fmt.Fprintf(w, "  %s%s\n", padRight(c.Family, col), c.Advice) //nolint:errcheck
	}
}
