package recommend

import (
	"github.com/spboyer/modelpick/internal/models"
	"github.com/spboyer/modelpick/internal/notes"
	"github.com/spboyer/modelpick/internal/profile"
)

// ReportOptions selects the optional parts of a report.
type ReportOptions struct {
	Explain bool // include matched rule IDs
	Notes   bool // include advisory notes
	HTML    bool // also render the notes as HTML; implies Notes
}

// Report evaluates p and assembles the optional extras around the ranking.
func (e *Engine) Report(p profile.Profile, opts ReportOptions) (*models.Report, error) {
	ev, err := e.Explain(p)
	if err != nil {
		return nil, err
	}

	report := &models.Report{
		Profile:         p,
		Recommendations: ev.Recommendations,
	}
	if opts.Explain {
		report.MatchedRules = ev.MatchedRules
	}
	if opts.Notes || opts.HTML {
		report.Notes = notes.For(p)
	}
	if opts.HTML {
		html, err := notes.RenderHTML(notes.Markdown(report.Notes))
		if err != nil {
			return nil, err
		}
		report.NotesHTML = html
	}
	return report, nil
}
