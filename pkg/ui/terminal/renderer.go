// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/cirules/pkg/errors"
	"github.com/arthur-debert/cirules/pkg/lint"
	"github.com/arthur-debert/cirules/pkg/store"
	"github.com/arthur-debert/cirules/pkg/style"
	"github.com/arthur-debert/cirules/pkg/types"
	"github.com/arthur-debert/cirules/pkg/ui/text"
	"github.com/arthur-debert/cirules/pkg/variables"
)

// Renderer renders results with lipgloss styles
type Renderer struct {
	output io.Writer
}

// New creates a new terminal renderer
func New(w io.Writer) (*Renderer, error) {
	return &Renderer{output: w}, nil
}

// RenderResult renders any result type with rich terminal formatting
func (r *Renderer) RenderResult(result interface{}) error {
	var out string
	switch v := result.(type) {
	case *types.Evaluation:
		out = evaluation(v)
	case lint.Result:
		out = lintResult(v)
	case *lint.Result:
		out = lintResult(*v)
	case *store.Record:
		out = record(v)
	case []*store.Record:
		lines := make([]string, 0, len(v))
		for _, rec := range v {
			lines = append(lines, recordLine(rec))
		}
		out = strings.Join(lines, "\n")
	case variables.Listing:
		out = listing(v)
	default:
		out = fmt.Sprintf("%+v", result)
	}
	_, err := fmt.Fprintln(r.output, out)
	return err
}

// RenderError renders each message of err with the error indicator
func (r *Renderer) RenderError(err error) error {
	lines := []string{}
	for _, msg := range errors.Messages(err) {
		lines = append(lines, style.ErrorIndicator+" "+style.ErrorStyle.Render(msg))
	}
	_, werr := fmt.Fprintln(r.output, strings.Join(lines, "\n"))
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, style.InfoIndicator+" "+style.NormalStyle.Render(msg))
	return err
}

func evaluation(e *types.Evaluation) string {
	lines := []string{
		style.TitleStyle.Render("Pipeline created") + " " +
			style.MutedStyle.Render("workflow: "+text.RuleLabel(e.Workflow.MatchedRule)),
	}
	for _, d := range e.Jobs {
		lines = append(lines, jobLine(d))
	}
	for _, name := range e.Excluded {
		lines = append(lines, style.SkippedIndicator+" "+style.MutedStyle.Render(name+" (excluded)"))
	}
	return style.BoxStyle.Render(strings.Join(lines, "\n"))
}

func jobLine(d types.JobDecision) string {
	parts := []string{
		style.SuccessIndicator,
		style.JobNameStyle.Render(d.JobName),
		style.StageStyle.Render(d.Stage),
		style.RenderWhen(d.When),
	}
	if d.StartIn != "" {
		parts = append(parts, style.WhenStyle(types.WhenDelayed).Render("in "+d.StartIn))
	}
	if d.AllowFailure {
		parts = append(parts, style.WarningStyle.Render("allow_failure"))
	} else if len(d.AllowFailureExitCodes) > 0 {
		parts = append(parts, style.WarningStyle.Render(fmt.Sprintf("allow_failure on %v", d.AllowFailureExitCodes)))
	}
	parts = append(parts, style.MutedStyle.Render("("+text.RuleLabel(d.MatchedRule)+")"))
	return strings.Join(parts, " ")
}

func lintResult(res lint.Result) string {
	var lines []string
	if res.Valid {
		lines = append(lines, style.SuccessIndicator+" "+style.SuccessStyle.Render("Syntax is correct"))
	} else {
		lines = append(lines, style.ErrorIndicator+" "+style.ErrorStyle.Render("Syntax is incorrect"))
	}
	for _, e := range res.Errors {
		lines = append(lines, style.Indent(style.ErrorIndicator+" "+e, 1))
	}
	for _, w := range res.Warnings {
		lines = append(lines, style.Indent(style.WarningIndicator+" "+style.WarningStyle.Render(w), 1))
	}
	if len(res.Jobs) > 0 {
		lines = append(lines, style.SubtitleStyle.Render("Jobs"))
		for _, j := range res.Jobs {
			lines = append(lines, style.Indent(
				style.JobNameStyle.Render(j.Name)+" "+style.StageStyle.Render(j.Stage)+" "+style.RenderWhen(j.When), 1))
		}
	}
	return strings.Join(lines, "\n")
}

func recordLine(rec *store.Record) string {
	indicator := style.SuccessIndicator
	if rec.Status == store.StatusFailed {
		indicator = style.ErrorIndicator
	}
	return indicator + " " + text.RecordLine(rec)
}

func record(rec *store.Record) string {
	lines := []string{recordLine(rec)}
	if rec.Evaluation != nil {
		lines = append(lines, evaluation(rec.Evaluation))
	}
	if rec.Error != "" {
		for _, msg := range strings.Split(rec.Error, "\n") {
			lines = append(lines, style.Indent(style.ErrorStyle.Render(msg), 1))
		}
	}
	return strings.Join(lines, "\n")
}

func listing(l variables.Listing) string {
	lines := make([]string, 0, len(l))
	for _, e := range l {
		line := style.JobNameStyle.Render(e.Name) + " "
		if e.Set {
			line += style.NormalStyle.Render(e.Value)
		} else {
			line += style.MutedStyle.Render("unset")
		}
		if e.Description != "" {
			line += "  " + style.MutedStyle.Render(e.Description)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
