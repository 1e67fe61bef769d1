// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/arthur-debert/cirules/pkg/errors"
	"github.com/arthur-debert/cirules/pkg/lint"
	"github.com/arthur-debert/cirules/pkg/store"
	"github.com/arthur-debert/cirules/pkg/types"
	"github.com/arthur-debert/cirules/pkg/variables"
)

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{output: output}, nil
}

// RenderResult renders any result type as plain text
func (r *Renderer) RenderResult(result interface{}) error {
	var b strings.Builder
	switch v := result.(type) {
	case *types.Evaluation:
		writeEvaluation(&b, v)
	case lint.Result:
		writeLint(&b, v)
	case *lint.Result:
		writeLint(&b, *v)
	case *store.Record:
		writeRecord(&b, v)
	case []*store.Record:
		for _, rec := range v {
			b.WriteString(RecordLine(rec) + "\n")
		}
	case variables.Listing:
		for _, e := range v {
			b.WriteString(VariableLine(e) + "\n")
		}
	default:
		fmt.Fprintf(&b, "%+v\n", result)
	}
	_, err := io.WriteString(r.output, b.String())
	return err
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	var b strings.Builder
	for _, msg := range errors.Messages(err) {
		fmt.Fprintf(&b, "Error: %s\n", msg)
	}
	_, werr := io.WriteString(r.output, b.String())
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

// RuleLabel names the clause a decision came from
func RuleLabel(i int) string {
	if i == types.NoRuleMatched {
		return "no rules"
	}
	return fmt.Sprintf("rule #%d", i+1)
}

// JobDetails lists the attributes shown after a job's name
func JobDetails(d types.JobDecision) string {
	parts := []string{"when=" + string(d.When)}
	if d.StartIn != "" {
		parts = append(parts, "start_in="+d.StartIn)
	}
	parts = append(parts, fmt.Sprintf("allow_failure=%t", d.AllowFailure))
	if len(d.AllowFailureExitCodes) > 0 {
		parts = append(parts, fmt.Sprintf("exit_codes=%v", d.AllowFailureExitCodes))
	}
	return strings.Join(parts, " ")
}

// RecordLine is the one-line summary of a history record
func RecordLine(rec *store.Record) string {
	line := fmt.Sprintf("%s  %s  %-7s  %s", rec.ID, rec.CreatedAt.UTC().Format(time.RFC3339), rec.Status, rec.Ref)
	if rec.ErrorCode != "" {
		line += "  " + string(rec.ErrorCode)
	}
	return line
}

// VariableLine prints a variable as NAME=value, or "NAME unset"
func VariableLine(e variables.Entry) string {
	if !e.Set {
		return e.Name + " unset"
	}
	return e.Name + "=" + e.Value
}

func writeEvaluation(b *strings.Builder, e *types.Evaluation) {
	fmt.Fprintf(b, "Workflow: proceed (%s)\n", RuleLabel(e.Workflow.MatchedRule))
	fmt.Fprintf(b, "Jobs (%d):\n", len(e.Jobs))
	for _, d := range e.Jobs {
		fmt.Fprintf(b, "  %s [%s] %s (%s)\n", d.JobName, d.Stage, JobDetails(d), RuleLabel(d.MatchedRule))
	}
	if len(e.Excluded) > 0 {
		fmt.Fprintf(b, "Excluded: %s\n", strings.Join(e.Excluded, ", "))
	}
}

func writeLint(b *strings.Builder, res lint.Result) {
	if res.Valid {
		b.WriteString("Syntax is correct\n")
	} else {
		b.WriteString("Syntax is incorrect\n")
	}
	writeList(b, "Errors", res.Errors)
	writeList(b, "Warnings", res.Warnings)
	if len(res.Jobs) > 0 {
		b.WriteString("Jobs:\n")
		for _, j := range res.Jobs {
			fmt.Fprintf(b, "  %s [%s] when=%s\n", j.Name, j.Stage, j.When)
		}
	}
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "  - %s\n", item)
	}
}

func writeRecord(b *strings.Builder, rec *store.Record) {
	b.WriteString(RecordLine(rec) + "\n")
	if rec.Evaluation != nil {
		writeEvaluation(b, rec.Evaluation)
	}
	if rec.Error != "" {
		for _, msg := range strings.Split(rec.Error, "\n") {
			fmt.Fprintf(b, "Error: %s\n", msg)
		}
	}
}
