// Package lint validates a pipeline definition without creating a
// pipeline. The static pass checks what can be known from the definition
// alone; the dry run evaluates it against a concrete pipeline context.
package lint

import (
	"context"
	"fmt"

	"github.com/arthur-debert/cirules/pkg/errors"
	"github.com/arthur-debert/cirules/pkg/evaluator"
	"github.com/arthur-debert/cirules/pkg/expression"
	"github.com/arthur-debert/cirules/pkg/globs"
	"github.com/arthur-debert/cirules/pkg/instrument"
	"github.com/arthur-debert/cirules/pkg/logging"
	"github.com/arthur-debert/cirules/pkg/pipeline"
	"github.com/arthur-debert/cirules/pkg/startin"
	"github.com/arthur-debert/cirules/pkg/types"
)

// DefaultMaxWarnings caps the warnings of one result
const DefaultMaxWarnings = 25

// PipelineWarningsURL documents the multiple pipelines warning
const PipelineWarningsURL = "https://docs.gitlab.com/ee/ci/troubleshooting.html#pipeline-warnings"

// Job is a job as the linter reports it
type Job struct {
	Name                  string     `json:"name"`
	Stage                 string     `json:"stage"`
	Script                []string   `json:"script,omitempty"`
	When                  types.When `json:"when"`
	AllowFailure          bool       `json:"allow_failure"`
	AllowFailureExitCodes []int      `json:"allow_failure_exit_codes,omitempty"`
}

// Result is the outcome of a lint run
type Result struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Jobs     []Job    `json:"jobs"`
}

// Options control a lint run
type Options struct {
	MaxWarnings int

	// DryRun evaluates the definition with Request, reporting the jobs the
	// attempt would create instead of every declared job
	DryRun    bool
	Request   evaluator.Request
	Evaluator *evaluator.Evaluator

	Instrument *instrument.Logger
}

func (o Options) maxWarnings() int {
	if o.MaxWarnings <= 0 {
		return DefaultMaxWarnings
	}
	return o.MaxWarnings
}

// Source parses data and lints the result. Decoding failures are reported
// as lint errors.
func Source(ctx context.Context, data []byte, opts Options) Result {
	var def *types.Definition
	err := opts.Instrument.Instrument("yaml_process", func() error {
		var err error
		def, err = pipeline.Parse(data)
		return err
	})
	if err != nil {
		return invalidResult(errors.Messages(err))
	}
	return Lint(ctx, def, opts)
}

// Lint validates def
func Lint(ctx context.Context, def *types.Definition, opts Options) Result {
	logger := logging.GetLogger("lint")

	res := Result{Errors: []string{}, Warnings: []string{}, Jobs: []Job{}}
	res.Errors = append(res.Errors, staticErrors(def)...)
	res.Warnings = capWarnings(warnings(def), opts.maxWarnings())

	if len(res.Errors) == 0 {
		if opts.DryRun {
			jobs, errs := dryRun(ctx, def, opts)
			res.Jobs = jobs
			res.Errors = append(res.Errors, errs...)
		} else {
			res.Jobs = staticJobs(def)
		}
	}
	res.Valid = len(res.Errors) == 0

	logger.Debug().
		Bool("valid", res.Valid).
		Bool("dry_run", opts.DryRun).
		Int("errors", len(res.Errors)).
		Int("warnings", len(res.Warnings)).
		Msg("Lint finished")
	return res
}

func invalidResult(errs []string) Result {
	return Result{Valid: false, Errors: errs, Warnings: []string{}, Jobs: []Job{}}
}

func staticErrors(def *types.Definition) []string {
	var errs []string
	errs = append(errs, ruleErrors("workflow", def.Workflow.Rules, "")...)
	for _, job := range def.Jobs {
		prefix := "jobs:" + job.Name
		if job.When.IsSet() && !job.When.Valid() {
			errs = append(errs, fmt.Sprintf("%s when unknown value: %s", prefix, job.When))
		}
		if !job.HasRules() && job.When == types.WhenDelayed {
			errs = append(errs, startInErrors(prefix, job.StartIn)...)
		}
		errs = append(errs, ruleErrors(prefix, job.Rules, job.StartIn)...)
	}
	return errs
}

func ruleErrors(prefix string, rules types.RuleSet, jobStartIn string) []string {
	var errs []string
	for _, clause := range rules {
		if clause.If != "" {
			if _, err := expression.Parse(clause.If); err != nil {
				errs = append(errs, fmt.Sprintf("%s rules:if %s", prefix, errors.Messages(err)[0]))
			}
		}
		if clause.When.IsSet() && !clause.When.Valid() {
			errs = append(errs, fmt.Sprintf("%s rules:when unknown value: %s", prefix, clause.When))
		}
		if clause.Changes != nil {
			errs = append(errs, patternErrors(prefix+" rules:changes", clause.Changes.Paths)...)
		}
		errs = append(errs, patternErrors(prefix+" rules:exists", clause.Exists)...)
		if clause.When == types.WhenDelayed {
			s := clause.StartIn
			if s == "" {
				s = jobStartIn
			}
			errs = append(errs, startInErrors(prefix, s)...)
		}
	}
	return errs
}

func patternErrors(prefix string, patterns []string) []string {
	var errs []string
	for _, p := range patterns {
		if !globs.Valid(p) {
			errs = append(errs, fmt.Sprintf("%s pattern %q is invalid", prefix, p))
		}
	}
	return errs
}

func startInErrors(prefix, s string) []string {
	if s == "" {
		return []string{prefix + " start_in should be specified for delayed job"}
	}
	if err := startin.Validate(s); err != nil {
		return []string{prefix + " start_in should be a duration of one week or less"}
	}
	return nil
}

// warnings flags jobs that may run in several pipelines for one push: the
// last clause only sets `when`, so it matches branch and merge request
// pipelines alike, and no workflow rules pick one of them
func warnings(def *types.Definition) []string {
	if def.Workflow.HasRules() {
		return nil
	}
	var out []string
	for _, job := range def.Jobs {
		if !job.HasRules() {
			continue
		}
		last := job.Rules[len(job.Rules)-1]
		if last.OnlyWhen() && last.When != types.WhenNever {
			out = append(out, fmt.Sprintf(
				"jobs:%s may allow multiple pipelines to run for a single action due to `rules:when` clause with no `workflow:rules` - read more: %s",
				job.Name, PipelineWarningsURL))
		}
	}
	return out
}

func capWarnings(warnings []string, limit int) []string {
	if warnings == nil {
		return []string{}
	}
	if len(warnings) > limit {
		return warnings[:limit]
	}
	return warnings
}

// staticJobs lists every declared job in stage order
func staticJobs(def *types.Definition) []Job {
	jobs := []Job{}
	seen := make(map[string]bool)
	for _, stage := range def.Stages {
		for _, job := range def.Jobs {
			if job.Stage != stage || seen[job.Name] {
				continue
			}
			seen[job.Name] = true
			allowFailure, codes := evaluator.ResolveAllowFailure(types.AllowFailure{}, job.AllowFailure)
			jobs = append(jobs, Job{
				Name:                  job.Name,
				Stage:                 job.Stage,
				Script:                job.Script,
				When:                  evaluator.ResolveWhen("", job.When),
				AllowFailure:          allowFailure,
				AllowFailureExitCodes: codes,
			})
		}
	}
	return jobs
}

func dryRun(ctx context.Context, def *types.Definition, opts Options) ([]Job, []string) {
	ev := opts.Evaluator
	if ev == nil {
		ev = evaluator.New(evaluator.DefaultOptions())
	}
	req := opts.Request
	req.Definition = def
	if req.Caller == "" {
		req.Caller = "lint"
	}

	result, err := ev.Evaluate(ctx, req)
	if err != nil {
		return []Job{}, errors.Messages(err)
	}

	jobs := make([]Job, 0, len(result.Jobs))
	for _, d := range result.Jobs {
		spec, _ := def.Job(d.JobName)
		jobs = append(jobs, Job{
			Name:                  d.JobName,
			Stage:                 d.Stage,
			Script:                spec.Script,
			When:                  d.When,
			AllowFailure:          d.AllowFailure,
			AllowFailureExitCodes: d.AllowFailureExitCodes,
		})
	}
	return jobs, nil
}
