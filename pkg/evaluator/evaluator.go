package evaluator

import (
	"context"
	stderrors "errors"

	"github.com/arthur-debert/cirules/pkg/errors"
	"github.com/arthur-debert/cirules/pkg/instrument"
	"github.com/arthur-debert/cirules/pkg/logging"
	"github.com/arthur-debert/cirules/pkg/repository"
	"github.com/arthur-debert/cirules/pkg/rules"
	"github.com/arthur-debert/cirules/pkg/types"
	"github.com/arthur-debert/cirules/pkg/variables"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Messages of the pipeline-level failures
const (
	MsgFilteredByWorkflow = "Pipeline filtered out by workflow rules."
	MsgNoStagesOrJobs     = "No stages / jobs for this pipeline."
)

// DefaultWorkers is the job evaluation concurrency when none is configured
const DefaultWorkers = 4

// Options tune an Evaluator
type Options struct {
	CompareTo             types.CompareToMode
	Workers               int
	MaxPatternComparisons int
}

// DefaultOptions returns enforced compare_to, DefaultWorkers and the default
// exists budget
func DefaultOptions() Options {
	return Options{
		CompareTo:             types.CompareToEnforced,
		Workers:               DefaultWorkers,
		MaxPatternComparisons: rules.DefaultMaxPatternComparisons,
	}
}

// Request is one pipeline-creation attempt
type Request struct {
	Definition *types.Definition
	Pipeline   variables.PipelineInfo

	// Variables are supplied from outside the definition (trigger, schedule
	// or manual run). They override root variables and are never hidden by
	// inherit:variables.
	Variables map[string]string

	// Resolver answers changes and exists queries. Nil means no repository.
	Resolver repository.Resolver

	// Instrument is optional. When set the attempt is committed to it.
	Instrument *instrument.Logger
	Caller     string
}

// Evaluator runs pipeline-creation attempts. It is safe for concurrent use.
type Evaluator struct {
	logger  zerolog.Logger
	matcher *rules.Matcher
	opts    Options
}

// New creates an Evaluator. Zero option fields take their defaults.
func New(opts Options) *Evaluator {
	defaults := DefaultOptions()
	if opts.CompareTo == "" {
		opts.CompareTo = defaults.CompareTo
	}
	if opts.Workers < 1 {
		opts.Workers = defaults.Workers
	}
	if opts.MaxPatternComparisons <= 0 {
		opts.MaxPatternComparisons = defaults.MaxPatternComparisons
	}
	return &Evaluator{
		logger:  logging.GetLogger("evaluator"),
		matcher: rules.NewMatcher(),
		opts:    opts,
	}
}

// Options returns the effective options
func (e *Evaluator) Options() Options {
	return e.opts
}

// jobOutcome is the result slot of one job
type jobOutcome struct {
	decision types.JobDecision
	included bool
	err      error
}

// Evaluate runs the workflow gate and every job's rules
func (e *Evaluator) Evaluate(ctx context.Context, req Request) (*types.Evaluation, error) {
	result, err := e.evaluate(ctx, req)

	if req.Instrument != nil {
		attrs := instrument.Attributes{
			Caller: req.Caller,
			Ref:    variables.RefName(req.Pipeline.Ref),
			Source: req.Pipeline.Source,
		}
		if err != nil {
			attrs.ErrorCode = string(errors.GetErrorCode(err))
		} else {
			attrs.Created = true
			attrs.JobCount = len(result.Jobs)
		}
		req.Instrument.Commit(attrs)
	}
	return result, err
}

func (e *Evaluator) evaluate(ctx context.Context, req Request) (*types.Evaluation, error) {
	if req.Definition == nil {
		return nil, errors.New(errors.ErrInvalidInput, "no pipeline definition")
	}
	def := req.Definition
	logger := e.logger.With().Str("ref", req.Pipeline.Ref).Logger()
	done := logging.LogOperationStart(logger, "evaluate")
	defer done()

	repo := e.repositoryContext(req)
	predefined := req.Pipeline.Variables()

	var workflow types.WorkflowDecision
	err := req.Instrument.Instrument("workflow_rules", func() error {
		var err error
		workflow, err = e.Workflow(ctx, def.Workflow, variables.PipelineScope(predefined, def.Workflow.Variables, req.Variables), repo)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !workflow.Proceed {
		logger.Info().Msg("Pipeline filtered out by workflow rules")
		return nil, errors.New(errors.ErrFilteredByWorkflow, MsgFilteredByWorkflow)
	}

	outcomes := make([]jobOutcome, len(def.Jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for i := range def.Jobs {
		i := i // per-iteration copy (go directive < 1.22)
		job := def.Jobs[i]
		layers := variables.Layers{
			Predefined:  predefined,
			Root:        def.Workflow.Variables,
			Pipeline:    req.Variables,
			Workflow:    workflow.Variables,
			JobBuiltins: variables.JobVariables(job.Name, job.Stage),
			Job:         job.Variables,
			Inherit:     job.InheritVariables,
		}
		g.Go(func() error {
			var out jobOutcome
			err := req.Instrument.Instrument("job_rules", func() error {
				var err error
				out.decision, out.included, err = e.EvaluateJob(gctx, job, layers, repo)
				return err
			})
			if err != nil {
				if !isConfigError(err) {
					return err
				}
				out.err = err
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.Wrap(ctxErr, errors.ErrEvaluationCancelled, "evaluation cancelled")
		}
		return nil, err
	}

	result := &types.Evaluation{Workflow: workflow, Jobs: []types.JobDecision{}}
	var configErrs []error
	for i, out := range outcomes {
		switch {
		case out.err != nil:
			configErrs = append(configErrs, out.err)
		case out.included:
			result.Jobs = append(result.Jobs, out.decision)
		default:
			result.Excluded = append(result.Excluded, def.Jobs[i].Name)
		}
	}
	if len(configErrs) > 0 {
		logger.Info().Int("errors", len(configErrs)).Msg("Rule configuration errors")
		return nil, stderrors.Join(configErrs...)
	}
	if len(result.Jobs) == 0 {
		return nil, errors.New(errors.ErrNoStagesOrJobs, MsgNoStagesOrJobs)
	}

	if repo != nil {
		stats := repo.Stats()
		req.Instrument.Observe("changed_paths_queries", float64(stats.ChangedPathsCalls))
		req.Instrument.Observe("existing_paths_queries", float64(stats.ExistingPathsCalls))
	}
	logger.Debug().
		Int("included", len(result.Jobs)).
		Int("excluded", len(result.Excluded)).
		Msg("Pipeline evaluated")
	return result, nil
}

// Workflow runs the workflow gate in scope
func (e *Evaluator) Workflow(ctx context.Context, wf types.WorkflowSpec, scope variables.Collection, repo *repository.Context) (types.WorkflowDecision, error) {
	if !wf.HasRules() {
		return types.WorkflowDecision{Proceed: true, MatchedRule: types.NoRuleMatched}, nil
	}

	res, err := e.matcher.Match(ctx, wf.Rules, e.ruleContext(scope, repo))
	if err != nil {
		return types.WorkflowDecision{}, workflowError(err)
	}
	if !res.Matched || res.Clause.When == types.WhenNever {
		return types.WorkflowDecision{Proceed: false, MatchedRule: res.Index}, nil
	}
	return types.WorkflowDecision{
		Proceed:     true,
		MatchedRule: res.Index,
		Variables:   variables.Collection{}.Merge(res.Clause.Variables).Map(),
	}, nil
}

// EvaluateJob matches one job's rules. included is false when no clause
// matched or the matched policy is `never`.
func (e *Evaluator) EvaluateJob(ctx context.Context, job types.JobSpec, layers variables.Layers, repo *repository.Context) (types.JobDecision, bool, error) {
	if !job.HasRules() {
		return decide(job, types.RuleClause{}, types.NoRuleMatched, layers)
	}

	res, err := e.matcher.Match(ctx, job.Rules, e.ruleContext(layers.JobScope(), repo))
	if err != nil {
		return types.JobDecision{}, false, ruleError(job.Name, err)
	}
	if !res.Matched {
		e.logger.Debug().Str("job", job.Name).Msg("No rule matched, job excluded")
		return types.JobDecision{}, false, nil
	}

	layers.JobRule = res.Clause.Variables
	return decide(job, res.Clause, res.Index, layers)
}

func (e *Evaluator) ruleContext(scope variables.Collection, repo *repository.Context) *rules.Context {
	return &rules.Context{
		Variables:             scope,
		Repo:                  repo,
		CompareTo:             e.opts.CompareTo,
		MaxPatternComparisons: e.opts.MaxPatternComparisons,
	}
}

func (e *Evaluator) repositoryContext(req Request) *repository.Context {
	if req.Resolver == nil {
		return nil
	}
	resolver := req.Resolver
	if req.Instrument.Enabled() {
		resolver = &instrumentedResolver{Resolver: resolver, inst: req.Instrument}
	}
	return repository.NewContext(resolver, revision(req.Pipeline))
}

// revision is what the repository tree is listed at
func revision(p variables.PipelineInfo) string {
	if p.SHA != "" {
		return p.SHA
	}
	return p.Ref
}
