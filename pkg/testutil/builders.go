package testutil

import (
	"github.com/arthur-debert/cirules/pkg/types"
)

// ClauseBuilder builds a RuleClause fluently
type ClauseBuilder struct {
	clause types.RuleClause
}

// Clause starts an empty clause
func Clause() *ClauseBuilder {
	return &ClauseBuilder{}
}

// If sets the `if:` expression
func (b *ClauseBuilder) If(expr string) *ClauseBuilder {
	b.clause.If = expr
	return b
}

// Changes sets the `changes:` paths
func (b *ClauseBuilder) Changes(paths ...string) *ClauseBuilder {
	if b.clause.Changes == nil {
		b.clause.Changes = &types.ChangesSpec{}
	}
	b.clause.Changes.Paths = append(b.clause.Changes.Paths, paths...)
	return b
}

// CompareTo sets `changes:compare_to`
func (b *ClauseBuilder) CompareTo(ref string) *ClauseBuilder {
	if b.clause.Changes == nil {
		b.clause.Changes = &types.ChangesSpec{}
	}
	b.clause.Changes.CompareTo = ref
	return b
}

// Exists sets the `exists:` patterns
func (b *ClauseBuilder) Exists(patterns ...string) *ClauseBuilder {
	b.clause.Exists = append([]string{}, patterns...)
	return b
}

// When sets the run policy
func (b *ClauseBuilder) When(w types.When) *ClauseBuilder {
	b.clause.When = w
	return b
}

// AllowFailure sets a boolean allow_failure
func (b *ClauseBuilder) AllowFailure(v bool) *ClauseBuilder {
	b.clause.AllowFailure = types.AllowFailureFromBool(v)
	return b
}

// ExitCodes sets allow_failure:exit_codes
func (b *ClauseBuilder) ExitCodes(codes ...int) *ClauseBuilder {
	b.clause.AllowFailure = types.AllowFailureFromExitCodes(codes...)
	return b
}

// Var adds a clause variable
func (b *ClauseBuilder) Var(key, value string) *ClauseBuilder {
	if b.clause.Variables == nil {
		b.clause.Variables = make(map[string]string)
	}
	b.clause.Variables[key] = value
	return b
}

// StartIn sets start_in
func (b *ClauseBuilder) StartIn(d string) *ClauseBuilder {
	b.clause.StartIn = d
	return b
}

// Build returns the clause
func (b *ClauseBuilder) Build() types.RuleClause {
	return b.clause
}

// Rules builds a rule set from builders
func Rules(clauses ...*ClauseBuilder) types.RuleSet {
	rs := make(types.RuleSet, 0, len(clauses))
	for _, c := range clauses {
		rs = append(rs, c.Build())
	}
	return rs
}

// JobBuilder builds a JobSpec fluently
type JobBuilder struct {
	job types.JobSpec
}

// Job starts a job with a default script
func Job(name string) *JobBuilder {
	return &JobBuilder{job: types.JobSpec{Name: name, Stage: "test", Script: []string{"echo " + name}}}
}

// Stage sets the stage
func (b *JobBuilder) Stage(stage string) *JobBuilder {
	b.job.Stage = stage
	return b
}

// Rules sets the job rules
func (b *JobBuilder) Rules(clauses ...*ClauseBuilder) *JobBuilder {
	b.job.Rules = Rules(clauses...)
	return b
}

// When sets the job-level run policy
func (b *JobBuilder) When(w types.When) *JobBuilder {
	b.job.When = w
	return b
}

// AllowFailure sets the job-level boolean allow_failure
func (b *JobBuilder) AllowFailure(v bool) *JobBuilder {
	b.job.AllowFailure = types.AllowFailureFromBool(v)
	return b
}

// ExitCodes sets the job-level allow_failure:exit_codes
func (b *JobBuilder) ExitCodes(codes ...int) *JobBuilder {
	b.job.AllowFailure = types.AllowFailureFromExitCodes(codes...)
	return b
}

// StartIn sets the job-level start_in
func (b *JobBuilder) StartIn(d string) *JobBuilder {
	b.job.StartIn = d
	return b
}

// Var adds a job variable
func (b *JobBuilder) Var(key, value string) *JobBuilder {
	if b.job.Variables == nil {
		b.job.Variables = make(map[string]string)
	}
	b.job.Variables[key] = value
	return b
}

// Inherit restricts inherited variables to names
func (b *JobBuilder) Inherit(names ...string) *JobBuilder {
	b.job.InheritVariables = types.InheritOnly(names...)
	return b
}

// Build returns the job
func (b *JobBuilder) Build() types.JobSpec {
	return b.job
}

// WorkflowBuilder builds a WorkflowSpec fluently
type WorkflowBuilder struct {
	workflow types.WorkflowSpec
}

// Workflow starts a workflow without rules or variables
func Workflow() *WorkflowBuilder {
	return &WorkflowBuilder{}
}

// Rules sets the workflow rules
func (b *WorkflowBuilder) Rules(clauses ...*ClauseBuilder) *WorkflowBuilder {
	b.workflow.Rules = Rules(clauses...)
	return b
}

// Var adds a root-level variable
func (b *WorkflowBuilder) Var(key, value string) *WorkflowBuilder {
	if b.workflow.Variables == nil {
		b.workflow.Variables = make(map[string]string)
	}
	b.workflow.Variables[key] = value
	return b
}

// Build returns the workflow
func (b *WorkflowBuilder) Build() types.WorkflowSpec {
	return b.workflow
}

// Definition assembles a pipeline definition
func Definition(workflow *WorkflowBuilder, jobs ...*JobBuilder) *types.Definition {
	def := &types.Definition{}
	if workflow != nil {
		def.Workflow = workflow.Build()
	}
	for _, j := range jobs {
		def.Jobs = append(def.Jobs, j.Build())
	}
	return def
}
