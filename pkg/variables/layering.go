package variables

import (
	"github.com/arthur-debert/cirules/pkg/types"
)

// Layers holds every variable source of one job, lowest precedence first
type Layers struct {
	Predefined  map[string]string
	Root        map[string]string
	Pipeline    map[string]string
	Workflow    map[string]string
	JobBuiltins map[string]string
	Job         map[string]string
	JobRule     map[string]string
	Inherit     *types.VariableInherit
}

// PipelineScope is the environment of workflow rules: predefined, root and
// external variables. Nothing is filtered at this level.
func PipelineScope(predefined, root, pipeline map[string]string) Collection {
	return make(Collection, len(predefined)+len(root)+len(pipeline)).
		Merge(predefined).
		Merge(root).
		Merge(pipeline)
}

// JobScope is the environment a job's `rules:if` is evaluated in: every
// layer except the job rule overlay, which is only known once a clause has
// matched.
func (l Layers) JobScope() Collection {
	allow := l.Inherit.Allows
	return make(Collection).
		Merge(l.Predefined).
		MergeAllowed(l.Root, allow).
		Merge(l.Pipeline).
		MergeAllowed(l.Workflow, allow).
		Merge(l.JobBuiltins).
		Merge(l.Job)
}

// Resolve returns the effective variables of the job, job rule overlay
// included. Every call returns a fresh collection.
func (l Layers) Resolve() Collection {
	return l.JobScope().Merge(l.JobRule)
}

// Resolve is the layering of yaml-declared variables alone: root, workflow
// overlay, job defaults and job rule overlay, with the inherit filter
// applied to the first two.
func Resolve(root, workflow, job, jobRule map[string]string, inherit *types.VariableInherit) Collection {
	return Layers{
		Root:     root,
		Workflow: workflow,
		Job:      job,
		JobRule:  jobRule,
		Inherit:  inherit,
	}.Resolve()
}
