// Package types defines the data model shared by every cirules component:
// rule clauses and rule sets, job and workflow definitions as they come out
// of the pipeline definition decoder, and the decisions produced by the
// evaluator.
//
// All of these values are treated as immutable once a definition has been
// decoded. Evaluation never mutates a JobSpec or a WorkflowSpec; every
// decision carries its own freshly built variable map.
package types
