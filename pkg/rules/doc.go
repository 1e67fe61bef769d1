// Package rules decides which clause of a `rules:` list applies.
//
// A clause carries up to three conditions, evaluated in this order and
// combined with AND:
//
//   - `if:` an expression over the variables of the current scope
//   - `changes:` glob patterns checked against the changed paths
//   - `exists:` glob patterns checked against the repository tree
//
// A clause without conditions always matches. Clauses are evaluated top to
// bottom and the first matching clause wins; later clauses are never looked
// at, so their directives can never leak into the result.
//
// # Changes
//
//	rules:
//	  - changes:
//	      paths: [$CHART_DIR/**/*]
//	      compare_to: refs/heads/main
//
// Patterns are expanded against the scope variables first; references to
// undefined variables stay as written. When the repository cannot tell what
// changed (first push of a branch, scheduled pipelines) the condition is
// satisfied. An empty but known set of changes never satisfies it.
//
// With compare_to the diff is taken against the named ref, which must
// exist. In legacy compare_to mode the condition is satisfied without
// consulting the repository.
//
// # Exists
//
// Exact paths are looked up directly. Globs are compared path by path up to
// a configurable number of comparisons; past that budget the condition is
// considered satisfied.
package rules
