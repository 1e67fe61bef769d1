// Package repository answers the two repository questions rule evaluation
// asks: which paths changed, and which paths exist at the pipeline's
// revision.
//
// A Resolver does the actual I/O. A Context wraps one for the duration of a
// single pipeline-creation attempt and memoizes every answer, so a path set
// is fetched at most once however many clauses and jobs refer to it.
package repository

import (
	"context"
)

// Resolver provides repository state for one pipeline revision
type Resolver interface {
	// ChangedPaths lists paths changed by the pipeline revision. With an
	// empty compareTo the resolver uses the pipeline's own diff (push
	// before/after, merge request diff). ok is false when no diff
	// information exists, such as the first push of a branch or a
	// scheduled pipeline.
	ChangedPaths(ctx context.Context, compareTo string) (paths []string, ok bool, err error)

	// RefExists reports whether ref names a branch, tag or commit
	RefExists(ctx context.Context, ref string) (bool, error)

	// ExistingPaths lists every file in the tree at ref
	ExistingPaths(ctx context.Context, ref string) ([]string, error)
}
