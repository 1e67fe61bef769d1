package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/arthur-debert/cirules/pkg/logging"
)

// GitResolver reads repository state from a local clone with the git CLI
type GitResolver struct {
	Dir string
	// Head is the pipeline revision (sha or ref)
	Head string
	// Before is the revision the push started from. Empty means the
	// pipeline has no diff of its own.
	Before string
	Runner CommandRunner
}

// NewGitResolver builds a resolver over the clone at dir
func NewGitResolver(dir, head, before string) *GitResolver {
	return &GitResolver{Dir: dir, Head: head, Before: before, Runner: ExecRunner{}}
}

// ChangedPaths implements Resolver. Diffs are taken against the merge base
// of compareTo and Head.
func (g *GitResolver) ChangedPaths(ctx context.Context, compareTo string) ([]string, bool, error) {
	base := compareTo
	if base == "" {
		base = g.Before
	}
	if base == "" || isNullSHA(base) {
		return nil, false, nil
	}
	out, err := g.git(ctx, "diff", "-z", "--name-only", "--no-renames", base+"..."+g.head())
	if err != nil {
		return nil, false, err
	}
	return paths(out), true, nil
}

// RefExists implements Resolver
func (g *GitResolver) RefExists(ctx context.Context, ref string) (bool, error) {
	_, err := g.git(ctx, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	if err == nil {
		return true, nil
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && ctx.Err() == nil {
		return false, nil
	}
	return false, err
}

// ExistingPaths implements Resolver
func (g *GitResolver) ExistingPaths(ctx context.Context, ref string) ([]string, error) {
	if ref == "" {
		ref = g.head()
	}
	out, err := g.git(ctx, "ls-tree", "-r", "-z", "--name-only", "--full-tree", ref)
	if err != nil {
		return nil, err
	}
	return paths(out), nil
}

func (g *GitResolver) head() string {
	if g.Head == "" {
		return "HEAD"
	}
	return g.Head
}

func (g *GitResolver) git(ctx context.Context, args ...string) (string, error) {
	runner := g.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	logging.LogCommand("git", args)
	return runner.Run(ctx, g.Dir, "git", args...)
}

func isNullSHA(s string) bool {
	return len(s) >= 40 && strings.Trim(s, "0") == ""
}

// paths splits NUL terminated output of -z commands. Names are taken
// verbatim: no quoting, no trimming.
func paths(out string) []string {
	out = strings.TrimSuffix(out, "\x00")
	if out == "" {
		return []string{}
	}
	return strings.Split(out, "\x00")
}
