package rules

import (
	"context"

	"github.com/arthur-debert/cirules/pkg/globs"
	"github.com/arthur-debert/cirules/pkg/logging"
	"github.com/arthur-debert/cirules/pkg/variables"
	"github.com/rs/zerolog"
)

// ExistsMatcher evaluates `exists:` conditions
type ExistsMatcher struct {
	logger zerolog.Logger
}

// NewExistsMatcher creates an exists matcher
func NewExistsMatcher() *ExistsMatcher {
	return &ExistsMatcher{logger: logging.GetLogger("rules.exists")}
}

// Satisfied reports whether any pattern matches a path of the repository
// tree at the pipeline revision
func (m *ExistsMatcher) Satisfied(ctx context.Context, patterns []string, ec *Context) (bool, error) {
	set := globs.NewSet(variables.ExpandAll(patterns, ec.Variables))
	if set.Empty() || ec.Repo == nil {
		return false, nil
	}

	paths, index, err := ec.Repo.ExistingPaths(ctx)
	if err != nil {
		return false, err
	}

	matched, exhausted := set.MatchBudgeted(index, paths, ec.patternBudget())
	if exhausted {
		m.logger.Info().
			Int("budget", ec.patternBudget()).
			Int("paths", len(paths)).
			Msg("Exists pattern comparison budget exceeded, condition satisfied")
		return true, nil
	}
	return matched, nil
}
