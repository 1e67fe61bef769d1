package rules

import (
	"context"

	"github.com/arthur-debert/cirules/pkg/errors"
	"github.com/arthur-debert/cirules/pkg/globs"
	"github.com/arthur-debert/cirules/pkg/logging"
	"github.com/arthur-debert/cirules/pkg/types"
	"github.com/arthur-debert/cirules/pkg/variables"
	"github.com/rs/zerolog"
)

// MsgInvalidCompareTo is reported when compare_to names an unknown ref
const MsgInvalidCompareTo = "rules:changes:compare_to is not a valid ref"

// ChangesMatcher evaluates `changes:` conditions
type ChangesMatcher struct {
	logger zerolog.Logger
}

// NewChangesMatcher creates a changes matcher
func NewChangesMatcher() *ChangesMatcher {
	return &ChangesMatcher{logger: logging.GetLogger("rules.changes")}
}

// Satisfied reports whether any pattern of spec matches a changed path
func (m *ChangesMatcher) Satisfied(ctx context.Context, spec *types.ChangesSpec, ec *Context) (bool, error) {
	compareTo := ""
	if spec.CompareTo != "" {
		compareTo = variables.ExpandExisting(spec.CompareTo, ec.Variables)
		if ec.compareToMode() == types.CompareToLegacy {
			m.logger.Debug().Str("compare_to", compareTo).Msg("compare_to ignored in legacy mode")
			return true, nil
		}
	}
	if ec.Repo == nil {
		return true, nil
	}

	if compareTo != "" {
		exists, err := ec.Repo.RefExists(ctx, compareTo)
		if err != nil {
			return false, err
		}
		if !exists {
			return false, errors.New(errors.ErrInvalidCompareToRef, MsgInvalidCompareTo).
				WithDetail("compare_to", compareTo)
		}
	}

	paths, ok, err := ec.Repo.ChangedPaths(ctx, compareTo)
	if err != nil {
		return false, err
	}
	if !ok {
		m.logger.Debug().Msg("No diff information, changes condition satisfied")
		return true, nil
	}

	patterns := variables.ExpandAll(spec.Paths, ec.Variables)
	matched := globs.NewSet(patterns).MatchAny(paths)
	m.logger.Trace().
		Strs("patterns", patterns).
		Int("changed", len(paths)).
		Bool("matched", matched).
		Msg("Evaluated changes condition")
	return matched, nil
}
