package rules

import (
	"github.com/arthur-debert/cirules/pkg/repository"
	"github.com/arthur-debert/cirules/pkg/types"
	"github.com/arthur-debert/cirules/pkg/variables"
)

// DefaultMaxPatternComparisons caps glob comparisons of one exists clause
const DefaultMaxPatternComparisons = 10000

// Context is what a rule set is evaluated against
type Context struct {
	// Variables is the scope of `if:` and of pattern expansion
	Variables variables.Collection

	// Repo answers changes and exists queries. Nil means no repository:
	// changes are unknown and no file exists.
	Repo *repository.Context

	CompareTo             types.CompareToMode
	MaxPatternComparisons int
}

func (c *Context) compareToMode() types.CompareToMode {
	if c.CompareTo == "" {
		return types.CompareToEnforced
	}
	return c.CompareTo
}

func (c *Context) patternBudget() int {
	if c.MaxPatternComparisons <= 0 {
		return DefaultMaxPatternComparisons
	}
	return c.MaxPatternComparisons
}

// Result is the outcome of matching a rule set
type Result struct {
	Matched bool
	// Index of the winning clause, types.NoRuleMatched when nothing matched
	Index  int
	Clause types.RuleClause
}

// NoMatch is the result of an exhausted rule set
func NoMatch() Result {
	return Result{Index: types.NoRuleMatched}
}
