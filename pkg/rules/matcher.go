package rules

import (
	"context"
	"sync"

	"github.com/arthur-debert/cirules/pkg/expression"
	"github.com/arthur-debert/cirules/pkg/logging"
	"github.com/arthur-debert/cirules/pkg/types"
	"github.com/rs/zerolog"
)

// Matcher selects the first satisfied clause of a rule set. A Matcher is
// safe for concurrent use and caches parsed expressions.
type Matcher struct {
	logger  zerolog.Logger
	changes *ChangesMatcher
	exists  *ExistsMatcher
	exprs   sync.Map
}

// NewMatcher creates a new rule matcher
func NewMatcher() *Matcher {
	return &Matcher{
		logger:  logging.GetLogger("rules.matcher"),
		changes: NewChangesMatcher(),
		exists:  NewExistsMatcher(),
	}
}

// Match returns the first clause of rules satisfied in ec. Clauses after
// the winning one are not evaluated. Errors abort the scan.
func (m *Matcher) Match(ctx context.Context, rules types.RuleSet, ec *Context) (Result, error) {
	for i, clause := range rules {
		if err := ctx.Err(); err != nil {
			return NoMatch(), err
		}

		ok, err := m.Satisfied(ctx, clause, ec)
		if err != nil {
			return NoMatch(), err
		}
		if ok {
			m.logger.Debug().
				Int("clause", i).
				Str("when", string(clause.When)).
				Msg("Rule clause matched")
			return Result{Matched: true, Index: i, Clause: clause}, nil // First match wins
		}
	}

	m.logger.Debug().Int("clauses", len(rules)).Msg("No rule clause matched")
	return NoMatch(), nil
}

// Satisfied reports whether every condition of clause holds. Conditions are
// checked in the order if, changes, exists and stop at the first false one.
func (m *Matcher) Satisfied(ctx context.Context, clause types.RuleClause, ec *Context) (bool, error) {
	if clause.If != "" {
		expr, err := m.Expression(clause.If)
		if err != nil {
			return false, err
		}
		if !expr.Evaluate(ec.Variables) {
			return false, nil
		}
	}

	if clause.Changes != nil {
		ok, err := m.changes.Satisfied(ctx, clause.Changes, ec)
		if err != nil || !ok {
			return false, err
		}
	}

	if clause.Exists != nil {
		ok, err := m.exists.Satisfied(ctx, clause.Exists, ec)
		if err != nil || !ok {
			return false, err
		}
	}

	return true, nil
}

// Expression returns the parsed form of src, parsing it on first use
func (m *Matcher) Expression(src string) (*expression.Expression, error) {
	if cached, ok := m.exprs.Load(src); ok {
		return cached.(*expression.Expression), nil
	}
	expr, err := expression.Parse(src)
	if err != nil {
		return nil, err
	}
	actual, _ := m.exprs.LoadOrStore(src, expr)
	return actual.(*expression.Expression), nil
}
