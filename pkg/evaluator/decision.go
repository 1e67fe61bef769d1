package evaluator

import (
	stderrors "errors"

	"github.com/arthur-debert/cirules/pkg/errors"
	"github.com/arthur-debert/cirules/pkg/startin"
	"github.com/arthur-debert/cirules/pkg/types"
	"github.com/arthur-debert/cirules/pkg/variables"
)

// decide applies the directives of the matched clause on top of the job's
// own declarations
func decide(job types.JobSpec, clause types.RuleClause, index int, layers variables.Layers) (types.JobDecision, bool, error) {
	when := ResolveWhen(clause.When, job.When)
	if when == types.WhenNever {
		return types.JobDecision{}, false, nil
	}

	allowFailure, exitCodes := ResolveAllowFailure(clause.AllowFailure, job.AllowFailure)

	startIn := ""
	if when == types.WhenDelayed {
		startIn = clause.StartIn
		if startIn == "" {
			startIn = job.StartIn
		}
		if startIn == "" {
			return types.JobDecision{}, false, errors.Newf(errors.ErrMissingStartIn,
				"jobs:%s start_in should be specified for delayed job", job.Name).
				WithDetail("job", job.Name)
		}
		if err := startin.Validate(startIn); err != nil {
			return types.JobDecision{}, false, errors.Newf(errors.ErrInvalidStartIn,
				"jobs:%s start_in should be a duration of one week or less", job.Name).
				WithDetail("job", job.Name).
				WithDetail("start_in", startIn)
		}
	}

	return types.JobDecision{
		JobName:               job.Name,
		Stage:                 job.Stage,
		Included:              true,
		When:                  when,
		AllowFailure:          allowFailure,
		AllowFailureExitCodes: exitCodes,
		StartIn:               startIn,
		Variables:             layers.Resolve().Map(),
		MatchedRule:           index,
	}, true, nil
}

// ResolveWhen picks the clause policy, else the job policy, else on_success
func ResolveWhen(clause, job types.When) types.When {
	switch {
	case clause.IsSet():
		return clause
	case job.IsSet():
		return job
	}
	return types.WhenOnSuccess
}

// ResolveAllowFailure picks the clause tolerance over the job's. A boolean
// from the clause drops any exit code criteria of the job. Exit code
// criteria never make the job tolerant by themselves.
func ResolveAllowFailure(clause, job types.AllowFailure) (bool, []int) {
	chosen := job
	if clause.IsSet() {
		chosen = clause
	}
	switch chosen.Kind {
	case types.AllowFailureBool:
		return chosen.Value, nil
	case types.AllowFailureExitCodes:
		return false, append([]int(nil), chosen.ExitCodes...)
	}
	return false, nil
}

// configCodes are the failures caused by the definition itself. They are
// collected per job instead of aborting the attempt.
var configCodes = map[errors.ErrorCode]bool{
	errors.ErrExpressionSyntax:    true,
	errors.ErrInvalidCompareToRef: true,
	errors.ErrMissingStartIn:      true,
	errors.ErrInvalidStartIn:      true,
}

func isConfigError(err error) bool {
	return configCodes[errors.GetErrorCode(err)]
}

// ruleError names the job in a configuration error, keeping its code and
// details. Other errors pass through untouched.
func ruleError(job string, err error) error {
	var coded *errors.Error
	if !stderrors.As(err, &coded) || !configCodes[coded.Code] {
		return err
	}
	return errors.Newf(coded.Code, "Failed to parse rule for %s: %s", job, coded.Message).
		WithDetails(coded.Details).
		WithDetail("job", job)
}

func workflowError(err error) error {
	var coded *errors.Error
	if !stderrors.As(err, &coded) || !configCodes[coded.Code] {
		return err
	}
	return errors.Newf(coded.Code, "workflow: %s", coded.Message).
		WithDetails(coded.Details)
}
