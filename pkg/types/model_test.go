// pkg/types/model_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: None
// PURPOSE: Test the rule and decision data model helpers

package types_test

import (
	"testing"

	"github.com/arthur-debert/cirules/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWhen(t *testing.T) {
	for _, w := range types.AllWhens {
		got, err := types.ParseWhen(string(w))
		require.NoError(t, err)
		assert.Equal(t, w, got)
	}

	t.Run("empty_is_unset", func(t *testing.T) {
		got, err := types.ParseWhen("")
		require.NoError(t, err)
		assert.False(t, got.IsSet())
	})

	t.Run("unknown_value", func(t *testing.T) {
		_, err := types.ParseWhen("sometimes")
		assert.EqualError(t, err, "unknown value: sometimes")
	})
}

func TestAllowFailure(t *testing.T) {
	var unset types.AllowFailure
	assert.False(t, unset.IsSet())
	assert.False(t, unset.Bool())

	assert.True(t, types.AllowFailureFromBool(true).Bool())
	assert.True(t, types.AllowFailureFromBool(false).IsSet())
	assert.False(t, types.AllowFailureFromBool(false).Bool())

	codes := []int{42, 137}
	exit := types.AllowFailureFromExitCodes(codes...)
	codes[0] = 1
	assert.Equal(t, []int{42, 137}, exit.ExitCodes, "exit codes must be copied")
	assert.False(t, exit.Bool())
	assert.True(t, exit.IsSet())
}

func TestRuleClause_Conditions(t *testing.T) {
	tests := []struct {
		name       string
		clause     types.RuleClause
		conditions bool
		onlyWhen   bool
	}{
		{"empty", types.RuleClause{}, false, false},
		{"when_only", types.RuleClause{When: types.WhenAlways}, false, true},
		{"when_and_variables", types.RuleClause{When: types.WhenAlways, Variables: map[string]string{"A": "1"}}, false, false},
		{"if", types.RuleClause{If: "$X"}, true, false},
		{"changes", types.RuleClause{Changes: &types.ChangesSpec{}}, true, false},
		{"empty_exists_still_a_condition", types.RuleClause{Exists: []string{}}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.conditions, tt.clause.HasConditions())
			assert.Equal(t, tt.onlyWhen, tt.clause.OnlyWhen())
		})
	}
}

func TestVariableInherit_Allows(t *testing.T) {
	var nilInherit *types.VariableInherit
	assert.True(t, nilInherit.Allows("ANY"))
	assert.True(t, types.InheritAll().Allows("ANY"))
	assert.False(t, types.InheritNone().Allows("ANY"))

	only := types.InheritOnly("VAR4", "VAR6")
	assert.True(t, only.Allows("VAR4"))
	assert.False(t, only.Allows("VAR5"))
}

func TestEvaluation_Lookup(t *testing.T) {
	ev := types.Evaluation{Jobs: []types.JobDecision{{JobName: "b"}, {JobName: "a"}}}

	assert.Equal(t, []string{"b", "a"}, ev.JobNames())
	_, ok := ev.Decision("a")
	assert.True(t, ok)
	_, ok = ev.Decision("c")
	assert.False(t, ok)

	def := types.Definition{Jobs: []types.JobSpec{{Name: "build"}}}
	job, ok := def.Job("build")
	require.True(t, ok)
	assert.Equal(t, "build", job.Name)
	assert.False(t, job.HasRules())
}
