// Test Type: Unit Test
// Description: Tests for static validation and dry run linting

package lint_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/arthur-debert/cirules/pkg/evaluator"
	"github.com/arthur-debert/cirules/pkg/lint"
	"github.com/arthur-debert/cirules/pkg/testutil"
	"github.com/arthur-debert/cirules/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDefinition = `
stages: [build, test]

build:
  stage: build
  script: make

rspec:
  script: rspec
  allow_failure: true
  rules:
    - if: $CI_COMMIT_REF_NAME == "master"
      when: manual
    - exists: [Gemfile]
`

func TestSource_Static(t *testing.T) {
	res := lint.Source(context.Background(), []byte(validDefinition), lint.Options{})

	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
	require.Len(t, res.Jobs, 2)
	assert.Equal(t, lint.Job{Name: "build", Stage: "build", Script: []string{"make"}, When: types.WhenOnSuccess}, res.Jobs[0])
	assert.True(t, res.Jobs[1].AllowFailure)
}

func TestSource_DecodeErrors(t *testing.T) {
	res := lint.Source(context.Background(), []byte("job:\n  stage: test\n"), lint.Options{})

	assert.False(t, res.Valid)
	assert.Equal(t, []string{"jobs:job config should implement the script:, run:, or trigger: keyword"}, res.Errors)
	assert.Empty(t, res.Jobs)
}

func TestLint_StaticErrors(t *testing.T) {
	def := testutil.Definition(
		testutil.Workflow().Rules(testutil.Clause().If("$A ==")),
		testutil.Job("bad-if").Rules(testutil.Clause().If("$A == (")),
		testutil.Job("bad-when").When(types.When("later")),
		testutil.Job("no-start").Rules(testutil.Clause().When(types.WhenDelayed)),
		testutil.Job("long-start").Rules(testutil.Clause().When(types.WhenDelayed).StartIn("9 days")),
		testutil.Job("job-start").StartIn("1 hour").Rules(testutil.Clause().When(types.WhenDelayed)),
		testutil.Job("bad-glob").Rules(testutil.Clause().Changes("src/[a")),
	)

	res := lint.Lint(context.Background(), def, lint.Options{})
	assert.False(t, res.Valid)
	assert.Empty(t, res.Jobs)
	require.Len(t, res.Errors, 6)
	assert.True(t, strings.HasPrefix(res.Errors[0], "workflow rules:if invalid expression syntax"))
	assert.True(t, strings.HasPrefix(res.Errors[1], "jobs:bad-if rules:if invalid expression syntax"))
	assert.Equal(t, "jobs:bad-when when unknown value: later", res.Errors[2])
	assert.Equal(t, "jobs:no-start start_in should be specified for delayed job", res.Errors[3])
	assert.Equal(t, "jobs:long-start start_in should be a duration of one week or less", res.Errors[4])
	assert.Equal(t, `jobs:bad-glob rules:changes pattern "src/[a" is invalid`, res.Errors[5])
}

func TestLint_Warnings(t *testing.T) {
	jobs := []*testutil.JobBuilder{
		testutil.Job("always").Rules(testutil.Clause().If("$A").When(types.WhenNever), testutil.Clause().When(types.WhenAlways)),
		testutil.Job("never").Rules(testutil.Clause().When(types.WhenNever)),
		testutil.Job("conditional").Rules(testutil.Clause().If("$A").When(types.WhenAlways)),
		testutil.Job("plain"),
	}

	t.Run("without_workflow_rules", func(t *testing.T) {
		res := lint.Lint(context.Background(), testutil.Definition(nil, jobs...), lint.Options{})
		assert.True(t, res.Valid)
		assert.Equal(t, []string{
			"jobs:always may allow multiple pipelines to run for a single action due to `rules:when` clause with no `workflow:rules` - read more: " + lint.PipelineWarningsURL,
		}, res.Warnings)
	})

	t.Run("with_workflow_rules", func(t *testing.T) {
		def := testutil.Definition(testutil.Workflow().Rules(testutil.Clause()), jobs...)
		res := lint.Lint(context.Background(), def, lint.Options{})
		assert.Empty(t, res.Warnings)
	})

	t.Run("capped", func(t *testing.T) {
		var many []*testutil.JobBuilder
		for i := 0; i < 30; i++ {
			many = append(many, testutil.Job(fmt.Sprintf("job%d", i)).Rules(testutil.Clause().When(types.WhenOnSuccess)))
		}
		res := lint.Lint(context.Background(), testutil.Definition(nil, many...), lint.Options{})
		assert.Len(t, res.Warnings, lint.DefaultMaxWarnings)

		res = lint.Lint(context.Background(), testutil.Definition(nil, many...), lint.Options{MaxWarnings: 3})
		assert.Len(t, res.Warnings, 3)
	})
}

func TestLint_DryRun(t *testing.T) {
	def := testutil.Definition(nil,
		testutil.Job("build"),
		testutil.Job("deploy").Rules(testutil.Clause().If(`$CI_COMMIT_REF_NAME == "master"`).When(types.WhenManual)),
	)

	t.Run("reports_created_jobs", func(t *testing.T) {
		env := testutil.NewEnvironment(def).OnRef("feature")
		res := lint.Lint(context.Background(), def, lint.Options{
			DryRun:  true,
			Request: evaluator.Request{Pipeline: env.Pipeline, Resolver: env.Resolver},
		})
		assert.True(t, res.Valid)
		require.Len(t, res.Jobs, 1)
		assert.Equal(t, "build", res.Jobs[0].Name)
		assert.Equal(t, []string{"echo build"}, res.Jobs[0].Script)
	})

	t.Run("evaluation_errors_become_lint_errors", func(t *testing.T) {
		onlyDeploy := testutil.Definition(nil, testutil.Job("deploy").Rules(testutil.Clause().If(`$CI_COMMIT_REF_NAME == "master"`)))
		env := testutil.NewEnvironment(onlyDeploy).OnRef("feature")
		res := lint.Lint(context.Background(), onlyDeploy, lint.Options{
			DryRun:  true,
			Request: evaluator.Request{Pipeline: env.Pipeline},
		})
		assert.False(t, res.Valid)
		assert.Equal(t, []string{evaluator.MsgNoStagesOrJobs}, res.Errors)
	})
}
