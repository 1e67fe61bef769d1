// Test Type: Unit Test
// Description: Tests for changes and exists conditions

package rules_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/arthur-debert/cirules/pkg/errors"
	"github.com/arthur-debert/cirules/pkg/repository"
	"github.com/arthur-debert/cirules/pkg/rules"
	"github.com/arthur-debert/cirules/pkg/types"
	"github.com/arthur-debert/cirules/pkg/variables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangesMatcher(t *testing.T) {
	ctx := context.Background()
	m := rules.NewChangesMatcher()

	t.Run("any_pattern_any_path", func(t *testing.T) {
		ec := newContext(nil, repository.NewMemoryResolver([]string{"Dockerfile", "Gemfile"}, nil))
		ok, err := m.Satisfied(ctx, &types.ChangesSpec{Paths: []string{"*.md", "Docker*"}}, ec)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("empty_changes_never_match", func(t *testing.T) {
		ec := newContext(nil, repository.NewMemoryResolver([]string{}, nil))
		ok, err := m.Satisfied(ctx, &types.ChangesSpec{Paths: []string{"**/*"}}, ec)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unknown_changes_satisfy", func(t *testing.T) {
		ec := newContext(nil, repository.NewMemoryResolver(nil, nil))
		ok, err := m.Satisfied(ctx, &types.ChangesSpec{Paths: []string{"README.md"}}, ec)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("variable_expansion", func(t *testing.T) {
		ec := newContext(variables.Collection{"HELM_DIR": "helm"}, repository.NewMemoryResolver([]string{"helm/test.txt"}, nil))
		ok, err := m.Satisfied(ctx, &types.ChangesSpec{Paths: []string{"$HELM_DIR/**/*"}}, ec)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("unexpanded_reference_matched_literally", func(t *testing.T) {
		ec := newContext(variables.Collection{}, repository.NewMemoryResolver([]string{"path/with/$in/it/file.txt"}, nil))
		ok, err := m.Satisfied(ctx, &types.ChangesSpec{Paths: []string{"path/with/$in/it/*"}}, ec)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("undefined_variable_does_not_match", func(t *testing.T) {
		ec := newContext(nil, repository.NewMemoryResolver([]string{"helm/test.txt"}, nil))
		ok, err := m.Satisfied(ctx, &types.ChangesSpec{Paths: []string{"$HELM_DIR/**/*"}}, ec)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestChangesMatcher_CompareTo(t *testing.T) {
	ctx := context.Background()
	m := rules.NewChangesMatcher()

	// feature_2 was branched from feature_1, which itself was branched from
	// master and tagged tag_1 after its first commit
	resolver := func() *repository.MemoryResolver {
		return repository.NewMemoryResolver([]string{"unrelated.txt"}, nil).
			WithCompareTo("master", []string{"file1.txt", "file2.txt"}).
			WithCompareTo("feature_1", []string{"file2.txt"}).
			WithCompareTo("tag_1", []string{"file2.txt"})
	}

	tests := []struct {
		compareTo string
		paths     []string
		mode      types.CompareToMode
		want      bool
	}{
		{"master", []string{"file1.txt"}, types.CompareToEnforced, true},
		{"master", []string{"README.md"}, types.CompareToEnforced, false},
		{"feature_1", []string{"file1.txt"}, types.CompareToEnforced, false},
		{"feature_1", []string{"file1.txt"}, types.CompareToLegacy, true},
		{"feature_1", []string{"file2.txt"}, types.CompareToEnforced, true},
		{"tag_1", []string{"file1.txt"}, types.CompareToEnforced, false},
		{"tag_1", []string{"file1.txt"}, types.CompareToLegacy, true},
		{"tag_1", []string{"file2.txt"}, types.CompareToEnforced, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%s_%s", tt.compareTo, tt.paths[0], tt.mode), func(t *testing.T) {
			ec := newContext(nil, resolver())
			ec.CompareTo = tt.mode
			ok, err := m.Satisfied(ctx, &types.ChangesSpec{Paths: tt.paths, CompareTo: tt.compareTo}, ec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}

	t.Run("invalid_ref", func(t *testing.T) {
		ec := newContext(nil, resolver())
		_, err := m.Satisfied(ctx, &types.ChangesSpec{Paths: []string{"file1.txt"}, CompareTo: "xyz"}, ec)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidCompareToRef))
		assert.Equal(t, rules.MsgInvalidCompareTo, errors.Messages(err)[0])
		assert.Equal(t, "xyz", errors.GetErrorDetails(err)["compare_to"])
	})

	t.Run("invalid_ref_ignored_in_legacy_mode", func(t *testing.T) {
		ec := newContext(nil, resolver())
		ec.CompareTo = types.CompareToLegacy
		ok, err := m.Satisfied(ctx, &types.ChangesSpec{Paths: []string{"file1.txt"}, CompareTo: "xyz"}, ec)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("compare_to_is_expanded", func(t *testing.T) {
		ec := newContext(variables.Collection{"BASE": "master"}, resolver())
		ok, err := m.Satisfied(ctx, &types.ChangesSpec{Paths: []string{"file1.txt"}, CompareTo: "$BASE"}, ec)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestExistsMatcher(t *testing.T) {
	ctx := context.Background()
	m := rules.NewExistsMatcher()
	tree := []string{"Dockerfile", "src/main.go", "docs/index.md"}

	tests := []struct {
		name     string
		patterns []string
		want     bool
	}{
		{"exact_present", []string{"Dockerfile"}, true},
		{"exact_absent", []string{"README.md"}, false},
		{"glob_present", []string{"src/**/*.go"}, true},
		{"glob_absent", []string{"*.rb"}, false},
		{"empty_patterns", []string{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := m.Satisfied(ctx, tt.patterns, newContext(nil, repository.NewMemoryResolver(nil, tree)))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}

	t.Run("budget_exceeded_satisfies", func(t *testing.T) {
		ec := newContext(nil, repository.NewMemoryResolver(nil, tree))
		ec.MaxPatternComparisons = 2
		ok, err := m.Satisfied(ctx, []string{"*.rb"}, ec)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("no_repository", func(t *testing.T) {
		ok, err := m.Satisfied(ctx, []string{"Dockerfile"}, &rules.Context{})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("patterns_are_expanded", func(t *testing.T) {
		ec := newContext(variables.Collection{"DIR": "docs"}, repository.NewMemoryResolver(nil, tree))
		ok, err := m.Satisfied(ctx, []string{"$DIR/*.md"}, ec)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
