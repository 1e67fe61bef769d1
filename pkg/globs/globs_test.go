// Test Type: Unit Test
// Description: Tests for changes/exists glob matching

package globs_test

import (
	"fmt"
	"testing"

	"github.com/arthur-debert/cirules/pkg/globs"
	"github.com/stretchr/testify/assert"
)

func TestSet_MatchAny(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		paths    []string
		want     bool
	}{
		{"exact_top_level_match", []string{"Dockerfile"}, []string{"Dockerfile", "Gemfile"}, true},
		{"exact_top_level_no_match", []string{"Dockerfile"}, []string{"Gemfile"}, false},
		{"pattern_top_level_match", []string{"Docker*"}, []string{"Dockerfile", "Gemfile"}, true},
		{"pattern_top_level_no_match", []string{"Docker*"}, []string{"Gemfile"}, false},
		{"exact_nested_match", []string{"project/build.properties"}, []string{"project/build.properties"}, true},
		{"exact_nested_no_match", []string{"project/build.properties"}, []string{"project/README.md"}, false},
		{"pattern_nested_match", []string{"src/**/*.go"}, []string{"src/gitlab.com/goproject/goproject.go"}, true},
		{"pattern_nested_no_match", []string{"src/**/*.go"}, []string{"src/gitlab.com/goproject/README.md"}, false},
		{"ext_top_level_match", []string{"*.go"}, []string{"main.go", "cmd/goproject/main.go"}, true},
		{"ext_nested_no_match", []string{"*.go"}, []string{"cmd/goproject/main.go"}, false},
		{"ext_slash_no_match", []string{"/*.go"}, []string{"main.go", "cmd/goproject/main.go"}, false},
		{"double_star_matches_top_level", []string{"**/*.rb"}, []string{"app.rb"}, true},
		{"braces", []string{"{app,lib}/*.rb"}, []string{"lib/a.rb"}, true},
		{"dotfiles", []string{"*"}, []string{".gitlab-ci.yml"}, true},
		{"any_of_several_patterns", []string{"README.md", "app.rb"}, []string{"app.rb"}, true},
		{"empty_paths", []string{"*"}, nil, false},
		{"empty_patterns", nil, []string{"app.rb"}, false},
		{"malformed_pattern", []string{"[abc"}, []string{"a"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, globs.NewSet(tt.patterns).MatchAny(tt.paths))
		})
	}
}

func TestSet_MatchBudgeted(t *testing.T) {
	paths := make([]string, 0, 50)
	for i := 0; i < 50; i++ {
		paths = append(paths, fmt.Sprintf("dir/file%d.txt", i))
	}
	index := globs.Index(paths)

	t.Run("exact_lookup_ignores_budget", func(t *testing.T) {
		matched, exhausted := globs.NewSet([]string{"dir/file49.txt"}).MatchBudgeted(index, paths, 1)
		assert.True(t, matched)
		assert.False(t, exhausted)
	})

	t.Run("glob_within_budget", func(t *testing.T) {
		matched, exhausted := globs.NewSet([]string{"dir/*.txt"}).MatchBudgeted(index, paths, 10)
		assert.True(t, matched)
		assert.False(t, exhausted)
	})

	t.Run("budget_exceeded", func(t *testing.T) {
		matched, exhausted := globs.NewSet([]string{"*.md", "**/*.md"}).MatchBudgeted(index, paths, 60)
		assert.False(t, matched)
		assert.True(t, exhausted)
	})

	t.Run("no_match_under_budget", func(t *testing.T) {
		matched, exhausted := globs.NewSet([]string{"*.md"}).MatchBudgeted(index, paths, 100)
		assert.False(t, matched)
		assert.False(t, exhausted)
	})
}

func TestIsPattern(t *testing.T) {
	assert.False(t, globs.IsPattern("README.md"))
	assert.False(t, globs.IsPattern("docs/index.md"))
	assert.True(t, globs.IsPattern("*.md"))
	assert.True(t, globs.IsPattern("file?.txt"))
	assert.True(t, globs.IsPattern("{a,b}"))
	assert.True(t, globs.Valid("src/**/*.go"))
	assert.False(t, globs.Valid("[abc"))
}
