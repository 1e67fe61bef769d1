// Test Type: Unit Test
// Description: Tests for layered configuration loading and validation

package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/arthur-debert/cirules/pkg/config"
	"github.com/arthur-debert/cirules/pkg/errors"
	"github.com/arthur-debert/cirules/pkg/testutil"
	"github.com/arthur-debert/cirules/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoad_Defaults(t *testing.T) {
	root := testutil.SetupXDG(t)

	cfg, err := config.Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, types.CompareToEnforced, cfg.CompareToMode())
	assert.Equal(t, 4, cfg.Evaluation.Workers)
	assert.Equal(t, 10000, cfg.Evaluation.MaxPatternComparisons)
	assert.Equal(t, 25, cfg.Lint.MaxWarnings)
	assert.False(t, cfg.Instrumentation.Enabled)
	assert.Equal(t, time.Second, cfg.Instrumentation.LogThreshold)
	assert.Equal(t, "127.0.0.1:8089", cfg.Server.Address)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.True(t, cfg.Server.Record)
	assert.Equal(t, "https://gitlab.com", cfg.GitLab.BaseURL)
	assert.Equal(t, filepath.Join(root, "data", "cirules", "history.db"), cfg.Store.Path)
}

func TestLoad_Layers(t *testing.T) {
	t.Run("user_toml_file_in_config_home", func(t *testing.T) {
		root := testutil.SetupXDG(t)
		writeFile(t, filepath.Join(root, "config", "cirules", "config.toml"), `
[evaluation]
compare_to = "legacy"
workers = 2

[instrumentation]
log_threshold = "250ms"
`)

		cfg, err := config.Load("", nil)
		require.NoError(t, err)
		assert.Equal(t, types.CompareToLegacy, cfg.CompareToMode())
		assert.Equal(t, 2, cfg.Evaluation.Workers)
		assert.Equal(t, 250*time.Millisecond, cfg.Instrumentation.LogThreshold)
		assert.Equal(t, 25, cfg.Lint.MaxWarnings)
	})

	t.Run("explicit_yaml_file", func(t *testing.T) {
		root := testutil.SetupXDG(t)
		path := filepath.Join(root, "cirules.yml")
		writeFile(t, path, "lint:\n  max_warnings: 3\nstore:\n  path: /tmp/x.db\n")

		cfg, err := config.Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Lint.MaxWarnings)
		assert.Equal(t, "/tmp/x.db", cfg.Store.Path)
	})

	t.Run("environment_overrides_file", func(t *testing.T) {
		root := testutil.SetupXDG(t)
		writeFile(t, filepath.Join(root, "config", "cirules", "config.toml"), "[evaluation]\nworkers = 2\n")
		t.Setenv("CIRULES_EVALUATION__WORKERS", "8")
		t.Setenv("CIRULES_GITLAB__PROJECT", "group/project")

		cfg, err := config.Load("", nil)
		require.NoError(t, err)
		assert.Equal(t, 8, cfg.Evaluation.Workers)
		assert.Equal(t, "group/project", cfg.GitLab.Project)
	})

	t.Run("overrides_win", func(t *testing.T) {
		testutil.SetupXDG(t)
		t.Setenv("CIRULES_EVALUATION__WORKERS", "8")

		cfg, err := config.Load("", map[string]interface{}{
			"evaluation.workers":      1,
			"instrumentation.enabled": true,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, cfg.Evaluation.Workers)
		assert.True(t, cfg.Instrumentation.Enabled)
	})
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing_explicit_file", func(t *testing.T) {
		root := testutil.SetupXDG(t)
		_, err := config.Load(filepath.Join(root, "nope.toml"), nil)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
	})

	t.Run("malformed_file", func(t *testing.T) {
		root := testutil.SetupXDG(t)
		path := filepath.Join(root, "bad.toml")
		writeFile(t, path, "[evaluation\nworkers = ")
		_, err := config.Load(path, nil)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
	})

	t.Run("invalid_values", func(t *testing.T) {
		tests := []struct {
			name string
			key  string
			val  interface{}
		}{
			{"compare_to", "evaluation.compare_to", "sometimes"},
			{"workers", "evaluation.workers", 0},
			{"budget", "evaluation.max_pattern_comparisons", 0},
			{"max_warnings", "lint.max_warnings", -1},
			{"address", "server.address", ""},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				testutil.SetupXDG(t)
				_, err := config.Load("", map[string]interface{}{tt.key: tt.val})
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
				assert.Equal(t, tt.key, errors.GetErrorDetails(err)["key"])
			})
		}
	})
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 4, cfg.Evaluation.Workers)
	assert.NotEmpty(t, cfg.Store.Path)
}

func TestGenerateConfigContent(t *testing.T) {
	content := config.GenerateConfigContent()

	assert.Contains(t, content, "[evaluation]")
	assert.Contains(t, content, `# compare_to = "enforced"`)
	assert.Contains(t, content, "# workers = 4")
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "[") {
			continue
		}
		t.Errorf("uncommented value line: %q", line)
	}
}

func TestDump(t *testing.T) {
	cfg := config.Default()
	cfg.GitLab.Token = "glpat-secret"

	out, err := cfg.Dump()
	require.NoError(t, err)
	assert.Contains(t, out, "[evaluation]")
	assert.Regexp(t, `compare_to = ['"]enforced['"]`, out)
	assert.Regexp(t, `log_threshold = ['"]1s['"]`, out)
	assert.NotContains(t, out, "glpat-secret")
	assert.Contains(t, out, "********")

	cfg.GitLab.Token = ""
	assert.Equal(t, "", cfg.ToMap()["gitlab"].(map[string]interface{})["token"])
}
