package config

import (
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// redacted replaces secrets in dumped configuration
const redacted = "********"

// GenerateConfigContent returns the defaults file with every value commented
// out, ready to be written as a starting user configuration.
func GenerateConfigContent() string {
	return commentOutConfigValues(GetDefaultsContent())
}

// commentOutConfigValues comments out every assignment line and keeps
// comments, blank lines and section headers.
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	var result []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			result = append(result, line)
			continue
		}

		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}

// ToMap converts the effective configuration into its dotted-key document
// form. The GitLab token is redacted.
func (c *Config) ToMap() map[string]interface{} {
	token := ""
	if c.GitLab.Token != "" {
		token = redacted
	}
	return map[string]interface{}{
		"evaluation": map[string]interface{}{
			"compare_to":              c.Evaluation.CompareTo,
			"workers":                 c.Evaluation.Workers,
			"max_pattern_comparisons": c.Evaluation.MaxPatternComparisons,
		},
		"lint": map[string]interface{}{
			"max_warnings": c.Lint.MaxWarnings,
		},
		"instrumentation": map[string]interface{}{
			"enabled":       c.Instrumentation.Enabled,
			"log_threshold": c.Instrumentation.LogThreshold.String(),
		},
		"store": map[string]interface{}{
			"path": c.Store.Path,
		},
		"server": map[string]interface{}{
			"address":      c.Server.Address,
			"read_timeout": c.Server.ReadTimeout.String(),
			"record":       c.Server.Record,
		},
		"gitlab": map[string]interface{}{
			"base_url": c.GitLab.BaseURL,
			"token":    token,
			"project":  c.GitLab.Project,
		},
	}
}

// Dump renders the effective configuration as TOML
func (c *Config) Dump() (string, error) {
	out, err := toml.Marshal(c.ToMap())
	if err != nil {
		return "", err
	}
	return string(out), nil
}
