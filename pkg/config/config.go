package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/cirules/pkg/errors"
	"github.com/arthur-debert/cirules/pkg/types"
)

// Config is the complete cirules configuration
type Config struct {
	Evaluation      Evaluation      `koanf:"evaluation"`
	Lint            Lint            `koanf:"lint"`
	Instrumentation Instrumentation `koanf:"instrumentation"`
	Store           Store           `koanf:"store"`
	Server          Server          `koanf:"server"`
	GitLab          GitLab          `koanf:"gitlab"`
}

// Evaluation tunes rule evaluation
type Evaluation struct {
	CompareTo             string `koanf:"compare_to"`
	Workers               int    `koanf:"workers"`
	MaxPatternComparisons int    `koanf:"max_pattern_comparisons"`
}

// Lint tunes the linter
type Lint struct {
	MaxWarnings int `koanf:"max_warnings"`
}

// Instrumentation controls the pipeline creation log line
type Instrumentation struct {
	Enabled      bool          `koanf:"enabled"`
	LogThreshold time.Duration `koanf:"log_threshold"`
}

// Store locates the evaluation history database
type Store struct {
	Path string `koanf:"path"`
}

// Server configures `cirules serve`
type Server struct {
	Address     string        `koanf:"address"`
	ReadTimeout time.Duration `koanf:"read_timeout"`
	Record      bool          `koanf:"record"`
}

// GitLab is the remote repository used when a project is given
type GitLab struct {
	BaseURL string `koanf:"base_url"`
	Token   string `koanf:"token"`
	Project string `koanf:"project"`
}

// CompareToMode returns the typed compare_to mode
func (c *Config) CompareToMode() types.CompareToMode {
	return types.CompareToMode(c.Evaluation.CompareTo)
}

// Validate rejects values the evaluator cannot work with
func (c *Config) Validate() error {
	if !c.CompareToMode().Valid() {
		return errors.Newf(errors.ErrConfigValid,
			"evaluation.compare_to must be %q or %q, got %q",
			types.CompareToEnforced, types.CompareToLegacy, c.Evaluation.CompareTo).
			WithDetail("key", "evaluation.compare_to")
	}
	if c.Evaluation.Workers < 1 {
		return errors.Newf(errors.ErrConfigValid, "evaluation.workers must be at least 1, got %d", c.Evaluation.Workers).
			WithDetail("key", "evaluation.workers")
	}
	if c.Evaluation.MaxPatternComparisons < 1 {
		return errors.Newf(errors.ErrConfigValid,
			"evaluation.max_pattern_comparisons must be at least 1, got %d", c.Evaluation.MaxPatternComparisons).
			WithDetail("key", "evaluation.max_pattern_comparisons")
	}
	if c.Lint.MaxWarnings < 1 {
		return errors.Newf(errors.ErrConfigValid, "lint.max_warnings must be at least 1, got %d", c.Lint.MaxWarnings).
			WithDetail("key", "lint.max_warnings")
	}
	if c.Server.Address == "" {
		return errors.New(errors.ErrConfigValid, "server.address must not be empty").
			WithDetail("key", "server.address")
	}
	return nil
}

// postProcessConfig fills values derived from the environment
func postProcessConfig(cfg *Config) {
	if cfg.Store.Path == "" {
		cfg.Store.Path = DefaultStorePath()
	}
}

// DefaultStorePath is $XDG_DATA_HOME/cirules/history.db
func DefaultStorePath() string {
	return filepath.Join(xdg.DataHome, "cirules", "history.db")
}

// DefaultConfigPath is $XDG_CONFIG_HOME/cirules/config.toml
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "cirules", "config.toml")
}
