// Package config handles configuration management for cirules.
// It loads the embedded defaults, then an optional user file (TOML or
// YAML), then CIRULES_ environment variables, each layer overriding the
// previous one.
package config
