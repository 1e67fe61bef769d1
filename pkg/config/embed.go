package config

import (
	_ "embed"
	"errors"
)

// defaultConfig is the lowest configuration layer. Every key Config knows
// about has a value here, so a missing key in a user file never decodes to
// a zero value.
//
//go:embed embedded/defaults.toml
var defaultConfig []byte

// GetDefaultsContent returns the embedded defaults file
func GetDefaultsContent() string {
	return string(defaultConfig)
}

// embeddedDefaults feeds defaultConfig to koanf through a parser
type embeddedDefaults struct{}

func (embeddedDefaults) ReadBytes() ([]byte, error) {
	return defaultConfig, nil
}

// Read is never called: koanf only uses it when no parser is given
func (embeddedDefaults) Read() (map[string]interface{}, error) {
	return nil, errors.New("embedded defaults need a toml parser")
}
