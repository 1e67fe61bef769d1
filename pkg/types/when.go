package types

import (
	"fmt"
)

// When is the run policy of a job, as set by `when:` on a job or a rule clause.
// The zero value means "not set".
type When string

const (
	WhenOnSuccess When = "on_success"
	WhenOnFailure When = "on_failure"
	WhenAlways    When = "always"
	WhenNever     When = "never"
	WhenManual    When = "manual"
	WhenDelayed   When = "delayed"
)

// AllWhens lists the accepted run policies in documentation order
var AllWhens = []When{WhenOnSuccess, WhenOnFailure, WhenAlways, WhenNever, WhenManual, WhenDelayed}

// IsSet reports whether a run policy was declared
func (w When) IsSet() bool {
	return w != ""
}

// Valid reports whether w is one of the accepted run policies
func (w When) Valid() bool {
	for _, candidate := range AllWhens {
		if w == candidate {
			return true
		}
	}
	return false
}

// ParseWhen converts a raw `when:` value, rejecting unknown policies.
// An empty string yields the unset value.
func ParseWhen(raw string) (When, error) {
	if raw == "" {
		return "", nil
	}
	w := When(raw)
	if !w.Valid() {
		return "", fmt.Errorf("unknown value: %s", raw)
	}
	return w, nil
}

// CompareToMode controls how `changes:compare_to` is honoured
type CompareToMode string

const (
	// CompareToEnforced diffs against the named ref and rejects unknown refs
	CompareToEnforced CompareToMode = "enforced"

	// CompareToLegacy ignores compare_to entirely: any changes clause that
	// carries it is satisfied without looking at the repository
	CompareToLegacy CompareToMode = "legacy"
)

// Valid reports whether m is a known mode
func (m CompareToMode) Valid() bool {
	return m == CompareToEnforced || m == CompareToLegacy
}
