package types

// AllowFailureKind tags which variant of AllowFailure is populated
type AllowFailureKind int

const (
	// AllowFailureUnset means no allow_failure was declared
	AllowFailureUnset AllowFailureKind = iota

	// AllowFailureBool is a plain `allow_failure: true|false`
	AllowFailureBool

	// AllowFailureExitCodes is `allow_failure: {exit_codes: [...]}`
	AllowFailureExitCodes
)

// AllowFailure is the failure tolerance of a job or rule clause.
// Only the field matching Kind is meaningful.
type AllowFailure struct {
	Kind      AllowFailureKind `json:"kind"`
	Value     bool             `json:"value,omitempty"`
	ExitCodes []int            `json:"exit_codes,omitempty"`
}

// AllowFailureFromBool builds the boolean variant
func AllowFailureFromBool(v bool) AllowFailure {
	return AllowFailure{Kind: AllowFailureBool, Value: v}
}

// AllowFailureFromExitCodes builds the exit code criteria variant
func AllowFailureFromExitCodes(codes ...int) AllowFailure {
	out := make([]int, len(codes))
	copy(out, codes)
	return AllowFailure{Kind: AllowFailureExitCodes, ExitCodes: out}
}

// IsSet reports whether allow_failure was declared at all
func (a AllowFailure) IsSet() bool {
	return a.Kind != AllowFailureUnset
}

// Bool returns the boolean tolerance. Exit code criteria never make a job
// unconditionally tolerant, so they report false.
func (a AllowFailure) Bool() bool {
	return a.Kind == AllowFailureBool && a.Value
}
