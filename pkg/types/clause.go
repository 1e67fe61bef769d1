package types

// ChangesSpec is the `changes:` condition of a rule clause
type ChangesSpec struct {
	Paths     []string `json:"paths"`
	CompareTo string   `json:"compare_to,omitempty"`
}

// RuleClause is one entry of a `rules:` list. Conditions are If, Changes and
// Exists; the remaining fields are directives applied when the clause wins.
type RuleClause struct {
	If      string       `json:"if,omitempty"`
	Changes *ChangesSpec `json:"changes,omitempty"`

	// Exists is nil when the clause has no exists condition
	Exists []string `json:"exists,omitempty"`

	When         When              `json:"when,omitempty"`
	AllowFailure AllowFailure      `json:"allow_failure"`
	Variables    map[string]string `json:"variables,omitempty"`
	StartIn      string            `json:"start_in,omitempty"`
}

// HasConditions reports whether the clause carries any condition. A clause
// without conditions always matches.
func (c RuleClause) HasConditions() bool {
	return c.If != "" || c.Changes != nil || c.Exists != nil
}

// OnlyWhen reports whether `when` is the only key present on the clause
func (c RuleClause) OnlyWhen() bool {
	return c.When.IsSet() &&
		!c.HasConditions() &&
		!c.AllowFailure.IsSet() &&
		len(c.Variables) == 0 &&
		c.StartIn == ""
}

// RuleSet is an ordered list of clauses, evaluated top to bottom
type RuleSet []RuleClause

// Last returns the final clause and whether the set is non-empty
func (rs RuleSet) Last() (RuleClause, bool) {
	if len(rs) == 0 {
		return RuleClause{}, false
	}
	return rs[len(rs)-1], true
}
