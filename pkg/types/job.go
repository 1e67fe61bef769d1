package types

// VariableInherit is the `inherit:variables:` setting of a job. A nil
// *VariableInherit inherits every pipeline-level variable.
type VariableInherit struct {
	All   bool     `json:"all"`
	Names []string `json:"names,omitempty"`
}

// InheritAll is `inherit:variables: true`
func InheritAll() *VariableInherit {
	return &VariableInherit{All: true}
}

// InheritNone is `inherit:variables: false`
func InheritNone() *VariableInherit {
	return &VariableInherit{}
}

// InheritOnly is `inherit:variables: [NAMES...]`
func InheritOnly(names ...string) *VariableInherit {
	return &VariableInherit{Names: append([]string(nil), names...)}
}

// Allows reports whether the pipeline-level variable name is visible
func (v *VariableInherit) Allows(name string) bool {
	if v == nil || v.All {
		return true
	}
	for _, n := range v.Names {
		if n == name {
			return true
		}
	}
	return false
}

// JobSpec is a job of the pipeline definition, reduced to what rule
// evaluation needs. When, AllowFailure and StartIn are the job-level
// declarations used when a matched clause omits them.
type JobSpec struct {
	Name   string   `json:"name"`
	Stage  string   `json:"stage,omitempty"`
	Script []string `json:"script,omitempty"`

	// Rules is nil or empty when the job declares no rules
	Rules RuleSet `json:"rules,omitempty"`

	When             When              `json:"when,omitempty"`
	AllowFailure     AllowFailure      `json:"allow_failure"`
	StartIn          string            `json:"start_in,omitempty"`
	Variables        map[string]string `json:"variables,omitempty"`
	InheritVariables *VariableInherit  `json:"inherit_variables,omitempty"`
}

// HasRules reports whether the job declares at least one rule clause
func (j JobSpec) HasRules() bool {
	return len(j.Rules) > 0
}

// WorkflowSpec is the pipeline-wide gate plus the root-level variables
type WorkflowSpec struct {
	Name      string            `json:"name,omitempty"`
	Rules     RuleSet           `json:"rules,omitempty"`
	Variables map[string]string `json:"variables,omitempty"`
}

// HasRules reports whether workflow rules are declared
func (w WorkflowSpec) HasRules() bool {
	return len(w.Rules) > 0
}

// Definition is a decoded pipeline definition. Jobs keep declaration order.
type Definition struct {
	Stages   []string     `json:"stages,omitempty"`
	Workflow WorkflowSpec `json:"workflow"`
	Jobs     []JobSpec    `json:"jobs"`
}

// Job looks a job up by name
func (d *Definition) Job(name string) (JobSpec, bool) {
	for _, j := range d.Jobs {
		if j.Name == name {
			return j, true
		}
	}
	return JobSpec{}, false
}
