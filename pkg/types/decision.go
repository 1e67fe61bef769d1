package types

// NoRuleMatched is the MatchedRule index of a decision that did not come
// from an explicit clause (a job without rules, or a workflow without rules)
const NoRuleMatched = -1

// JobDecision is the outcome of rule evaluation for one included job
type JobDecision struct {
	JobName               string            `json:"job_name"`
	Stage                 string            `json:"stage,omitempty"`
	Included              bool              `json:"included"`
	When                  When              `json:"when"`
	AllowFailure          bool              `json:"allow_failure"`
	AllowFailureExitCodes []int             `json:"allow_failure_exit_codes,omitempty"`
	StartIn               string            `json:"start_in,omitempty"`
	Variables             map[string]string `json:"effective_variables"`
	MatchedRule           int               `json:"matched_rule"`
}

// WorkflowDecision is the outcome of the workflow gate. Variables is the
// overlay contributed by the matched clause.
type WorkflowDecision struct {
	Proceed     bool              `json:"proceed"`
	MatchedRule int               `json:"matched_rule"`
	Variables   map[string]string `json:"variables,omitempty"`
}

// Evaluation is the full result of a successful pipeline-creation attempt.
// Excluded lists jobs whose rules did not match, in declaration order.
type Evaluation struct {
	Workflow WorkflowDecision `json:"workflow"`
	Jobs     []JobDecision    `json:"jobs"`
	Excluded []string         `json:"excluded,omitempty"`
}

// Decision returns the decision for a job, if it was included
func (e *Evaluation) Decision(name string) (JobDecision, bool) {
	for _, d := range e.Jobs {
		if d.JobName == name {
			return d, true
		}
	}
	return JobDecision{}, false
}

// JobNames lists the included jobs in output order
func (e *Evaluation) JobNames() []string {
	names := make([]string, 0, len(e.Jobs))
	for _, d := range e.Jobs {
		names = append(names, d.JobName)
	}
	return names
}
