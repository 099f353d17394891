package harness

// CaseOutcome records one example case.
type CaseOutcome struct {
	Name   string  `json:"name,omitempty"`
	Input  []int64 `json:"input"`
	Output []int64 `json:"output"`
	Pass   bool    `json:"pass"`
}

// PropertyOutcome records the property run, if the scenario has one.
type PropertyOutcome struct {
	Status  string  `json:"status"`
	Seed    uint64  `json:"seed"`
	Trials  int     `json:"trials"`
	Minimal []int64 `json:"minimal,omitempty"`
	Reason  string  `json:"reason,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success.
	Pass bool `json:"pass"`

	// Pivot is the resolved pivot strategy name.
	Pivot string `json:"pivot"`

	// Cases holds one outcome per example case, in order.
	Cases []CaseOutcome `json:"cases"`

	// Property is nil when the scenario has no property block.
	Property *PropertyOutcome `json:"property,omitempty"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Cases:  []CaseOutcome{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
