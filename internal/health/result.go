package health

import "fmt"

// Observation is one classified item contributing to a Result.
type Observation struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Result is the aggregate outcome of one probe run.
type Result struct {
	Severity     Severity
	Summary      string
	Observations []Observation
	// Sessions counts observations added; transport failures leave it at zero.
	Sessions int
}

// NewResult returns an empty OK result.
func NewResult() *Result {
	return &Result{Severity: SeverityOK, Summary: "OK"}
}

// Add folds an observation into the result.
func (r *Result) Add(o Observation) {
	r.Severity = Escalate(r.Severity, o.Severity)
	r.Observations = append(r.Observations, o)
	r.Sessions++
}

// Fail records a transport-level failure. The session loop never ran,
// so no count or detail is produced.
func (r *Result) Fail(summary string) {
	r.Severity = Escalate(r.Severity, SeverityWarning)
	r.Summary = summary
}

// Finish sets the session count summary.
func (r *Result) Finish() {
	r.Summary = fmt.Sprintf("%d session(s)", r.Sessions)
}

// Details returns the observation messages in encounter order.
func (r *Result) Details() []string {
	if len(r.Observations) == 0 {
		return nil
	}
	details := make([]string, len(r.Observations))
	for i, o := range r.Observations {
		details[i] = o.Message
	}
	return details
}

// Counts returns how many observations were seen at each severity.
func (r *Result) Counts() map[Severity]int {
	counts := make(map[Severity]int, len(severityNames))
	for _, o := range r.Observations {
		counts[o.Severity]++
	}
	return counts
}

// Aggregate folds observations into a finished Result.
func Aggregate(obs ...Observation) *Result {
	r := NewResult()
	for _, o := range obs {
		r.Add(o)
	}
	r.Finish()
	return r
}
