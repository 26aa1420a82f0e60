// Package health provides the severity lattice and result aggregation used to
// report advanced copy session health to a monitoring scheduler.
//
// # Severity
//
// Outcomes use the four Nagios levels. Their numeric values are the plugin
// exit codes:
//
//	SeverityOK       - 0
//	SeverityWarning  - 1
//	SeverityCritical - 2
//	SeverityUnknown  - 3
//
// # Escalation
//
// Escalate folds a new severity into a running one without ever downgrading:
//
//	CRITICAL always wins and is never replaced
//	WARNING replaces OK and UNKNOWN
//	UNKNOWN replaces OK only
//	OK changes nothing
//
// # Results
//
// A Result accumulates observations in encounter order:
//
//	r := health.NewResult()
//	r.Add(health.Observation{Severity: health.SeverityCritical, Message: "..."})
//	r.Finish() // Summary = "1 session(s)"
//
// Transport failures skip the observations entirely:
//
//	r.Fail("Unable to establish connection") // WARNING, no session count
//
// # Reports
//
// Report renders the two plugin output units: a summary line and a detail block.
//
//	rep := health.Report{Header: "Advanced Copy", Result: r}
//	rep.WriteTo(os.Stdout)
package health
