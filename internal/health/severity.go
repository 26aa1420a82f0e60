package health

import (
	"fmt"
	"strings"
)

// Severity is a Nagios check outcome. The numeric value is the exit code.
type Severity int

const (
	SeverityOK Severity = iota
	SeverityWarning
	SeverityCritical
	SeverityUnknown
)

var severityNames = [...]string{"OK", "WARNING", "CRITICAL", "UNKNOWN"}

func (s Severity) String() string {
	if s < SeverityOK || s > SeverityUnknown {
		return severityNames[SeverityUnknown]
	}
	return severityNames[s]
}

// ExitCode returns the plugin exit code for the severity.
func (s Severity) ExitCode() int {
	if s < SeverityOK || s > SeverityUnknown {
		return int(SeverityUnknown)
	}
	return int(s)
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSeverity parses a severity name, case-insensitively.
func ParseSeverity(name string) (Severity, error) {
	for i, n := range severityNames {
		if strings.EqualFold(n, name) {
			return Severity(i), nil
		}
	}
	return SeverityUnknown, fmt.Errorf("unknown severity %q", name)
}

// Escalate returns the running severity after observing next.
// The result never improves on current: CRITICAL is absorbing, WARNING
// overrides OK and UNKNOWN, UNKNOWN only overrides OK.
func Escalate(current, next Severity) Severity {
	switch next {
	case SeverityCritical:
		return SeverityCritical
	case SeverityWarning:
		if current != SeverityCritical {
			return SeverityWarning
		}
	case SeverityUnknown:
		if current != SeverityCritical && current != SeverityWarning {
			return SeverityUnknown
		}
	}
	return current
}
