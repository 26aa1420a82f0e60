package advcopy

import (
	"fmt"

	"github.com/firefly-engineering/check-eternus-advcopy/internal/health"
)

// Category groups session types that share a state table.
type Category int

const (
	CategoryUnrecognized Category = iota
	// CategoryLocal covers the local copy and monitor sessions.
	CategoryLocal
	// CategoryRemote is REC (Remote Equivalent Copy).
	CategoryRemote
	// CategoryODX is Offloaded Data Transfer.
	CategoryODX
)

func (c Category) String() string {
	switch c {
	case CategoryLocal:
		return "local"
	case CategoryRemote:
		return "remote"
	case CategoryODX:
		return "odx"
	default:
		return "unrecognized"
	}
}

var categories = map[string]Category{
	"EC":       CategoryLocal,
	"OPC":      CategoryLocal,
	"QuickOPC": CategoryLocal,
	"SnapOPC":  CategoryLocal,
	"SnapOPC+": CategoryLocal,
	"Monitor":  CategoryLocal,
	"REC":      CategoryRemote,
	"ODX":      CategoryODX,
}

// Categorize returns the category for a session type. Matching is exact.
func Categorize(sessionType string) Category {
	return categories[sessionType]
}

// stateTable maps each category's known states to a severity.
// States missing from a category's table are UNKNOWN.
var stateTable = map[Category]map[string]health.Severity{
	CategoryLocal: {
		"Active":        health.SeverityOK,
		"Reserved":      health.SeverityOK,
		"Suspend":       health.SeverityOK,
		"Error Suspend": health.SeverityCritical,
		"Unknown":       health.SeverityWarning,
	},
	CategoryRemote: {
		"Active":        health.SeverityOK,
		"Reserved":      health.SeverityOK,
		"Suspend":       health.SeverityOK,
		"Halt":          health.SeverityCritical,
		"Error Suspend": health.SeverityCritical,
		"Unknown":       health.SeverityWarning,
	},
	CategoryODX: {
		"Active":        health.SeverityOK,
		"Reserved":      health.SeverityOK,
		"Error Suspend": health.SeverityCritical,
		"Unknown":       health.SeverityWarning,
	},
}

// SeverityFor looks up the severity of a state within a category.
func SeverityFor(c Category, state string) health.Severity {
	states, ok := stateTable[c]
	if !ok {
		return health.SeverityUnknown
	}
	if sev, ok := states[state]; ok {
		return sev
	}
	return health.SeverityUnknown
}

// Classify maps a session to its severity and report line.
func Classify(s Session) health.Observation {
	body := fmt.Sprintf("%s (%s > %s) is %s", s.Type, s.SourceName, s.DestinationName, s.Status)

	c := Categorize(s.Type)
	if c == CategoryUnrecognized {
		return health.Observation{
			Severity: health.SeverityUnknown,
			Message:  "UNKNOWN TYPE - " + body,
		}
	}

	sev := SeverityFor(c, s.Status)
	if sev == health.SeverityOK {
		return health.Observation{Severity: sev, Message: body}
	}
	return health.Observation{Severity: sev, Message: sev.String() + " - " + body}
}
