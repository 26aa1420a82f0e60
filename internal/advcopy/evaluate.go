package advcopy

import (
	"github.com/firefly-engineering/check-eternus-advcopy/internal/health"
	"github.com/firefly-engineering/check-eternus-advcopy/internal/logging"
)

// Sessions parses every row found in the window of a capture.
func Sessions(blob string, w Window) []Session {
	return parseLines(w.Lines(blob))
}

func parseLines(lines []string) []Session {
	var sessions []Session
	for _, line := range lines {
		if s, ok := ParseLine(line); ok {
			sessions = append(sessions, s)
		}
	}
	return sessions
}

// Evaluate classifies every session in a capture and aggregates the result.
// Only lines that parse as sessions are counted.
func Evaluate(blob string, w Window) *health.Result {
	lines := w.Lines(blob)
	sessions := parseLines(lines)

	r := health.NewResult()
	for _, s := range sessions {
		r.Add(Classify(s))
	}
	r.Finish()

	logging.Debug("evaluated capture", "linesSeen", len(lines), "sessions", len(sessions), "skipped", len(lines)-len(sessions))
	return r
}
