// Package audit records probe runs as a per-host history.
// Events are stored as JSON Lines (JSONL) files, one per array.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/firefly-engineering/check-eternus-advcopy/internal/health"
)

// Event represents a single probe run.
type Event struct {
	Timestamp time.Time       `json:"timestamp"`
	Host      string          `json:"host"`
	Severity  health.Severity `json:"severity"`
	Summary   string          `json:"summary"`
	Sessions  int             `json:"sessions"`
	Details   []string        `json:"details,omitempty"`
}

// Logger writes and reads run history.
// Events are stored in {dir}/{host}.jsonl.
type Logger struct {
	dir string
}

// NewLogger creates a history logger rooted at dir.
func NewLogger(dir string) *Logger {
	return &Logger{dir: dir}
}

// Dir returns the history directory.
func (l *Logger) Dir() string {
	return l.dir
}

// eventPath returns the JSONL path for a host, kept inside the history
// directory whatever the host string contains.
func (l *Logger) eventPath(host string) (string, error) {
	if host == "" {
		return "", fmt.Errorf("host is required")
	}
	return securejoin.SecureJoin(l.dir, host+".jsonl")
}

// Log appends an event to the host's history.
func (l *Logger) Log(event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	path, err := l.eventPath(event.Host)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

// Record logs the outcome of one probe run against host.
func (l *Logger) Record(host string, result *health.Result) error {
	return l.Log(Event{
		Timestamp: time.Now(),
		Host:      host,
		Severity:  result.Severity,
		Summary:   result.Summary,
		Sessions:  result.Sessions,
		Details:   result.Details(),
	})
}

// Events reads all events for a host in the order they were recorded.
func (l *Logger) Events(host string) ([]Event, error) {
	path, err := l.eventPath(host)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			continue // Skip malformed lines
		}
		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("error reading history: %w", err)
	}

	return events, nil
}

// Remove deletes the history for a host.
func (l *Logger) Remove(host string) error {
	path, err := l.eventPath(host)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
