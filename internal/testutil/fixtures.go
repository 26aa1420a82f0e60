package testutil

import (
	"embed"
	"testing"
)

//go:embed fixtures/*.txt fixtures/*.toml
var fixturesFS embed.FS

// Capture fixture names.
const (
	CaptureHealthy = "capture_healthy.txt"
	CaptureMixed   = "capture_mixed.txt"
	CaptureEmpty   = "capture_empty.txt"
	CapturePTY     = "capture_pty.txt"
)

// Config fixture names.
const (
	ValidConfig   = "valid_config.toml"
	InvalidConfig = "invalid_config.toml"
)

// LoadFixture loads a fixture file by name.
func LoadFixture(name string) ([]byte, error) {
	return fixturesFS.ReadFile("fixtures/" + name)
}

// Capture returns a captured shell transcript fixture, failing the test if it is missing.
func Capture(t testing.TB, name string) string {
	t.Helper()

	data, err := LoadFixture(name)
	if err != nil {
		t.Fatalf("Failed to load fixture %s: %v", name, err)
	}
	return string(data)
}
