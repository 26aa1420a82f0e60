package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TestPassword is the password written by NewTestEnv.
const TestPassword = "s3cret-monitor"

// TestEnv is a temporary configuration directory for command and config tests.
type TestEnv struct {
	T          *testing.T
	Dir        string
	ConfigPath string
	HistoryDir string
}

// NewTestEnv creates a config directory holding valid_config.toml and the
// password file it references.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	dir := t.TempDir()
	env := &TestEnv{
		T:          t,
		Dir:        dir,
		ConfigPath: filepath.Join(dir, "check_eternus_advcopy.toml"),
		HistoryDir: filepath.Join(dir, "history"),
	}

	data, err := LoadFixture(ValidConfig)
	if err != nil {
		t.Fatalf("Failed to load config fixture: %v", err)
	}
	env.WriteFile("check_eternus_advcopy.toml", string(data))
	env.WriteFile(filepath.Join("secrets", "eternus.pw"), TestPassword+"\n")

	return env
}

// WriteFile writes a file relative to the environment directory and returns its path.
func (e *TestEnv) WriteFile(name, content string) string {
	e.T.Helper()

	path := filepath.Join(e.Dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		e.T.Fatalf("Failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		e.T.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// WriteCapture writes a capture fixture into the environment and returns its path.
func (e *TestEnv) WriteCapture(name string) string {
	e.T.Helper()
	return e.WriteFile(name, Capture(e.T, name))
}
