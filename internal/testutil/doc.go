// Package testutil provides test fixtures and utilities.
//
// Fixtures are embedded with go:embed:
//
//	fixtures/capture_*.txt  - captured CLI transcripts of show advanced-copy-sessions
//	fixtures/*_config.toml  - probe configuration files
//
// Loading fixtures:
//
//	blob := testutil.Capture(t, testutil.CaptureMixed)
//	data, err := testutil.LoadFixture(testutil.ValidConfig)
//
// NewTestEnv lays out a temporary config directory with a password file:
//
//	env := testutil.NewTestEnv(t)
//	cfg, err := config.Load(env.ConfigPath)
package testutil
