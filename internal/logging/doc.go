// Package logging provides logging utilities for check_eternus_advcopy.
//
// Two kinds of output are kept apart:
//   - Debug logging: structured slog records on stderr
//   - User output: short status lines for the interactive subcommands
//
// stdout belongs to the plugin report read by the monitoring scheduler, so the
// structured logger never writes there and stays at warning level unless
// --verbose is given:
//
//	logging.Debug("capturing sessions", "host", host, "wait", wait)
//	logging.Warn("history not recorded", "error", err)
//
// User output prepends a status indicator:
//
//	logging.UserInfo("Watching %s every %s", host, interval)  // ℹ
//	logging.UserSuccess("History cleared for %s", host)       // ✓
//	logging.UserWarning("No history for %s", host)            // ⚠
//	logging.UserError("Probe failed: %v", err)                // ✗
package logging
