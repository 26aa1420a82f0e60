// Package tui provides the live terminal view of advanced copy sessions.
//
// The watch view re-runs the check on an interval and shows the latest
// result: an overall severity badge, per-severity counts and a scrollable
// table of sessions in capture order.
//
//	err := tui.RunWatch(ctx, "eternus01", time.Minute, prober)
//
// The model can also be driven directly, which is how it is tested:
//
//	m := tui.NewWatch("eternus01")
//	next, _ := m.Update(tui.ResultMsg{Result: res, At: time.Now()})
//
// Line renders a single result for non-interactive output.
//
// # Dependencies
//
// Uses the Charm libraries:
//   - github.com/charmbracelet/bubbletea - TUI framework
//   - github.com/charmbracelet/bubbles - table component
//   - github.com/charmbracelet/lipgloss - Styling
package tui
