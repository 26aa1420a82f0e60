package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-engineering/check-eternus-advcopy/internal/health"
	"github.com/firefly-engineering/check-eternus-advcopy/internal/monitor"
)

// ResultMsg delivers a finished check to the watch model.
type ResultMsg struct {
	Result *health.Result
	At     time.Time
}

const (
	numberWidth   = 4
	severityWidth = 12
	minMessage    = 20
)

// severityOrder is the display order of the per-severity counts.
var severityOrder = []health.Severity{
	health.SeverityOK,
	health.SeverityWarning,
	health.SeverityCritical,
	health.SeverityUnknown,
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	severityStyles = map[health.Severity]lipgloss.Style{
		health.SeverityOK:       lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		health.SeverityWarning:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		health.SeverityCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		health.SeverityUnknown:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	}
)

func severityStyle(s health.Severity) lipgloss.Style {
	if style, ok := severityStyles[s]; ok {
		return style
	}
	return severityStyles[health.SeverityUnknown]
}

func statusIcon(s health.Severity) string {
	switch s {
	case health.SeverityOK:
		return "✓"
	case health.SeverityWarning:
		return "⚠"
	case health.SeverityCritical:
		return "✗"
	default:
		return "?"
	}
}

// WatchModel is the bubbletea model for the live session view.
type WatchModel struct {
	host     string
	table    table.Model
	last     *health.Result
	updated  time.Time
	checks   int
	quitting bool
}

// NewWatch creates a watch view for host with no results yet.
func NewWatch(host string) WatchModel {
	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("39")).
		Bold(true)
	t.SetStyles(styles)

	return WatchModel{host: host, table: t}
}

func columns(width int) []table.Column {
	message := width - numberWidth - severityWidth - 6
	if message < minMessage {
		message = minMessage
	}
	return []table.Column{
		{Title: "#", Width: numberWidth},
		{Title: "Severity", Width: severityWidth},
		{Title: "Session", Width: message},
	}
}

func rows(res *health.Result) []table.Row {
	out := make([]table.Row, len(res.Observations))
	for i, o := range res.Observations {
		out[i] = table.Row{
			strconv.Itoa(i + 1),
			statusIcon(o.Severity) + " " + o.Severity.String(),
			o.Message,
		}
	}
	return out
}

func (m WatchModel) Init() tea.Cmd {
	return nil
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ResultMsg:
		m.last = msg.Result
		m.updated = msg.At
		m.checks++
		m.table.SetRows(rows(msg.Result))
		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetColumns(columns(msg.Width))
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(max(msg.Height-8, 3))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(health.DefaultHeader+" · "+m.host) + "\n")

	if m.last == nil {
		sb.WriteString("Waiting for first check...\n")
	} else {
		sb.WriteString(statusLine(m.last) + "\n")
		sb.WriteString(countsLine(m.last) + "\n\n")
		sb.WriteString(m.table.View())
	}

	help := "[↑/↓] Scroll  [q] Quit"
	if m.checks > 0 {
		help += fmt.Sprintf("  ·  check #%d at %s", m.checks, m.updated.Format(time.TimeOnly))
	}
	sb.WriteString("\n" + helpStyle.Render(help))
	return sb.String()
}

// Checks returns how many results the view has received.
func (m WatchModel) Checks() int {
	return m.checks
}

func statusLine(res *health.Result) string {
	badge := severityStyle(res.Severity).Render(statusIcon(res.Severity) + " " + res.Severity.String())
	return badge + "  " + res.Summary
}

func countsLine(res *health.Result) string {
	counts := res.Counts()
	parts := make([]string, 0, len(severityOrder))
	for _, s := range severityOrder {
		parts = append(parts, severityStyle(s).Render(s.String())+" "+strconv.Itoa(counts[s]))
	}
	return strings.Join(parts, "  ")
}

// Line renders one result as a single plain status line.
func Line(host string, res *health.Result, at time.Time) string {
	return fmt.Sprintf("%s %s %s", at.Format(time.RFC3339), host, statusLine(res))
}

// RunWatch runs the watch view, probing with runner every interval until
// the user quits or ctx ends.
func RunWatch(ctx context.Context, host string, interval time.Duration, runner monitor.Runner) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewWatch(host), tea.WithAltScreen(), tea.WithContext(ctx))

	mon := monitor.New(interval, runner, monitor.WithObserver(func(res *health.Result) {
		p.Send(ResultMsg{Result: res, At: time.Now()})
	}))
	go func() {
		_ = mon.Run(ctx)
	}()

	_, err := p.Run()
	if ctx.Err() != nil {
		return nil
	}
	return err
}
