package advcopy

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// ListCommand lists every advanced copy session on the array.
const ListCommand = "show advanced-copy-sessions -type all"

// Window selects the data region of a captured shell transcript.
type Window struct {
	// SkipHead is the number of leading lines dropped (command echo and table header).
	SkipHead int
	// SkipTail is the number of trailing lines dropped (the next prompt).
	SkipTail int
}

// DefaultWindow matches the CLI transcript layout of ETERNUS DX firmware.
var DefaultWindow = Window{SkipHead: 4, SkipTail: 1}

// Lines splits a capture into lines, removes terminal escape sequences and
// carriage returns, and drops the head and tail lines.
func (w Window) Lines(blob string) []string {
	if blob == "" {
		return nil
	}

	lines := strings.Split(ansi.Strip(blob), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}

	head := max(w.SkipHead, 0)
	end := len(lines) - max(w.SkipTail, 0)
	if head >= end {
		return nil
	}
	return lines[head:end]
}
