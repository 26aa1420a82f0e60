package health

import (
	"fmt"
	"io"
	"strings"
)

// DefaultHeader prefixes the summary line of advanced copy reports.
const DefaultHeader = "Advanced Copy"

// Report renders a Result as plugin output.
type Report struct {
	Header string
	Result *Result
}

// Summary returns "<header> <SEVERITY>: <summary>".
func (r Report) Summary() string {
	header := r.Header
	if header == "" {
		header = DefaultHeader
	}
	return fmt.Sprintf("%s %s: %s", header, r.Result.Severity, r.Result.Summary)
}

// Detail returns one line per observation, or "" when there are none.
func (r Report) Detail() string {
	details := r.Result.Details()
	if len(details) == 0 {
		return ""
	}
	return strings.Join(details, "\n") + "\n"
}

// WriteTo writes the summary line followed by the detail block.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, r.Summary()+"\n"+r.Detail())
	return int64(n), err
}
