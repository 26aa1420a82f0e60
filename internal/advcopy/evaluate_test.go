package advcopy

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/firefly-engineering/check-eternus-advcopy/internal/health"
	"github.com/firefly-engineering/check-eternus-advcopy/internal/logging"
	"github.com/firefly-engineering/check-eternus-advcopy/internal/testutil"
)

// transcript wraps data rows in the four header lines and trailing prompt
// the array prints around them.
func transcript(rows ...string) string {
	head := []string{
		"CLI> " + ListCommand,
		"SID   Gen   Type      Volume Type  Source Volume        Destination Volume    Status         Phase            Error Code  Requestor",
		"                                   No.   Name           No.   Name",
		"----- ----- --------- ------------ ----- -------------- ----- --------------- -------------- ---------------- ----------- ---------",
	}
	lines := append(head, rows...)
	lines = append(lines, "CLI> ")
	return strings.Join(lines, "\n")
}

func TestWindowLines(t *testing.T) {
	tests := []struct {
		name   string
		window Window
		blob   string
		want   []string
	}{
		{"empty", DefaultWindow, "", nil},
		{"only header", DefaultWindow, "a\nb\nc\nd\ne", nil},
		{"one row", DefaultWindow, "a\nb\nc\nd\nrow\nprompt", []string{"row"}},
		{"crlf", DefaultWindow, "a\r\nb\r\nc\r\nd\r\nrow\r\nprompt", []string{"row"}},
		{"no skipping", Window{}, "x\ny", []string{"x", "y"}},
		{"negative skips", Window{SkipHead: -1, SkipTail: -3}, "x\ny", []string{"x", "y"}},
		{"escape sequences", Window{}, "\x1b[0mrow\x1b[K", []string{"row"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.window.Lines(tt.blob)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Lines() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEvaluate_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		row      string
		severity health.Severity
		detail   string
	}{
		{"healthy EC", "1 x EC y 2 z 3 w Active p a b", health.SeverityOK, "EC (z > w) is Active"},
		{"halted REC", "1 x REC y 2 z 3 w Halt p a b", health.SeverityCritical, "CRITICAL - REC (z > w) is Halt"},
		{"unrecognized type", "1 x FOO y 2 z 3 w Active p a b", health.SeverityUnknown, "UNKNOWN TYPE - FOO (z > w) is Active"},
		{"oversized session id", "99999999999999999999 x REC y 2 z 3 w Halt p a b", health.SeverityCritical, "CRITICAL - REC (z > w) is Halt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Evaluate(transcript(tt.row), DefaultWindow)

			if r.Severity != tt.severity {
				t.Errorf("Severity = %v, want %v", r.Severity, tt.severity)
			}
			if r.Summary != "1 session(s)" {
				t.Errorf("Summary = %q, want %q", r.Summary, "1 session(s)")
			}
			if diff := cmp.Diff([]string{tt.detail}, r.Details()); diff != "" {
				t.Errorf("Details() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEvaluate_CountsOnlyParsedRows(t *testing.T) {
	blob := transcript(
		"1 x EC y 2 z 3 w Active p a b",
		"",
		"  -- page 1 of 1 --",
		"2 x OPC y 4 z 5 w Suspend p a b",
	)

	r := Evaluate(blob, DefaultWindow)
	if r.Sessions != 2 {
		t.Errorf("Sessions = %d, want 2", r.Sessions)
	}
	if r.Summary != "2 session(s)" {
		t.Errorf("Summary = %q", r.Summary)
	}
}

func TestEvaluate_Fixtures(t *testing.T) {
	tests := []struct {
		fixture  string
		severity health.Severity
		details  []string
	}{
		{
			fixture:  testutil.CaptureHealthy,
			severity: health.SeverityOK,
			details: []string{
				"OPC (VOL_DB01 > VOL_DB01_BK) is Active",
				"EC (VOL_FS01 > VOL_FS01_MIR) is Suspend",
				"ODX (VOL_VM01 > VOL_VM01_TMP) is Reserved",
			},
		},
		{
			fixture:  testutil.CaptureMixed,
			severity: health.SeverityCritical,
			details: []string{
				"OPC (VOL_DB01 > VOL_DB01_BK) is Active",
				"WARNING - QuickOPC (VOL_FS01 > VOL_FS01_SNAP) is Unknown",
				"CRITICAL - REC (VOL_REPL01 > VOL_REPL01_DR) is Halt",
				"CRITICAL - SnapOPC+ (VOL_VM01 > VOL_VM01_SV1) is Error Suspend",
				"UNKNOWN TYPE - XCOPY (VOL_X > VOL_Y) is Active",
				"UNKNOWN - ODX (VOL_O1 > VOL_O2) is Suspend",
			},
		},
		{
			fixture:  testutil.CaptureEmpty,
			severity: health.SeverityOK,
			details:  nil,
		},
		{
			fixture:  testutil.CapturePTY,
			severity: health.SeverityCritical,
			details: []string{
				"EC (VOL_A > VOL_B) is Active",
				"CRITICAL - REC (VOL_C > VOL_D) is Error Suspend",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			r := Evaluate(testutil.Capture(t, tt.fixture), DefaultWindow)

			if r.Severity != tt.severity {
				t.Errorf("Severity = %v, want %v", r.Severity, tt.severity)
			}
			if r.Sessions != len(tt.details) {
				t.Errorf("Sessions = %d, want %d", r.Sessions, len(tt.details))
			}
			if diff := cmp.Diff(tt.details, r.Details()); diff != "" {
				t.Errorf("Details() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	blob := testutil.Capture(t, testutil.CaptureMixed)

	first := Evaluate(blob, DefaultWindow)
	second := Evaluate(blob, DefaultWindow)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Evaluate() not deterministic (-first +second):\n%s", diff)
	}
}

func TestSessions(t *testing.T) {
	sessions := Sessions(testutil.Capture(t, testutil.CaptureMixed), DefaultWindow)
	if len(sessions) != 6 {
		t.Fatalf("Sessions() = %d sessions, want 6", len(sessions))
	}
	if sessions[3].Status != "Error Suspend" || sessions[3].Phase != "Not Copying" {
		t.Errorf("sessions[3] = %+v", sessions[3])
	}
}

func TestEvaluate_LogsLinesSeen(t *testing.T) {
	var buf bytes.Buffer
	logging.Setup(true, false, &buf)
	defer logging.Setup(false, false, os.Stderr)

	Evaluate(transcript("1 x EC y 2 z 3 w Active p a b", "  -- page 1 of 1 --"), DefaultWindow)

	out := buf.String()
	for _, want := range []string{"linesSeen=2", "sessions=1", "skipped=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("debug log should contain %q, got: %s", want, out)
		}
	}
}
