package errors

import (
	"errors"
	"fmt"
)

// Exit codes follow the Nagios plugin convention.
const (
	ExitOK       = 0
	ExitWarning  = 1
	ExitCritical = 2
	ExitUnknown  = 3
)

// ProbeError is the base error type for check_eternus_advcopy
type ProbeError struct {
	Code    int
	Message string
	Cause   error
	// Reported marks errors whose output has already been written,
	// such as a finished check report or the usage text.
	Reported bool
}

func (e *ProbeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ProbeError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *ProbeError) ExitCode() int {
	return e.Code
}

// New creates a new ProbeError
func New(code int, message string) *ProbeError {
	return &ProbeError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a ProbeError
func Wrap(code int, message string, cause error) *ProbeError {
	return &ProbeError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Exit returns an already reported error carrying a plugin exit code.
func Exit(code int) *ProbeError {
	return &ProbeError{
		Code:     code,
		Message:  fmt.Sprintf("exit status %d", code),
		Reported: true,
	}
}

// UsageShown is returned after usage or version text was printed.
func UsageShown() *ProbeError {
	return &ProbeError{
		Code:     ExitUnknown,
		Message:  "usage shown",
		Reported: true,
	}
}

// UsageError returns an error for missing or invalid arguments
func UsageError(message string) *ProbeError {
	return New(ExitUnknown, message)
}

// ConfigError returns an error for configuration issues
func ConfigError(message string, cause error) *ProbeError {
	return Wrap(ExitUnknown, message, cause)
}

// CaptureError returns an error for unreadable capture input
func CaptureError(source string, cause error) *ProbeError {
	return Wrap(ExitUnknown, fmt.Sprintf("failed to read capture %s", source), cause)
}

// HistoryError returns an error for run history operations
func HistoryError(op string, cause error) *ProbeError {
	return Wrap(ExitUnknown, fmt.Sprintf("history %s failed", op), cause)
}

// GetExitCode extracts the exit code from an error.
// Anything that is not a ProbeError is UNKNOWN to the scheduler.
func GetExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var probeErr *ProbeError
	if errors.As(err, &probeErr) {
		return probeErr.ExitCode()
	}
	return ExitUnknown
}

// IsReported reports whether the error's output was already written.
func IsReported(err error) bool {
	var probeErr *ProbeError
	if errors.As(err, &probeErr) {
		return probeErr.Reported
	}
	return false
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
