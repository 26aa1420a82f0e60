// Package errors provides typed errors with exit codes for check_eternus_advcopy.
//
// # Error Types
//
// ProbeError wraps an error with a plugin exit code:
//
//	type ProbeError struct {
//	    Code     int    // Exit code
//	    Message  string // User-facing message
//	    Cause    error  // Wrapped error
//	    Reported bool   // Output already written
//	}
//
// # Exit Codes
//
// The monitoring scheduler reads the exit code as the check state:
//
//	ExitOK       = 0
//	ExitWarning  = 1
//	ExitCritical = 2
//	ExitUnknown  = 3  // also used for usage, config and input errors
//
// A finished check that is not OK returns Exit(code); the report is already on
// stdout so the error itself is not printed:
//
//	if code := result.Severity.ExitCode(); code != errors.ExitOK {
//	    return errors.Exit(code)
//	}
//
// # Extracting Exit Codes
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
