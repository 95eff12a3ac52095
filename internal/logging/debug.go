package logging

import (
	"fmt"
	"os"
)

// DebugEnv enables raw CLI debug output when set to any non-empty value
const DebugEnv = "TIMESHEET_DEBUG"

// DebugEnabled returns true if debug mode is enabled via TIMESHEET_DEBUG
func DebugEnabled() bool {
	return os.Getenv(DebugEnv) != ""
}

// Debugf prints a formatted debug message to stderr only if debug mode is enabled
func Debugf(format string, args ...interface{}) {
	if DebugEnabled() {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// Debugln prints a debug message followed by a newline only if debug mode is enabled
func Debugln(args ...interface{}) {
	if DebugEnabled() {
		fmt.Fprintln(os.Stderr, args...)
	}
}
