// Package logger provides leveled logging for the revlink CLI.
// Debug and info messages are printed only in verbose mode (--verbose);
// warnings and errors are always written so that recovered failures such
// as corrupt stored state remain visible.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func write(always bool, level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if always || verbose {
		fmt.Fprintf(output, "["+level+"] "+format+"\n", args...)
	}
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	write(false, "DEBUG", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	write(false, "INFO", format, args...)
}

// Warn prints a warning. Warnings are never suppressed.
func Warn(format string, args ...any) {
	write(true, "WARN", format, args...)
}

// Error prints an error. Errors are never suppressed.
func Error(format string, args ...any) {
	write(true, "ERROR", format, args...)
}
