// Package logger provides severity-categorized console logging for specmap.
// Debug, Info and Note messages are printed only in verbose mode; Success,
// Warn and Error always print. Warnings and errors are counted so commands
// can report a summary at the end of a run.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	mu      sync.RWMutex
	verbose bool
	color   bool
	output  io.Writer = os.Stderr

	warnCount  int
	errorCount int
)

var (
	noteStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14")) // bright cyan
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // bright green
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // bright yellow
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // bright red
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
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

// SetColor enables or disables colored labels.
func SetColor(c bool) {
	mu.Lock()
	defer mu.Unlock()
	color = c
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Counts returns the number of warnings and errors logged since the last Reset.
func Counts() (warns, errs int) {
	mu.RLock()
	defer mu.RUnlock()
	return warnCount, errorCount
}

// Reset clears the warning and error counters.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	warnCount = 0
	errorCount = 0
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		write("[DEBUG] ", mutedStyle, format, args...)
	}
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		write("[INFO] ", mutedStyle, format, args...)
	}
}

// Note prints a progress note if verbose mode is enabled.
func Note(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		write("[NOTE] ", noteStyle, format, args...)
	}
}

// Success prints a confirmation message.
func Success(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	write("[OK] ", successStyle, format, args...)
}

// Warn prints a warning message and counts it.
func Warn(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	warnCount++
	write("[WARN] ", warnStyle, format, args...)
}

// Error prints a recoverable error message and counts it.
func Error(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	errorCount++
	write("[ERROR] ", errorStyle, format, args...)
}

// write must be called with mu held.
func write(label string, style lipgloss.Style, format string, args ...any) {
	if color {
		label = style.Render(label)
	}
	fmt.Fprint(output, label)
	fmt.Fprintf(output, format+"\n", args...)
}
