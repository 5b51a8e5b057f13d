// Package ui provides plain-terminal output helpers and phase progress
// display.
package ui

import (
	"fmt"
	"sync"
)

var (
	quietMu   sync.RWMutex
	quietMode bool
)

// SetQuietMode suppresses all non-error output.
func SetQuietMode(quiet bool) {
	quietMu.Lock()
	defer quietMu.Unlock()
	quietMode = quiet
}

// IsQuietMode reports whether quiet mode is active.
func IsQuietMode() bool {
	quietMu.RLock()
	defer quietMu.RUnlock()
	return quietMode
}

// ANSI color helpers.
func Cyan(s string) string   { return "\033[36m" + s + "\033[0m" }
func Green(s string) string  { return "\033[32m" + s + "\033[0m" }
func Yellow(s string) string { return "\033[33m" + s + "\033[0m" }
func Red(s string) string    { return "\033[31m" + s + "\033[0m" }

// PrintInfo prints a labeled info line.
func PrintInfo(label, value string) {
	if IsQuietMode() {
		return
	}
	fmt.Printf("%s %s: %s\n", Cyan("►"), label, value)
}

// PrintSuccess prints a success line.
func PrintSuccess(format string, args ...interface{}) {
	if IsQuietMode() {
		return
	}
	fmt.Printf("%s %s\n", Green("✓"), fmt.Sprintf(format, args...))
}

// PrintWarning prints a warning line.
func PrintWarning(format string, args ...interface{}) {
	if IsQuietMode() {
		return
	}
	fmt.Printf("%s %s\n", Yellow("►"), fmt.Sprintf(format, args...))
}

// PrintError prints an error line. Errors are shown even in quiet mode.
func PrintError(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", Red("✗"), fmt.Sprintf(format, args...))
}
