// Package logging is the stderr logging surface shared by the resolver
// and the CLI. It stays quiet unless something needs the user's
// attention; resolved secret values pass through the Secret type so
// they can never be printed by accident.
package logging

import (
	"fmt"
	"os"
	"strings"
)

const redactedMarker = "[REDACTED]"

// ANSI color prefixes per level.
const (
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorCyan   = "\033[36m"
	colorReset  = "\033[0m"
)

// Logger writes leveled messages to stderr. Debug output is dropped
// unless enabled; color can be disabled for non-terminal output.
type Logger struct {
	debug   bool
	noColor bool
}

// New creates a logger writing to stderr.
func New(debug, noColor bool) *Logger {
	return &Logger{debug: debug, noColor: noColor}
}

// write resolves os.Stderr at call time so stream redirection after
// construction still takes effect.
func (l *Logger) write(glyph, color, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if l.noColor {
		fmt.Fprintf(os.Stderr, "%s %s\n", glyph, msg)
		return
	}
	fmt.Fprintf(os.Stderr, "%s%s%s %s\n", color, glyph, colorReset, msg)
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.write("✓", colorGreen, format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.write("⚠", colorYellow, format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.write("✗", colorRed, format, args...)
}

// Debug logs a message only when debug mode is enabled.
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.debug {
		return
	}
	l.write("[DEBUG]", colorCyan, format, args...)
}

// Secret wraps a resolved value so every formatting path redacts it.
type Secret string

// String implements fmt.Stringer; the value is never returned.
func (s Secret) String() string {
	return redactedMarker
}

// GoString covers %#v formatting.
func (s Secret) GoString() string {
	return redactedMarker
}

// Redact replaces resolved secret values in a string with the
// redaction marker. Values of three characters or fewer are left
// alone; replacing those would mangle unrelated text.
func Redact(s string, secrets []string) string {
	for _, secret := range secrets {
		if len(secret) > 3 {
			s = strings.ReplaceAll(s, secret, redactedMarker)
		}
	}
	return s
}
