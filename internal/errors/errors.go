package errors

import (
	"fmt"
	"strings"
)

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// ReferenceError represents a malformed or unresolvable secret reference
type ReferenceError struct {
	Reference string
	Message   string
}

func (e ReferenceError) Error() string {
	return fmt.Sprintf("invalid secret reference '%s': %s", e.Reference, e.Message)
}

// BackendError enhances backend failures with op-specific suggestions
func BackendError(operation string, err error) error {
	return UserError{
		Message:    fmt.Sprintf("backend error during %s", operation),
		Suggestion: backendSuggestion(err),
		Err:        err,
	}
}

// backendSuggestion returns a helpful suggestion based on the underlying error
func backendSuggestion(err error) string {
	errStr := err.Error()

	if strings.Contains(errStr, "not signed in") || strings.Contains(errStr, "no account found") {
		return "Run 'op signin' to authenticate, or set OP_SERVICE_ACCOUNT_TOKEN"
	}
	if strings.Contains(errStr, "session expired") {
		return "Your session has expired. Run 'op signin' again"
	}
	if strings.Contains(errStr, "isn't an item") || strings.Contains(errStr, "not found") {
		return "Verify the item exists. Use 'op item list' to see available items"
	}
	if strings.Contains(errStr, "command not found") || strings.Contains(errStr, "executable file not found") {
		return "Install the 1Password CLI: https://developer.1password.com/docs/cli/get-started/"
	}
	if strings.Contains(errStr, "timeout") {
		return "The operation timed out. Check your network connection and try again"
	}
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "no such host") {
		return "Unable to connect. Check OP_CONNECT_HOST and your network"
	}

	return ""
}
