package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserError(t *testing.T) {
	t.Parallel()

	t.Run("message with suggestion and details", func(t *testing.T) {
		t.Parallel()

		err := UserError{
			Message:    "Something failed",
			Details:    "the backend said no",
			Suggestion: "Try again",
		}
		msg := err.Error()
		assert.Contains(t, msg, "Something failed")
		assert.Contains(t, msg, "Details: the backend said no")
		assert.Contains(t, msg, "Try: Try again")
	})

	t.Run("falls back to wrapped error text", func(t *testing.T) {
		t.Parallel()

		inner := errors.New("underlying failure")
		err := UserError{Err: inner}
		assert.Contains(t, err.Error(), "underlying failure")
		assert.ErrorIs(t, err, inner)
	})
}

func TestConfigError(t *testing.T) {
	t.Parallel()

	err := ConfigError{
		Field:      "OP_VAULT",
		Value:      42,
		Message:    "expected a string",
		Suggestion: "Quote the value",
	}
	msg := err.Error()
	assert.Contains(t, msg, "field 'OP_VAULT'")
	assert.Contains(t, msg, "(value: 42)")
	assert.Contains(t, msg, "expected a string")
	assert.Contains(t, msg, "Quote the value")
}

func TestReferenceError(t *testing.T) {
	t.Parallel()

	err := ReferenceError{Reference: "op://a/b/c/d", Message: "too many segments"}
	assert.Equal(t, "invalid secret reference 'op://a/b/c/d': too many segments", err.Error())
}

func TestBackendErrorSuggestions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		suggestion string
	}{
		{
			name:       "not signed in",
			err:        errors.New("not signed in"),
			suggestion: "op signin",
		},
		{
			name:       "session expired",
			err:        errors.New("session expired for account"),
			suggestion: "session has expired",
		},
		{
			name:       "item miss",
			err:        errors.New(`"db" isn't an item`),
			suggestion: "op item list",
		},
		{
			name:       "cli not installed",
			err:        errors.New("exec: executable file not found in $PATH"),
			suggestion: "Install the 1Password CLI",
		},
		{
			name:       "connect unreachable",
			err:        errors.New("dial tcp: connection refused"),
			suggestion: "OP_CONNECT_HOST",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			wrapped := BackendError("item fetch", tt.err)
			var userErr UserError
			require.ErrorAs(t, wrapped, &userErr)
			assert.Contains(t, userErr.Message, "item fetch")
			assert.Contains(t, userErr.Suggestion, tt.suggestion)
			assert.ErrorIs(t, wrapped, tt.err)
		})
	}

	t.Run("unknown failure has no suggestion", func(t *testing.T) {
		t.Parallel()

		var userErr UserError
		require.ErrorAs(t, BackendError("item fetch", errors.New("mystery")), &userErr)
		assert.Empty(t, userErr.Suggestion)
	})
}
