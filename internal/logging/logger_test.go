package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// captureStderr captures stderr output for testing
func captureStderr(fn func()) string {
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	fn()

	w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

func TestSecretRedaction(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"resolved value", "hunter2"},
		{"empty value", ""},
		{"value with format verbs", "100%s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, "[REDACTED]", Secret(tt.input).String())
			assert.Equal(t, "[REDACTED]", Secret(tt.input).GoString())
			assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", Secret(tt.input)))
			assert.Equal(t, "[REDACTED]", fmt.Sprintf("%#v", Secret(tt.input)))
		})
	}
}

func TestSecretNeverAppearsInLogs(t *testing.T) {
	// Cannot use t.Parallel(): captureStderr swaps global os.Stderr.
	logger := New(true, true)
	secretValue := "service-account-token-12345"

	output := captureStderr(func() {
		logger.Info("Stored token: %s", Secret(secretValue))
		logger.Debug("Using token: %s", Secret(secretValue))
	})

	assert.Contains(t, output, "[REDACTED]")
	assert.NotContains(t, output, secretValue)
}

func TestDebugSuppressedByDefault(t *testing.T) {
	output := captureStderr(func() {
		New(false, true).Debug("should not appear")
	})
	assert.Empty(t, output)

	output = captureStderr(func() {
		New(true, true).Debug("should appear")
	})
	assert.Contains(t, output, "[DEBUG] should appear")
}

func TestRedact(t *testing.T) {
	t.Parallel()

	secrets := []string{"hunter2-long", "ab", ""}
	result := Redact("value is hunter2-long and ab stays", secrets)
	assert.Equal(t, "value is [REDACTED] and ab stays", result)
}
