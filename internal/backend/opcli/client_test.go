package opcli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "item lookup miss",
			err:      errors.New(`op CLI error: "database" isn't an item in the "prod" vault`),
			expected: true,
		},
		{
			name:     "vault lookup miss",
			err:      errors.New("op CLI error: vault prod not found"),
			expected: true,
		},
		{
			name:     "auth failure is not a miss",
			err:      errors.New("op CLI error: session expired, sign in again"),
			expected: false,
		},
		{
			name:     "network failure is not a miss",
			err:      errors.New("failed to execute op CLI: context deadline exceeded"),
			expected: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, isNotFound(tt.err))
		})
	}
}
