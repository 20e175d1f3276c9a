package simerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "no wrapped cause",
			err:      New(CodeEmptyQueue, "queue is empty"),
			expected: "[SIM_1000] queue is empty",
		},
		{
			name:     "with wrapped cause",
			err:      Wrap(CodeEndsInPast, "rescale failed", errors.New("boom")),
			expected: "[SIM_4000] rescale failed: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(CodeEndsInPast, "rescale failed", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
}

func TestSentinels_AreDistinctCodes(t *testing.T) {
	sentinels := []*Error{
		ErrEmptyQueue, ErrWrongQueueMode, ErrInvalidContactType,
		ErrAlreadyOccupied, ErrNotOccupied, ErrAlreadyDisabled,
		ErrAlreadyEnabled, ErrEndsInPast,
	}
	seen := make(map[Code]bool)
	for _, s := range sentinels {
		assert.False(t, seen[s.Code], "duplicate code %s", s.Code)
		seen[s.Code] = true
	}
}
