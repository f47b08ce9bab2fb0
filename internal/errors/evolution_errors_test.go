package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvolutionError_IsMatchesCategorySentinel(t *testing.T) {
	err := NewInvalidInputError("sampling", "Derange", "need at least 2 items").
		WithContext("length", 1)

	assert.True(t, stderrors.Is(err, ErrInvalidInput))
	assert.False(t, stderrors.Is(err, ErrDegenerateDistribution))
	assert.False(t, stderrors.Is(err, ErrRetryExhausted))
}

func TestEvolutionError_IsThroughWrapping(t *testing.T) {
	inner := NewDegenerateDistributionError("evolution", "FitnessProportionalSelection", "total fitness is zero")
	wrapped := fmt.Errorf("generation 4: %w", inner)

	assert.True(t, stderrors.Is(wrapped, ErrDegenerateDistribution))
	assert.Equal(t, ErrorCategoryDegenerateDistribution, CategoryOf(wrapped))

	var evoErr *EvolutionError
	require.True(t, stderrors.As(wrapped, &evoErr))
	assert.Equal(t, "FitnessProportionalSelection", evoErr.Operation)
}

func TestEvolutionError_Message(t *testing.T) {
	err := NewRetryExhaustedError("sampling", "DerangeWithLimit", 10)
	assert.Equal(t, "[RETRY_EXHAUSTED:sampling] DerangeWithLimit: retry limit reached (attempts=10)", err.Error())

	io := NewIOError("reporting", "WriteSnapshot", stderrors.New("disk full"))
	assert.Contains(t, io.Error(), "disk full")
	assert.Equal(t, "disk full", stderrors.Unwrap(io).Error())
}

func TestEvolutionError_RecoveryAction(t *testing.T) {
	tests := []struct {
		name     string
		err      *EvolutionError
		expected RecoveryAction
	}{
		{"invalid input stops", NewInvalidInputError("c", "op", "m"), RecoveryActionStop},
		{"degenerate stops", NewDegenerateDistributionError("c", "op", "m"), RecoveryActionStop},
		{"config stops", NewConfigurationError("c", "op", "m"), RecoveryActionStop},
		{"io skips", NewIOError("c", "op", stderrors.New("x")), RecoveryActionSkip},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.GetRecoveryAction())
		})
	}
}

func TestWrapError_Nil(t *testing.T) {
	assert.Nil(t, WrapError(nil, ErrorCategoryIO, "c", "op"))
	assert.Equal(t, ErrorCategory(""), CategoryOf(stderrors.New("plain")))
	assert.Equal(t, ErrorCategory(""), CategoryOf(nil))
}
