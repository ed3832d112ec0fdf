// internal/estimation/estimation_test.go
package estimation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidInputError_Unwrap(t *testing.T) {
	err := NewInvalidInput("adSpend", "must be greater than zero")

	assert.EqualError(t, err, "invalid input: adSpend: must be greater than zero")
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.True(t, IsInvalidInput(err))

	// Still recognized through further wrapping.
	wrapped := fmt.Errorf("compute roas: %w", err)
	assert.True(t, IsInvalidInput(wrapped))

	iie, ok := AsInvalidInput(wrapped)
	require.True(t, ok)
	assert.Equal(t, "adSpend", iie.Field)
	assert.Equal(t, "must be greater than zero", iie.Constraint)
}

func TestIsInvalidInput_OtherErrors(t *testing.T) {
	assert.False(t, IsInvalidInput(errors.New("boom")))
	assert.False(t, IsInvalidInput(nil))

	_, ok := AsInvalidInput(errors.New("boom"))
	assert.False(t, ok)
}
