// internal/errors/errors_test.go
package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorMessageAndUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewGatewayError("storyboard generation failed", cause)

	assert.Contains(t, err.Error(), "storyboard generation failed")
	assert.ErrorIs(t, err, cause)
}

func TestTypePredicates(t *testing.T) {
	cases := []struct {
		err       error
		predicate func(error) bool
	}{
		{NewValidationError("bad input", nil), IsValidationError},
		{NewNotFoundError("no plan", nil), IsNotFoundError},
		{NewGatewayError("provider down", nil), IsGatewayError},
		{NewConflictError("duplicate", nil), IsConflictError},
	}

	for _, tc := range cases {
		assert.True(t, tc.predicate(tc.err))
	}

	plain := stderrors.New("plain")
	assert.False(t, IsValidationError(plain))
	assert.False(t, IsGatewayError(plain))
	assert.False(t, IsGatewayError(nil))
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	inner := NewGatewayError("provider down", nil)
	wrapped := WrapError(inner, "outer context", ErrorTypeError)

	require.Error(t, wrapped)
	assert.True(t, IsGatewayError(wrapped), "wrapping keeps the original type")
	assert.False(t, IsGatewayError(NewValidationError("x", nil)))
}

func TestErrorCodesCarryType(t *testing.T) {
	gw := NewGatewayError("x", nil)
	validation := NewValidationError("y", nil)

	assert.NotEmpty(t, gw.Code)
	assert.NotEmpty(t, validation.Code)
	assert.NotEqual(t, gw.Code, validation.Code)
}
