package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := NotFound("game state not found")
		assert.Equal(t, "game state not found", err.Error())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("no rows")
		err := Wrap(cause, ErrCodeNotFound, "game state not found")
		assert.Equal(t, "game state not found: no rows", err.Error())
	})
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := Wrap(cause, ErrCodeUpstream, "routing call failed")
	require.NotNil(t, err)
	assert.True(t, errors.Is(err, cause))
}

func TestConstructorsSetCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		code ErrorCode
	}{
		{"NotFound", NotFound("x"), ErrCodeNotFound},
		{"Conflict", Conflict("x"), ErrCodeConflict},
		{"Validation", Validation("x"), ErrCodeValidation},
		{"AccessDenied", AccessDenied("x"), ErrCodeAccessDenied},
		{"RequirementsNotMet", RequirementsNotMet("x"), ErrCodeRequirementsNotMet},
		{"InsufficientFunds", InsufficientFunds("x"), ErrCodeInsufficientFunds},
		{"NoRoute", NoRoute("x"), ErrCodeNoRoute},
		{"Upstream", Upstream("x"), ErrCodeUpstream},
		{"Internal", Internal("x"), ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

func TestIsHelpers(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("x")))
	assert.True(t, IsConflict(Conflictf("employee %s already busy", "e1")))
	assert.True(t, IsAccessDenied(AccessDenied("not yours")))
	assert.True(t, IsRequirementsNotMet(RequirementsNotMetf("missing prerequisite %s", "u1")))
	assert.True(t, IsInsufficientFunds(InsufficientFunds("broke")))
	assert.True(t, IsNoRoute(NoRoute("unreachable")))

	assert.False(t, IsNotFound(Conflict("x")))
	assert.False(t, IsConflict(nil))
	assert.False(t, IsNotFound(errors.New("plain")))
}

func TestIsHelpersSeeThroughWrapping(t *testing.T) {
	inner := NotFound("job not found")
	wrapped := fmt.Errorf("complete active job: %w", inner)
	assert.True(t, IsNotFound(wrapped))
	assert.Equal(t, ErrCodeNotFound, GetCode(wrapped))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrCodeInsufficientFunds, GetCode(InsufficientFunds("x")))
	assert.Equal(t, ErrorCode(""), GetCode(errors.New("plain")))
	assert.Equal(t, ErrorCode(""), GetCode(nil))
}

func TestGetField(t *testing.T) {
	err := ValidationField("tier", "tier must be at least 1")
	assert.Equal(t, "tier", GetField(err))
	assert.Empty(t, GetField(errors.New("plain")))
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "x"))
	assert.Nil(t, Wrapf(nil, ErrCodeInternal, "x %d", 1))
}
