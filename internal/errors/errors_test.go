package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	err := NewNotFoundError("organization acme")
	assert.Equal(t, "NOT_FOUND: organization acme not found", err.Error())

	wrapped := NewTransientError("request failed", errors.New("timeout"))
	assert.Contains(t, wrapped.Error(), "TRANSIENT")
	assert.Contains(t, wrapped.Error(), "timeout")
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewTransientError("request failed", cause)
	assert.ErrorIs(t, err, cause)
}

func TestCodeChecks(t *testing.T) {
	assert.True(t, IsAuth(NewAuthError("bad token")))
	assert.True(t, IsNotFound(NewNotFoundError("repo")))
	assert.True(t, IsTransient(NewTransientError("503", nil)))
	assert.True(t, IsParse(NewParseError("no score")))

	plain := errors.New("plain")
	assert.False(t, IsAuth(plain))
	assert.False(t, IsNotFound(plain))
	assert.False(t, IsTransient(plain))
	assert.False(t, IsParse(plain))
}
