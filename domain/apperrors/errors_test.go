package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"not found", NotFound("message %d not found", 42), KindNotFound},
		{"access denied", AccessDenied("nope"), KindAccessDenied},
		{"invalid input", InvalidInput("bad"), KindInvalidInput},
		{"unavailable", Unavailable(errors.New("timeout"), "db down"), KindUnavailable},
		{"plain error", errors.New("plain"), KindUnknown},
		{"nil", nil, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := NotFound("message not found")
	wrapped := fmt.Errorf("loading message: %w", err)

	assert.True(t, IsNotFound(wrapped))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestUnavailableKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: i/o timeout")
	err := Unavailable(cause, "postgres unreachable")

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "postgres unreachable")
	assert.Contains(t, err.Error(), "i/o timeout")
}

func TestHelpers(t *testing.T) {
	assert.True(t, IsAccessDenied(AccessDenied("x")))
	assert.True(t, IsInvalidInput(InvalidInput("x")))
	assert.True(t, IsUnavailable(Unavailable(nil, "x")))
	assert.False(t, IsNotFound(AccessDenied("x")))
}
