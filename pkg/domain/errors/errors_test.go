package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Format(t *testing.T) {
	err := New(CodeNotFound, "policy", "policy \"x\" not found", nil)
	assert.Equal(t, "[policy:NOT_FOUND] policy \"x\" not found", err.Error())

	cause := fmt.Errorf("dial tcp: refused")
	err = New(CodeNetworkError, "ai", "request failed", cause)
	assert.Equal(t, "[ai:NETWORK_ERROR] request failed: dial tcp: refused", err.Error())
	assert.Same(t, cause, stderrors.Unwrap(err))
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", New(CodeNotFound, "history", "generation abc not found", nil))

	assert.True(t, stderrors.Is(err, &Error{Code: CodeNotFound}))
	assert.False(t, stderrors.Is(err, &Error{Code: CodeIoError}))
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{name: "nil", err: nil, want: ""},
		{name: "typed", err: New(CodeMissingParameter, "generation", "missing", nil), want: CodeMissingParameter},
		{name: "wrapped typed", err: fmt.Errorf("outer: %w", New(CodeNetworkError, "ai", "x", nil)), want: CodeNetworkError},
		{name: "deadline", err: fmt.Errorf("call: %w", context.DeadlineExceeded), want: CodeTimeoutError},
		{name: "plain", err: fmt.Errorf("boom"), want: CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "", MessageOf(nil))
	assert.Equal(t, "Please provide a configuration request.",
		MessageOf(fmt.Errorf("generate: %w", New(CodeMissingParameter, "generation", "Please provide a configuration request.", nil))))
	assert.Equal(t, "boom", MessageOf(fmt.Errorf("boom")))
}
