package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	cause := errors.New("connection refused")
	err := newNetworkError("library unreachable", cause)

	assert.Equal(t, "Network Error: library unreachable (caused by: connection refused)", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "HTTP Error: nope", newHTTPError(404, "nope").Error())
}

func TestNetworkErrorClassifiesTimeouts(t *testing.T) {
	err := newNetworkError("slow", fmt.Errorf("get: %w", context.DeadlineExceeded))
	assert.Equal(t, KindTimeout, err.Kind)
	assert.True(t, err.Retryable())
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want bool
	}{
		{"network", &Error{Kind: KindNetwork}, true},
		{"timeout", &Error{Kind: KindTimeout}, true},
		{"500", newHTTPError(http.StatusInternalServerError, ""), true},
		{"503", newHTTPError(http.StatusServiceUnavailable, ""), true},
		{"429", newHTTPError(http.StatusTooManyRequests, ""), true},
		{"404", newHTTPError(http.StatusNotFound, ""), false},
		{"400", newHTTPError(http.StatusBadRequest, ""), false},
		{"parse", newParseError("bad", nil), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Retryable())
			assert.Equal(t, tt.want, IsRetryable(fmt.Errorf("wrapped: %w", tt.err)))
		})
	}
	assert.False(t, IsRetryable(errors.New("plain")))
}

func TestShortMessage(t *testing.T) {
	assert.Equal(t, "Not found on library", ShortMessage(newHTTPError(404, "")))
	assert.Equal(t, "Library error (HTTP 502)", ShortMessage(newHTTPError(502, "")))
	assert.Equal(t, "Library sent an invalid catalog", ShortMessage(newParseError("x", nil)))
	assert.Equal(t, "plain", ShortMessage(errors.New("plain")))
}
