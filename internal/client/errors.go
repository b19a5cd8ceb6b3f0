package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
)

// ErrorKind is the category of a client failure.
type ErrorKind int

const (
	// KindNetwork is a transport failure (refused, unreachable, DNS)
	KindNetwork ErrorKind = iota
	// KindHTTP is a non-2xx response
	KindHTTP
	// KindParse is an unreadable or invalid response body
	KindParse
	// KindTimeout is a request that ran out of time
	KindTimeout
)

// String returns a human-readable name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "Network Error"
	case KindHTTP:
		return "HTTP Error"
	case KindParse:
		return "Parse Error"
	case KindTimeout:
		return "Timeout"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is returned by every Client method.
type Error struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether repeating the request may succeed. Network
// failures, timeouts and 5xx responses are retryable; 4xx responses and
// malformed bodies are not.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindNetwork, KindTimeout:
		return true
	case KindHTTP:
		return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
	default:
		return false
	}
}

// IsRetryable reports whether err is a retryable *Error.
func IsRetryable(err error) bool {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Retryable()
	}
	return false
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	var cerr *Error
	return errors.As(err, &cerr) && cerr.Kind == KindHTTP && cerr.StatusCode == http.StatusNotFound
}

func newNetworkError(message string, err error) *Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{Kind: KindTimeout, Message: message, Err: err}
	}
	return &Error{Kind: KindNetwork, Message: message, Err: err}
}

func newHTTPError(statusCode int, message string) *Error {
	return &Error{Kind: KindHTTP, Message: message, StatusCode: statusCode}
}

func newParseError(message string, err error) *Error {
	return &Error{Kind: KindParse, Message: message, Err: err}
}

// ShortMessage returns a one-line, user-facing description of err.
func ShortMessage(err error) string {
	var cerr *Error
	if !errors.As(err, &cerr) {
		return err.Error()
	}
	switch cerr.Kind {
	case KindTimeout:
		return "Library not responding (timeout)"
	case KindNetwork:
		return "Cannot reach library - check the address and network"
	case KindHTTP:
		if cerr.StatusCode == http.StatusNotFound {
			return "Not found on library"
		}
		return fmt.Sprintf("Library error (HTTP %d)", cerr.StatusCode)
	case KindParse:
		return "Library sent an invalid catalog"
	default:
		return cerr.Message
	}
}
