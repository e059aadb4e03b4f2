// Package apperror defines the failure taxonomy shared by the retrieval layer
// and the presentation adapters.
//
// Every failure a lookup can produce is one of four kinds:
//
//	ErrInvalidInput → bad or missing username, caught before any network call
//	ErrNotFound     → GitHub says the user does not exist
//	ErrUpstream     → GitHub answered with an unexpected non-success status
//	ErrTransport    → the request never completed, or the body was unreadable
//
// Callers classify with errors.Is against the sentinels and use errors.As to
// pull out the *AppError for its human-readable Message.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrUpstream     = errors.New("upstream error")
	ErrTransport    = errors.New("transport error")
)

// Kind strings are the machine-readable names used in JSON error bodies.
const (
	KindInvalidInput = "invalid_input"
	KindNotFound     = "not_found"
	KindUpstream     = "upstream_error"
	KindTransport    = "transport_error"
	KindInternal     = "internal_error"
)

type AppError struct {
	Err        error  // sentinel, possibly joined with the underlying cause
	Message    string // Human-readable error message
	Field      string // Optional: input field causing the error
	StatusCode int    // Optional: upstream HTTP status for ErrUpstream
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func InvalidInput(field, message string) *AppError {
	return &AppError{
		Err:     ErrInvalidInput,
		Message: message,
		Field:   field,
	}
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		Message:    fmt.Sprintf("%s %s not found", resource, id),
		StatusCode: 404,
	}
}

// Upstream reports a non-success status other than 404 from GitHub.
func Upstream(statusCode int) *AppError {
	return &AppError{
		Err:        ErrUpstream,
		Message:    fmt.Sprintf("GitHub returned unexpected status %d", statusCode),
		StatusCode: statusCode,
	}
}

// Transport wraps a network or decoding failure. The cause stays reachable
// through errors.Is, so callers can still test for context.Canceled.
func Transport(message string, cause error) *AppError {
	err := ErrTransport
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrTransport, cause)
	}
	return &AppError{
		Err:     err,
		Message: message,
	}
}

// Kind returns the machine-readable kind of err, or KindInternal when err is
// not part of the taxonomy.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrUpstream):
		return KindUpstream
	case errors.Is(err, ErrTransport):
		return KindTransport
	default:
		return KindInternal
	}
}

// Message returns the human-readable text for err. Errors outside the
// taxonomy get a generic message so internal details never leak.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "An internal error occurred"
}
