package relay

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies why a relay call failed.
type ErrorKind int

const (
	// KindTransport means the relay could not be reached.
	KindTransport ErrorKind = iota + 1
	// KindUnauthorized is a missing, invalid or expired token, or bad credentials.
	KindUnauthorized
	// KindForbidden is a valid token lacking the role for the route.
	KindForbidden
	// KindInvalid is a payload the relay rejected as malformed.
	KindInvalid
	// KindNotFound is an unknown resource.
	KindNotFound
	// KindConflict is a duplicate or a state that forbids the change.
	KindConflict
	// KindRejected is any other 4xx.
	KindRejected
	// KindServer is a 5xx.
	KindServer
	// KindMalformed is a 2xx whose body failed to decode or validate.
	KindMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindInvalid:
		return "invalid"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindRejected:
		return "rejected"
	case KindServer:
		return "server"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

func kindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindInvalid
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status >= http.StatusInternalServerError:
		return KindServer
	default:
		return KindRejected
	}
}

// Error is a failed relay call. Message is safe to show to a shopper.
type Error struct {
	Kind    ErrorKind
	Status  int
	Code    string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("relay %s (%d %s): %s: %v", e.Kind, e.Status, e.Code, e.Message, e.cause)
	}

	return fmt.Sprintf("relay %s (%d %s): %s", e.Kind, e.Status, e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// UserFacing reports whether Message came from the relay rather than a
// generic fallback.
func (e *Error) UserFacing() bool {
	return e.Kind != KindTransport && e.Kind != KindServer && e.Kind != KindMalformed
}

// Result is either a validated value or an Error.
type Result[T any] struct {
	value   T
	message string
	err     *Error
}

// Ok wraps a value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Err wraps a failure.
func Err[T any](err *Error) Result[T] {
	return Result[T]{err: err}
}

// IsOk reports whether the call succeeded.
func (r Result[T]) IsOk() bool {
	return r.err == nil
}

// Message is the relay's success message, e.g. "Login successful".
func (r Result[T]) Message() string {
	return r.message
}

// Value returns the value, zero on failure.
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the failure, nil on success.
func (r Result[T]) Err() *Error {
	return r.err
}

// Get unpacks the result.
func (r Result[T]) Get() (T, *Error) {
	return r.value, r.err
}
