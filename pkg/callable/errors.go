package callable

import (
	"errors"
	"net/http"
)

// Kind classifies a callable failure.
type Kind string

const (
	KindUnauthenticated Kind = "unauthenticated"
	KindInvalidArgument Kind = "invalid-argument"
	KindNotFound        Kind = "not-found"
	KindInternal        Kind = "internal"
)

// Status is the wire name of the kind.
func (k Kind) Status() string {
	switch k {
	case KindUnauthenticated:
		return "UNAUTHENTICATED"
	case KindInvalidArgument:
		return "INVALID_ARGUMENT"
	case KindNotFound:
		return "NOT_FOUND"
	default:
		return "INTERNAL"
	}
}

// HTTPStatus returns the HTTP status code the kind is served with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a failure that is reported to the caller as-is.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

func Unauthenticated(message string) *Error {
	return newError(KindUnauthenticated, message, nil)
}

func InvalidArgument(message string) *Error {
	return newError(KindInvalidArgument, message, nil)
}

func NotFound(message string) *Error {
	return newError(KindNotFound, message, nil)
}

// Internal reports an internal failure with a caller-visible message. The
// cause is kept for errors.Is/As and is never written to the wire.
func Internal(message string, cause error) *Error {
	if message == "" {
		message = "INTERNAL"
	}
	return newError(KindInternal, message, cause)
}

// KindOf returns the kind carried by err, or KindInternal.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindInternal
}
