package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies a domain failure independently of transport.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindNotFound      Kind = "not_found"
	KindConflict      Kind = "conflict"
	KindAuthorization Kind = "authorization"
	KindUnavailable   Kind = "unavailable"
	KindInternal      Kind = "internal"
)

// Error is a single-cause domain error carrying a client-facing message.
type Error struct {
	Kind    Kind
	Message string
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string) *Error    { return New(KindValidation, message) }
func NotFound(message string) *Error      { return New(KindNotFound, message) }
func Conflict(message string) *Error      { return New(KindConflict, message) }
func Authorization(message string) *Error { return New(KindAuthorization, message) }
func Unavailable(message string) *Error   { return New(KindUnavailable, message) }

func (e *Error) Error() string {
	return e.Message
}

// StatusCode maps the kind onto its HTTP status.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindValidation, KindUnavailable:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindAuthorization:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// As extracts the domain error from err, if any.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, or KindInternal for anything that is not a domain error.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}
