// Package errors defines the error kinds returned by services and how they map
// onto HTTP status codes.
package errors

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the request boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindDependency
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindDependency:
		return "dependency"
	default:
		return "internal"
	}
}

// AppError carries a kind, a message safe to show to clients, and the
// underlying cause.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *AppError     { return New(KindValidation, message) }
func Unauthenticated(message string) *AppError { return New(KindAuthentication, message) }
func Forbidden(message string) *AppError      { return New(KindAuthorization, message) }
func NotFound(message string) *AppError       { return New(KindNotFound, message) }
func Conflict(message string) *AppError       { return New(KindConflict, message) }

// Dependency marks a failure of storage or another backing service.
func Dependency(message string, err error) *AppError {
	return Wrap(KindDependency, message, err)
}

// Internal wraps an unexpected failure.
func Internal(message string, err error) *AppError {
	return Wrap(KindInternal, message, err)
}

// KindOf returns the kind of the first AppError in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error onto the status code the API answers with.
// Dependency failures outside the health endpoint are plain 500s.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text a client may see. Internal and dependency
// errors never expose their detail.
func PublicMessage(err error) string {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return "internal server error"
	}
	switch appErr.Kind {
	case KindInternal, KindDependency:
		return "internal server error"
	}
	if appErr.Message == "" {
		return appErr.Kind.String()
	}
	return appErr.Message
}
