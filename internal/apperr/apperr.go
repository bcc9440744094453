// Package apperr defines the errors the contact book reports to its users. Each error knows the
// HTTP status it maps to and the message that may be shown on a page. Everything else is an
// unexpected error and is answered with a generic 500.
package apperr

import (
	"net/http"

	"github.com/pkg/errors"
)

// Kind classifies an application error.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindConflict      Kind = "conflict"
	KindNotFound      Kind = "not_found"
	KindAuthorization Kind = "authorization"
)

// AppError is implemented by all errors that carry a user-facing message.
type AppError interface {
	error
	HTTPCode() int
	Kind() Kind
	Message() string
}

// Error is the basic implementation of AppError.
type Error struct {
	httpCode int
	kind     Kind
	message  string
}

// New creates an application error.
func New(httpCode int, kind Kind, message string) *Error {
	return &Error{httpCode: httpCode, kind: kind, message: message}
}

func (e *Error) Error() string   { return e.message }
func (e *Error) HTTPCode() int   { return e.httpCode }
func (e *Error) Kind() Kind      { return e.kind }
func (e *Error) Message() string { return e.message }

// Validation reports invalid form input. The form is shown again with the message.
func Validation(message string) *Error {
	return New(http.StatusOK, KindValidation, message)
}

// Conflict reports a clash with existing data. The form is shown again with the message.
func Conflict(message string) *Error {
	return New(http.StatusOK, KindConflict, message)
}

var (
	ErrPasswordMismatch   = Validation("Passwords do not match")
	ErrPasswordTooLong    = Validation("Password must not be longer than 72 bytes")
	ErrNameRequired       = Validation("Please provide both a first and last name")
	ErrUsernameTaken      = Conflict("Username already exists")
	ErrInvalidCredentials = Validation("Invalid username or password")

	// ErrAddressNotFound is shown on the contact form, so it keeps a 200 status.
	ErrAddressNotFound = New(http.StatusOK, KindNotFound, "Address not found. Please enter an alternative address")
	ErrContactNotFound = New(http.StatusNotFound, KindNotFound, "Contact not found")

	ErrNotAuthorized = New(http.StatusUnauthorized, KindAuthorization, "Not Authorized")
)

// As extracts the AppError from err, if there is one anywhere in its chain.
func As(err error) (AppError, bool) {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether err is, or wraps, an application error of the given kind.
func Is(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind() == kind
}
