// Package common defines sentinel error kinds, the user-facing domain error
// type and a few constants shared by the BloodBay server packages. Callers
// should use errors.Is to match the kinds.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrConflict   = errors.New("conflict")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrValidation     = errors.New("validation error")
	ErrWeakPassword   = errors.New("weak password")
	ErrAuthentication = errors.New("authentication failed")
	ErrNotVerified    = errors.New("not verified")
	ErrAuthorization  = errors.New("forbidden")

	// Token errors.
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = fmt.Errorf("%w: expired", ErrInvalidToken)
)

// Error is a domain failure that carries the message shown to API clients.
// Kind is one of the sentinels above.
type Error struct {
	Kind    error
	Message string
}

// NewError builds an *Error of the given kind.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// IsDomain reports whether err (or anything it wraps) is an *Error.
func IsDomain(err error) bool {
	var de *Error
	return errors.As(err, &de)
}

// Message returns the client-facing message of err.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
