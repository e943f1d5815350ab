// Package apperr defines the errors shopql surfaces to API callers.
//
// Every *Error carries a stable Code that graphql-go exposes to clients as
// extensions.code, next to a human-readable message.
package apperr

import "errors"

// Code identifies an error class on the wire.
type Code string

const (
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeForbidden          Code = "FORBIDDEN"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeDuplicateEmail     Code = "DUPLICATE_EMAIL"
	CodeInternal           Code = "INTERNAL"
)

// Error is a client-facing failure.
type Error struct {
	Code    Code
	Message string
	Err     error // underlying cause, never shown to clients
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same Code, so wrapped variants still satisfy
// errors.Is(err, apperr.ErrForbidden).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Extensions implements gqlerrors.ExtendedError.
func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": string(e.Code)}
}

var (
	ErrUnauthorized       = &Error{Code: CodeUnauthorized, Message: "Unauthorized"}
	ErrForbidden          = &Error{Code: CodeForbidden, Message: "Forbidden"}
	ErrInvalidCredentials = &Error{Code: CodeInvalidCredentials, Message: "Invalid credentials"}
	ErrDuplicateEmail     = &Error{Code: CodeDuplicateEmail, Message: "Email already registered"}
)

// Internal wraps err as an opaque INTERNAL failure.
func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Message: "Unexpected error.", Err: err}
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
