// Package apperrors defines the failure taxonomy shared by services and
// handlers and its mapping onto HTTP status codes.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindServer Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindReference
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
	case KindReference:
		return "reference"
	}
	return "server"
}

func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindReference:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Error is a classified failure. Code is a stable machine-readable token,
// Message is safe to show to clients, Err is the logged cause.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind and code, so sentinels such as
// ErrInvalidCredentials work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

func Validation(message string, details ...string) *Error {
	return &Error{Kind: KindValidation, Code: "validation_error", Message: message, Details: details}
}

func Authentication(code, message string) *Error {
	return &Error{Kind: KindAuthentication, Code: code, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindAuthorization, Code: "forbidden", Message: message}
}

func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Code: "not_found", Message: resource + " not found"}
}

func Reference(message string) *Error {
	return &Error{Kind: KindReference, Code: "invalid_reference", Message: message}
}

// Internal wraps an infrastructure failure. The cause is kept for logging
// and never rendered.
func Internal(op string, err error) *Error {
	return &Error{Kind: KindServer, Code: "server_error", Message: "something went wrong", Err: fmt.Errorf("%s: %w", op, err)}
}

var (
	// ErrInvalidCredentials is returned for both unknown emails and wrong
	// passwords.
	ErrInvalidCredentials = Authentication("invalid_credentials", "invalid credentials")

	// ErrDuplicateEmail is returned when registering an email that is taken.
	ErrDuplicateEmail = &Error{Kind: KindValidation, Code: "user_exists", Message: "user already exists"}

	// ErrInvalidDoctor is returned when an appointment names a user that is
	// missing or is not a doctor.
	ErrInvalidDoctor = Reference("invalid doctor selected")
)

// From classifies err. Unclassified errors become server errors.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("unclassified", err)
}

func KindOf(err error) Kind {
	return From(err).Kind
}
