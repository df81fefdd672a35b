package domain

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorKind string

const (
	KindUnauthenticated ErrorKind = "unauthenticated"
	KindForbidden       ErrorKind = "forbidden"
	KindNotFound        ErrorKind = "not_found"
	KindValidation      ErrorKind = "validation"
	KindConflict        ErrorKind = "conflict"
	KindInvalidState    ErrorKind = "invalid_state"
	KindInternal        ErrorKind = "internal"
)

// Error is the error every lifecycle operation returns to its caller. Kind is
// stable, Message is safe to show to users, Err keeps the cause for logs.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}

	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind when the target carries no message,
// which lets callers write errors.Is(err, domain.ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

var (
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated}
	ErrForbidden       = &Error{Kind: KindForbidden}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrValidation      = &Error{Kind: KindValidation}
	ErrConflict        = &Error{Kind: KindConflict}
	ErrInvalidState    = &Error{Kind: KindInvalidState}
	ErrInternal        = &Error{Kind: KindInternal}
)

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Unauthenticated(format string, args ...any) error {
	return newError(KindUnauthenticated, format, args...)
}

func Forbidden(format string, args ...any) error {
	return newError(KindForbidden, format, args...)
}

func NotFound(format string, args ...any) error {
	return newError(KindNotFound, format, args...)
}

func InvalidState(format string, args ...any) error {
	return newError(KindInvalidState, format, args...)
}

func Conflict(cause error, format string, args ...any) error {
	e := newError(KindConflict, format, args...)
	e.Err = cause

	return e
}

// Internal hides the cause behind a generic message.
func Internal(cause error) error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: cause}
}

// ValidationError lists every violated rule of a single input.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

func Validation(violations ...string) error {
	ve := &ValidationError{Violations: violations}

	return &Error{Kind: KindValidation, Message: ve.Error(), Err: ve}
}

// KindOf reports the kind of err, treating anything untyped as internal.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}

	return KindInternal
}

// Violations returns the rule violations carried by a validation error.
func Violations(err error) []string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Violations
	}

	return nil
}
