package apperr

import (
	"errors"
	"fmt"
)

// Error is the structured error returned by the collection data layer.
// Two errors are considered equal by errors.Is when their codes match, so a
// copy produced by WithInternal or WithMessage still matches its sentinel.
type Error struct {
	Code     string
	Message  string
	Internal error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}

	return e.Message
}

// Unwrap exposes the internal error for errors.Is / errors.As compatibility.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Internal
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// WithInternal returns a copy of the Error with an attached internal error.
func (e *Error) WithInternal(err error) *Error {
	if e == nil {
		return nil
	}

	cpy := *e
	cpy.Internal = err
	return &cpy
}

// WithMessage returns a copy of the Error with a more specific message.
func (e *Error) WithMessage(format string, args ...any) *Error {
	if e == nil {
		return nil
	}

	cpy := *e
	cpy.Message = fmt.Sprintf(format, args...)
	return &cpy
}

// Error taxonomy of the collection data layer.
var (
	ErrNotFound = &Error{
		Code:    "NOT_FOUND",
		Message: "not found",
	}

	ErrDuplicateMembership = &Error{
		Code:    "DUPLICATE_MEMBERSHIP",
		Message: "game is already in the collection",
	}

	ErrProtectedFolder = &Error{
		Code:    "PROTECTED_FOLDER",
		Message: "the first folder cannot be deleted while other folders exist",
	}

	ErrStorageFault = &Error{
		Code:    "STORAGE_FAULT",
		Message: "storage failure",
	}

	ErrInvalidDocument = &Error{
		Code:    "INVALID_DOCUMENT",
		Message: "invalid import document",
	}

	ErrInvalidArgument = &Error{
		Code:    "INVALID_ARGUMENT",
		Message: "invalid argument",
	}

	// ErrInvariant marks a logic defect: a mutation produced a state that
	// breaks ordering or membership rules. The transaction is rolled back.
	ErrInvariant = &Error{
		Code:    "INVARIANT_VIOLATION",
		Message: "collection invariant violated",
	}
)

// Storage wraps an engine error as a storage fault. Errors that already
// carry a code are returned unchanged.
func Storage(err error) error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}

	return ErrStorageFault.WithInternal(err)
}

// Code returns the code of err, or an empty string for foreign errors.
func Code(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
