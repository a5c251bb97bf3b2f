package types

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ErrorKindNotFound     ErrorKind = "not_found"
	ErrorKindInvalidState ErrorKind = "invalid_state"
	ErrorKindConflict     ErrorKind = "conflict"
	ErrorKindFatal        ErrorKind = "fatal"
)

// AppError carries a stable kind alongside the human-readable message so
// callers can tell a retryable seat race (Conflict) apart from a request
// that will never succeed unchanged (InvalidState).
type AppError struct {
	Kind    ErrorKind
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func NotFoundError(format string, args ...any) error {
	return &AppError{Kind: ErrorKindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidStateError(format string, args ...any) error {
	return &AppError{Kind: ErrorKindInvalidState, Message: fmt.Sprintf(format, args...)}
}

func ConflictError(format string, args ...any) error {
	return &AppError{Kind: ErrorKindConflict, Message: fmt.Sprintf(format, args...)}
}

func FatalError(format string, args ...any) error {
	return &AppError{Kind: ErrorKindFatal, Message: fmt.Sprintf(format, args...)}
}

// ErrSeatConflict is returned when a seat claim loses an optimistic race.
var ErrSeatConflict = &AppError{
	Kind:    ErrorKindConflict,
	Message: "The requested seat was just booked by someone else. Please try selecting a different seat.",
}

func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ErrorKindFatal
}
