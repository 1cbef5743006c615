package services

import (
	"errors"
	"fmt"
)

// Kind classifies a service error for callers and the HTTP layer
type Kind string

const (
	KindNotFound        Kind = "NOT_FOUND"
	KindValidation      Kind = "VALIDATION"
	KindConflict        Kind = "CONFLICT"
	KindPolicyViolation Kind = "POLICY_VIOLATION"
)

// Sentinels for errors.Is
var (
	ErrNotFound        = &Error{Kind: KindNotFound, Message: "not found"}
	ErrValidation      = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrConflict        = &Error{Kind: KindConflict, Message: "conflict"}
	ErrPolicyViolation = &Error{Kind: KindPolicyViolation, Message: "policy violation"}

	// ErrDuplicatePeriod is a scorecard for an already-scored period. It is
	// both invalid input and a conflict, and matches either sentinel.
	ErrDuplicatePeriod = &Error{Kind: KindConflict, Message: "scorecard already exists for period"}
)

// Error is the typed error returned by every service
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so wrapped sentinels compare by kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t == ErrDuplicatePeriod {
		return e.Message == ErrDuplicatePeriod.Message
	}
	if e.Message == ErrDuplicatePeriod.Message && t.Kind == KindValidation {
		return true
	}
	return e.Kind == t.Kind
}

func NotFoundError(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func ValidationError(err error) error {
	return &Error{Kind: KindValidation, Message: "invalid input", Err: err}
}

func ConflictError(format string, args ...any) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func PolicyViolationError(format string, args ...any) error {
	return &Error{Kind: KindPolicyViolation, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of a service error, or "" for anything else
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
