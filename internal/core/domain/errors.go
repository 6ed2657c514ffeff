package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindNotFound         ErrorKind = "not_found"
	KindValidationFailed ErrorKind = "validation_failed"
	KindPermissionDenied ErrorKind = "permission_denied"
	KindAlreadyTerminal  ErrorKind = "already_terminal"
	KindPersistence      ErrorKind = "persistence_error"
)

// Error carries the kind the request boundary maps to an HTTP status
// plus a reason naming the violated rule and its threshold.
type Error struct {
	Kind   ErrorKind
	Reason string
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *Error) Unwrap() error { return e.cause }

func NewError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

func WrapError(kind ErrorKind, cause error, reason string) *Error {
	return &Error{Kind: kind, Reason: reason, cause: cause}
}

// KindOf returns the classified kind, or KindPersistence for errors that
// escaped classification (an unexpected store failure).
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindPersistence
}

func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
