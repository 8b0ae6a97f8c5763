package hierarchy

import (
	"errors"
	"fmt"
)

// Kind classifies an operation failure so callers can map it to an
// actionable response without string matching.
type Kind int

const (
	KindNone Kind = iota
	KindNotFound
	KindInvalidArgument
	KindInvalidOperation
	KindConflict
	KindPermissionDenied
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindInvalidArgument:
		return "INVALID_ARGUMENT"
	case KindInvalidOperation:
		return "INVALID_OPERATION"
	case KindConflict:
		return "CONFLICT"
	case KindPermissionDenied:
		return "PERMISSION_DENIED"
	case KindInternal:
		return "INTERNAL"
	}
	return "UNKNOWN"
}

// Error is the failure type returned by every hierarchy operation. Expected
// failures (missing records, structural violations, delete policy) carry a
// specific Kind; persistence failures come back as KindInternal with the
// underlying error wrapped.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds a hierarchy error with an explicit kind. Collaborators
// such as access gates use it to report failures the service passes through.
func NewError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the failure kind from err. Unclassified errors report
// KindInternal; nil reports KindNone.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var he *Error
	if errors.As(err, &he) {
		return he.Kind
	}
	return KindInternal
}

func notFoundf(format string, args ...interface{}) *Error {
	return NewError(KindNotFound, format, args...)
}

func invalidArgf(format string, args ...interface{}) *Error {
	return NewError(KindInvalidArgument, format, args...)
}

func invalidOpf(format string, args ...interface{}) *Error {
	return NewError(KindInvalidOperation, format, args...)
}

func conflictf(format string, args ...interface{}) *Error {
	return NewError(KindConflict, format, args...)
}

func internal(err error) error {
	if err == nil {
		return nil
	}
	var he *Error
	if errors.As(err, &he) {
		return err
	}
	return &Error{Kind: KindInternal, Message: "storage failure: " + err.Error(), Err: err}
}
