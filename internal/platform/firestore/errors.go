package firestore

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Error classifies a Firestore failure so callers can branch on the broad
// category without importing grpc status codes.
type Error struct {
	op          string
	err         error
	notFound    bool
	conflict    bool
	unavailable bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("firestore: %s: %v", e.op, e.err)
}

func (e *Error) Unwrap() error { return e.err }

// IsNotFound reports whether the wrapped error was a missing document.
func (e *Error) IsNotFound() bool { return e.notFound }

// IsConflict reports whether the wrapped error was a contention or
// already-exists failure.
func (e *Error) IsConflict() bool { return e.conflict }

// IsUnavailable reports whether the wrapped error was transient.
func (e *Error) IsUnavailable() bool { return e.unavailable }

// WrapError annotates err with the operation name and grpc-code derived
// classification. A nil err returns nil.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	wrapped := &Error{op: op, err: err}
	switch status.Code(err) {
	case codes.NotFound:
		wrapped.notFound = true
	case codes.AlreadyExists, codes.Aborted, codes.FailedPrecondition:
		wrapped.conflict = true
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		wrapped.unavailable = true
	}
	return wrapped
}

// IsNotFound reports whether err (or any wrapped error) marks a missing
// document.
func IsNotFound(err error) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.IsNotFound()
	}
	return status.Code(err) == codes.NotFound
}

// IsConflict reports whether err marks a write conflict.
func IsConflict(err error) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.IsConflict()
	}
	return status.Code(err) == codes.AlreadyExists
}
