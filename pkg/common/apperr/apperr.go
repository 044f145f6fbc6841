package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies failures surfaced to the operator.
type Kind string

const (
	MissingDependency      Kind = "MissingDependency"
	InvalidArgument        Kind = "InvalidArgument"
	IOError                Kind = "IOError"
	ExternalCommandFailure Kind = "ExternalCommandFailure"
)

// Error carries a Kind, the operation (or publish step) that failed and the cause.
type Error struct {
	Kind    Kind   `json:"kind"`
	Op      string `json:"op,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", e.Op, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

func Wrap(kind Kind, op string, err error, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// OpOf returns the Op of the first *Error in err's chain.
func OpOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Op
	}
	return ""
}
