package service

import (
	"errors"
	"fmt"

	"github.com/breckhall/finsight/internal/store"
)

// Kind classifies a service failure for the transport layer.
type Kind string

const (
	KindInvalidArgument    Kind = "INVALID_ARGUMENT"
	KindNotFound           Kind = "NOT_FOUND"
	KindComputationFailure Kind = "COMPUTATION_FAILURE"
)

// Error is a structured service failure.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func invalidArgument(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func notFound(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func computationFailure(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindComputationFailure, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf maps an arbitrary error onto its failure kind. Structured errors
// keep their own kind, unknown identifiers map to NOT_FOUND and everything
// else is a computation failure.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	if errors.Is(err, store.ErrNotFound) {
		return KindNotFound
	}
	return KindComputationFailure
}
