// Package noteerr classifies component failures so that handlers can map
// them to HTTP statuses without inspecting error strings.
package noteerr

import (
	"errors"
	"fmt"
)

// Kind categorizes an error for the API boundary
type Kind string

const (
	KindInvalidInput    Kind = "invalid-input"
	KindConfiguration   Kind = "configuration"
	KindUnavailable     Kind = "unavailable"
	KindNotFound        Kind = "not-found"
	KindProviderFailure Kind = "provider-failure"
	KindConflict        Kind = "conflict"
)

// Error is a kind-tagged error. It wraps the underlying cause so that
// errors.Is/errors.As keep working through it.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a kind-tagged error with a formatted message
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap tags an existing error with a kind and a message prefix
func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the kind of an error. Untagged errors count as
// provider-neutral unavailability so they never leak as a 500 crash.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnavailable
}

// Is reports whether the error carries the given kind
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
