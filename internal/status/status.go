// Package status defines the error kinds reported by tensor handles.
//
// Every fallible handle operation returns either a nil error (OK) or a *Error
// carrying a Code and a human readable message. Codes follow the canonical
// RPC code set so that errors coming back from remote workers keep their
// meaning.
package status

import (
	"errors"
	"fmt"
	"strings"
)

// Code is the kind of a failure.
type Code int

// Canonical error codes.
const (
	OK Code = iota
	Cancelled
	Unknown
	InvalidArgument
	DeadlineExceeded
	NotFound
	AlreadyExists
	PermissionDenied
	ResourceExhausted
	FailedPrecondition
	Aborted
	OutOfRange
	Unimplemented
	Internal
	Unavailable
	DataLoss
	Unauthenticated
)

var codeNames = [...]string{
	OK:                 "OK",
	Cancelled:          "CANCELLED",
	Unknown:            "UNKNOWN",
	InvalidArgument:    "INVALID_ARGUMENT",
	DeadlineExceeded:   "DEADLINE_EXCEEDED",
	NotFound:           "NOT_FOUND",
	AlreadyExists:      "ALREADY_EXISTS",
	PermissionDenied:   "PERMISSION_DENIED",
	ResourceExhausted:  "RESOURCE_EXHAUSTED",
	FailedPrecondition: "FAILED_PRECONDITION",
	Aborted:            "ABORTED",
	OutOfRange:         "OUT_OF_RANGE",
	Unimplemented:      "UNIMPLEMENTED",
	Internal:           "INTERNAL",
	Unavailable:        "UNAVAILABLE",
	DataLoss:           "DATA_LOSS",
	Unauthenticated:    "UNAUTHENTICATED",
}

// String returns the canonical upper-case name of the code.
func (c Code) String() string {
	if c >= 0 && int(c) < len(codeNames) {
		return codeNames[c]
	}
	return fmt.Sprintf("CODE(%d)", int(c))
}

// Error is a failed status. The zero Code is never used in an *Error.
type Error struct {
	Code    Code
	Message string
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the collaborator error this status was built from, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is a *Error with the same code. A target with a
// message must match the message too.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code && (t.Message == "" || t.Message == e.Message)
}

// New returns an error with the given code and message.
// New(OK, ...) returns nil.
func New(code Code, msg string) error {
	if code == OK {
		return nil
	}
	return &Error{Code: code, Message: msg}
}

// Errorf returns an error with the given code and a formatted message.
func Errorf(code Code, format string, args ...any) error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap returns an error with the given code whose message is msg followed by
// the cause's message. The cause stays reachable through errors.Unwrap.
func Wrap(cause error, code Code, msg string) error {
	if cause == nil {
		return nil
	}
	return &Error{Code: code, Message: msg + ": " + cause.Error(), cause: cause}
}

// FromError converts err to a *Error. A *Error anywhere in the chain keeps
// its code; the message is the full text of err so that annotations added on
// the way up survive. Errors without a status become Unknown. FromError(nil)
// returns nil.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		if se == err {
			return se
		}
		return &Error{Code: se.Code, Message: trimCode(err.Error(), se.Code), cause: err}
	}
	return &Error{Code: Unknown, Message: err.Error(), cause: err}
}

// CodeOf returns the code of err: OK for nil, Unknown for errors carrying no
// status.
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}
	return FromError(err).Code
}

// Message returns the message of err, or "" for nil.
func Message(err error) string {
	if err == nil {
		return ""
	}
	return FromError(err).Message
}

// trimCode drops the "CODE: " prefix an inner *Error put in an annotated
// message, so the outer status does not print the code twice.
func trimCode(msg string, code Code) string {
	return strings.Replace(msg, code.String()+": ", "", 1)
}
