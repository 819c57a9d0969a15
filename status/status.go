// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package status exposes the error kinds reported by tensor handles.
package status

import (
	"github.com/born-ml/eager/internal/status"
)

// Code is the kind of a failure.
type Code = status.Code

// Error is a failed status: a Code and a message.
type Error = status.Error

// Error codes.
const (
	OK                 Code = status.OK
	Cancelled          Code = status.Cancelled
	Unknown            Code = status.Unknown
	InvalidArgument    Code = status.InvalidArgument
	DeadlineExceeded   Code = status.DeadlineExceeded
	NotFound           Code = status.NotFound
	AlreadyExists      Code = status.AlreadyExists
	PermissionDenied   Code = status.PermissionDenied
	ResourceExhausted  Code = status.ResourceExhausted
	FailedPrecondition Code = status.FailedPrecondition
	Aborted            Code = status.Aborted
	OutOfRange         Code = status.OutOfRange
	Unimplemented      Code = status.Unimplemented
	Internal           Code = status.Internal
	Unavailable        Code = status.Unavailable
	DataLoss           Code = status.DataLoss
	Unauthenticated    Code = status.Unauthenticated
)

// New returns an error with the given code, or nil for OK.
func New(code Code, msg string) error {
	return status.New(code, msg)
}

// Errorf returns an error with the given code and a formatted message.
func Errorf(code Code, format string, args ...any) error {
	return status.Errorf(code, format, args...)
}

// FromError converts err to a *Error; errors without a status are Unknown.
func FromError(err error) *Error {
	return status.FromError(err)
}

// CodeOf returns the code of err, OK for nil.
func CodeOf(err error) Code {
	return status.CodeOf(err)
}
