// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package eager exposes the eager runtime that backs tensor handles: the
// context, the reference-counted handle type and the transfer protocol.
package eager

import (
	"github.com/born-ml/eager/internal/eager"
	"github.com/born-ml/eager/tensor"
)

// Context holds the local device, mirroring policy and transfer protocol
// shared by handles.
type Context = eager.Context

// Option configures a Context.
type Option = eager.Option

// TensorHandle is the runtime's reference-counted handle.
type TensorHandle = eager.TensorHandle

// Kind tells where a handle keeps its data.
type Kind = eager.Kind

// Handle kinds.
const (
	Pending Kind = eager.Pending
	Local   Kind = eager.Local
	Remote  Kind = eager.Remote
)

// MirroringPolicy controls whether implicit copies are kept.
type MirroringPolicy = eager.MirroringPolicy

// Mirroring policies.
const (
	MirroringNone MirroringPolicy = eager.MirroringNone
	MirroringAll  MirroringPolicy = eager.MirroringAll
)

// Transfer moves tensor data between devices.
type Transfer = eager.Transfer

// TransferFunc adapts a function to Transfer.
type TransferFunc = eager.TransferFunc

// TransferRequest describes one fetch.
type TransferRequest = eager.TransferRequest

// RemoteRef identifies a tensor held by another task.
type RemoteRef = eager.RemoteRef

// Loopback is an in-process Transfer between simulated devices.
type Loopback = eager.Loopback

// Context options.
var (
	WithLocalDevice     = eager.WithLocalDevice
	WithMirroringPolicy = eager.WithMirroringPolicy
	WithTransfer        = eager.WithTransfer
	WithLogger          = eager.WithLogger
)

// NewContext creates a context with defaults from the BORN_* environment.
func NewContext(opts ...Option) *Context {
	return eager.NewContext(opts...)
}

// NewLoopback creates an empty Loopback transfer.
func NewLoopback() *Loopback {
	return eager.NewLoopback()
}

// ParseMirroringPolicy parses "none" or "all".
func ParseMirroringPolicy(s string) (MirroringPolicy, error) {
	return eager.ParseMirroringPolicy(s)
}

// NewLocalHandle creates a ready handle over t.
func NewLocalHandle(ctx *Context, t *tensor.RawTensor, opDevice tensor.DeviceName) (*TensorHandle, error) {
	return eager.NewLocalHandle(ctx, t, opDevice)
}

// NewRemoteHandle creates a handle for data held by another task.
func NewRemoteHandle(ctx *Context, ref RemoteRef, dtype tensor.DataType, shape tensor.Shape, opDevice, backing tensor.DeviceName) (*TensorHandle, error) {
	return eager.NewRemoteHandle(ctx, ref, dtype, shape, opDevice, backing)
}

// NewPendingHandle creates a handle an asynchronous producer completes later.
func NewPendingHandle(ctx *Context, dtype tensor.DataType, opDevice tensor.DeviceName) *TensorHandle {
	return eager.NewPendingHandle(ctx, dtype, opDevice)
}
