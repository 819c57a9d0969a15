// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package handle

import (
	"context"

	"github.com/born-ml/eager/eager"
	"github.com/born-ml/eager/internal/handle"
	"github.com/born-ml/eager/tensor"
)

// TensorHandle is the capability set every tensor handle implementation
// offers. See the internal definition for the method contracts.
type TensorHandle = handle.TensorHandle

// Adapter is the TensorHandle backed by an eager.TensorHandle.
type Adapter = handle.Adapter

// Summary is a snapshot of a handle's metadata, as returned by Describe.
type Summary = handle.Summary

// Compile-time check that Adapter implements TensorHandle.
var _ TensorHandle = (*Adapter)(nil)

// Wrap adopts the caller's reference to h.
func Wrap(h *eager.TensorHandle) *Adapter {
	return handle.Wrap(h)
}

// HandleFromInterface returns the eager handle behind h. It panics if h was
// not created by Wrap.
func HandleFromInterface(h TensorHandle) *eager.TensorHandle {
	return handle.HandleFromInterface(h)
}

// AsAdapter returns h as an *Adapter if that is its dynamic type.
func AsAdapter(h TensorHandle) (*Adapter, bool) {
	return handle.AsAdapter(h)
}

// ResolveAll resolves handles concurrently.
func ResolveAll(ctx context.Context, handles []TensorHandle) ([]*tensor.RawTensor, error) {
	return handle.ResolveAll(ctx, handles)
}

// Describe queries every piece of metadata h reports.
func Describe(h TensorHandle) Summary {
	return handle.Describe(h)
}
