// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package handle is the public tensor-handle API.
//
// A TensorHandle refers to tensor data that may be local, remote, or still
// being produced. Callers query it without knowing which implementation backs
// it; runtime code recovers the eager handle with HandleFromInterface.
//
// # Basic Usage
//
//	ctx := eager.NewContext()
//	raw, _ := tensor.FromFloat32(tensor.Shape{2, 2}, ctx.LocalDevice(), []float32{1, 2, 3, 4})
//	eh, _ := eager.NewLocalHandle(ctx, raw, tensor.DeviceName{})
//
//	h := handle.Wrap(eh)
//	defer h.Release()
//
//	n, err := h.NumDims()        // 2, nil
//	_, err = h.Dim(5)            // status.OutOfRange
//	t, err := h.Resolve()        // local: no transfer
//	defer t.Release()
//
// # Errors
//
// Every fallible method returns nil or a *status.Error; use status.CodeOf to
// branch on the failure kind.
package handle
