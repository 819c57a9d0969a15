// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/eager/internal/tensor"
)

// RawTensor is a materialized tensor, as returned by resolving a handle.
//
// RawTensor provides:
//   - Shape and type information via Shape(), DType(), Device()
//   - Data access via Data(), AsFloat32(), ToFloat32()
//   - Shared buffers via Clone() and Release()
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.LocalCPU())
//	data := raw.AsFloat32()  // Zero-copy access
//	clone := raw.Clone()     // Shares buffer via reference counting
type RawTensor = tensor.RawTensor

// NewRaw creates a zeroed RawTensor.
func NewRaw(shape Shape, dtype DataType, device DeviceName) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// FromFloat32 creates a Float32 RawTensor holding a copy of values.
func FromFloat32(shape Shape, device DeviceName, values []float32) (*RawTensor, error) {
	return tensor.FromFloat32(shape, device, values)
}

// FromBytes creates a RawTensor holding a copy of data.
func FromBytes(shape Shape, dtype DataType, device DeviceName, data []byte) (*RawTensor, error) {
	return tensor.FromBytes(shape, dtype, device, data)
}
