// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/eager/internal/tensor"
)

// DataType represents the element type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Invalid  DataType = tensor.Invalid
	Float32  DataType = tensor.Float32
	Float64  DataType = tensor.Float64
	Int32    DataType = tensor.Int32
	Int64    DataType = tensor.Int64
	Uint8    DataType = tensor.Uint8
	Bool     DataType = tensor.Bool
	Float16  DataType = tensor.Float16
	BFloat16 DataType = tensor.BFloat16
)

// Device represents the type of device where tensor data resides.
type Device = tensor.Device

// Device constants.
const (
	CPU    Device = tensor.CPU
	CUDA   Device = tensor.CUDA
	Vulkan Device = tensor.Vulkan
	Metal  Device = tensor.Metal
	WebGPU Device = tensor.WebGPU
)

// DeviceName is the fully qualified name of a device in a cluster, such as
// /job:worker/replica:0/task:1/device:CUDA:0.
type DeviceName = tensor.DeviceName

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// LocalCPU returns the name of the first CPU device of the localhost job.
func LocalCPU() DeviceName {
	return tensor.LocalCPU()
}

// ParseDeviceName parses a fully qualified device name.
func ParseDeviceName(s string) (DeviceName, error) {
	return tensor.ParseDeviceName(s)
}

// ParseDataType parses a data type name such as "float32" or "bf16".
func ParseDataType(s string) (DataType, error) {
	return tensor.ParseDataType(s)
}

// ParseShape parses "2,3" or "2x3" into a Shape.
func ParseShape(s string) (Shape, error) {
	return tensor.ParseShape(s)
}
