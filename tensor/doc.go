// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the tensor types shared by the eager handle layer.
//
// # Overview
//
//   - DataType: element types, including float16 and bfloat16
//   - Shape: tensor dimensions
//   - DeviceName: fully qualified device names across a cluster
//   - RawTensor: materialized data in a reference-counted buffer
//
// # Basic Usage
//
//	import "github.com/born-ml/eager/tensor"
//
//	func main() {
//	    gpu, _ := tensor.ParseDeviceName("/job:worker/replica:0/task:1/device:CUDA:0")
//	    raw, _ := tensor.FromFloat32(tensor.Shape{2}, gpu, []float32{1, 2})
//	    defer raw.Release()
//	}
package tensor
