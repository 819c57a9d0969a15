package tensor

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"unsafe"
)

// tensorBuffer is a reference-counted shared buffer.
// Clones share it and the bytes are dropped when the last reference goes away.
type tensorBuffer struct {
	data     []byte
	refCount atomic.Int32
	mu       sync.Mutex // For safe deallocation
}

// newTensorBuffer creates a new reference-counted buffer with refCount = 1.
func newTensorBuffer(size int) *tensorBuffer {
	buf := &tensorBuffer{
		data: make([]byte, size),
	}
	buf.refCount.Store(1)
	return buf
}

// addRef increments the reference count (for Clone operations).
func (tb *tensorBuffer) addRef() {
	tb.refCount.Add(1)
}

// release decrements the reference count and deallocates if it reaches 0.
// Releasing an already freed buffer is a no-op.
func (tb *tensorBuffer) release() {
	for {
		n := tb.refCount.Load()
		if n <= 0 {
			return
		}
		if tb.refCount.CompareAndSwap(n, n-1) {
			if n == 1 {
				tb.mu.Lock()
				tb.data = nil
				tb.mu.Unlock()
			}
			return
		}
	}
}

// isUnique returns true if this buffer has only one reference.
func (tb *tensorBuffer) isUnique() bool {
	return tb.refCount.Load() == 1
}

// isFreed reports whether every reference has been released.
func (tb *tensorBuffer) isFreed() bool {
	return tb.refCount.Load() <= 0
}

// RawTensor is a materialized tensor: a shape, a data type, the device holding
// it and a reference-counted byte buffer in row-major order.
type RawTensor struct {
	buffer *tensorBuffer // Shared reference-counted buffer
	shape  Shape         // Tensor dimensions
	stride []int         // Memory strides (row-major)
	dtype  DataType      // Runtime type information
	device DeviceName    // Device holding the bytes
}

// NewRaw creates a new RawTensor with the given shape and type.
// Memory is allocated and zeroed.
func NewRaw(shape Shape, dtype DataType, device DeviceName) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if dtype == Invalid {
		return nil, fmt.Errorf("invalid data type")
	}
	size := dtype.Size()

	n := shape.NumElements()
	if n > math.MaxInt/size {
		return nil, fmt.Errorf("%w: %s%s does not fit in memory", ErrShapeOverflow, dtype, shape)
	}
	byteSize := n * size

	return &RawTensor{
		buffer: newTensorBuffer(byteSize),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
		device: device,
	}, nil
}

// FromBytes creates a RawTensor holding a copy of data.
func FromBytes(shape Shape, dtype DataType, device DeviceName, data []byte) (*RawTensor, error) {
	r, err := NewRaw(shape, dtype, device)
	if err != nil {
		return nil, err
	}
	if len(data) != r.ByteSize() {
		return nil, fmt.Errorf("data length %d does not match %s%s (%d bytes)", len(data), dtype, shape, r.ByteSize())
	}
	copy(r.buffer.data, data)
	return r, nil
}

// FromFloat32 creates a Float32 RawTensor holding a copy of values.
func FromFloat32(shape Shape, device DeviceName, values []float32) (*RawTensor, error) {
	r, err := NewRaw(shape, Float32, device)
	if err != nil {
		return nil, err
	}
	if len(values) != r.NumElements() {
		return nil, fmt.Errorf("got %d values for shape %s", len(values), shape)
	}
	copy(r.AsFloat32(), values)
	return r, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's memory strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Device returns the name of the device holding the data.
func (r *RawTensor) Device() DeviceName {
	return r.device
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the total memory size in bytes.
func (r *RawTensor) ByteSize() int {
	return r.NumElements() * r.dtype.Size()
}

// Data returns the raw byte slice, or nil once the buffer was released.
// WARNING: Direct access to underlying memory. Use with caution.
func (r *RawTensor) Data() []byte {
	r.buffer.mu.Lock()
	defer r.buffer.mu.Unlock()
	return r.buffer.data
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", r.dtype))
	}
	data := r.Data()
	if len(data) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*float32)(unsafe.Pointer(&data[0])), r.NumElements())
}

// AsInt64 interprets the data as []int64.
// Panics if the tensor's dtype is not Int64.
func (r *RawTensor) AsInt64() []int64 {
	if r.dtype != Int64 {
		panic(fmt.Sprintf("tensor dtype is %s, not int64", r.dtype))
	}
	data := r.Data()
	if len(data) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*int64)(unsafe.Pointer(&data[0])), r.NumElements())
}

// Clone creates a shallow copy of the RawTensor that shares the buffer and
// increments its reference count.
func (r *RawTensor) Clone() *RawTensor {
	r.buffer.addRef()
	return &RawTensor{
		buffer: r.buffer,
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
		dtype:  r.dtype,
		device: r.device,
	}
}

// CopyTo returns a deep copy of the tensor placed on device.
// The copy owns a fresh buffer with refCount = 1.
func (r *RawTensor) CopyTo(device DeviceName) (*RawTensor, error) {
	data := r.Data()
	if data == nil {
		return nil, fmt.Errorf("copy of released %s%s tensor", r.dtype, r.shape)
	}
	return FromBytes(r.shape, r.dtype, device, data)
}

// Release decrements the reference count and deallocates if it reaches 0.
func (r *RawTensor) Release() {
	r.buffer.release()
}

// IsUnique returns true if this tensor is the only reference to the buffer.
func (r *RawTensor) IsUnique() bool {
	return r.buffer.isUnique()
}

// IsReleased reports whether the buffer has been freed.
func (r *RawTensor) IsReleased() bool {
	return r.buffer.isFreed()
}

// RefCount returns the number of live references to the buffer.
func (r *RawTensor) RefCount() int {
	return int(r.buffer.refCount.Load())
}
