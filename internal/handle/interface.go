// Package handle defines TensorHandle, the capability set every tensor handle
// implementation offers, and Adapter, the implementation backed by the eager
// runtime's handles.
//
// Callers depend only on TensorHandle. Runtime code that needs the eager
// handle itself recovers it with HandleFromInterface.
package handle

import (
	"github.com/born-ml/eager/internal/tensor"
)

// TensorHandle is a reference to tensor data that may be local, remote, or
// still being produced.
//
// Fallible methods return a nil error on success or a *status.Error carrying
// the failure kind; numeric results are zero on failure. Each TensorHandle
// value owns one reference to its data and must be released with Release.
type TensorHandle interface {
	// IsValid reports whether the handle is in a usable state. It never fails
	// itself; when it returns false the error explains why.
	IsValid() (bool, error)
	// DataType returns the element type.
	DataType() tensor.DataType
	// NumDims returns the number of dimensions.
	NumDims() (int, error)
	// NumElements returns the number of elements across all dimensions.
	NumElements() (int64, error)
	// Dim returns the extent of dimension index, which must be in [0, NumDims).
	Dim(index int) (int64, error)

	// DeviceName returns the device that created the handle.
	DeviceName() (string, error)
	// BackingDeviceName returns the device where the data is placed.
	BackingDeviceName() (string, error)
	// Resolve returns the data as a tensor owned by the caller. If the data is
	// not local it is copied, which may block on the network.
	Resolve() (*tensor.RawTensor, error)

	// Copy returns a new handle to the same data. The copy must be released
	// separately.
	Copy() TensorHandle
	// EnableImplicitMirroring keeps the local copies Resolve makes of this
	// handle, even when the context policy is not to mirror.
	EnableImplicitMirroring()

	// Release drops this value's reference. Further calls are no-ops.
	Release()
}
