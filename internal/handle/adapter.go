package handle

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/born-ml/eager/internal/eager"
	"github.com/born-ml/eager/internal/status"
	"github.com/born-ml/eager/internal/tensor"
)

// Verify that Adapter implements TensorHandle.
var _ TensorHandle = (*Adapter)(nil)

// Adapter implements TensorHandle by delegating to an *eager.TensorHandle.
// It holds one reference to the eager handle and keeps no state of its own
// beyond whether that reference was released.
type Adapter struct {
	handle   *eager.TensorHandle
	released atomic.Bool
}

// Wrap adopts the caller's reference to h. The adapter drops it on Release,
// or when garbage collected if Release was never called.
//
// Wrap(nil) returns an adapter whose queries fail with InvalidArgument.
func Wrap(h *eager.TensorHandle) *Adapter {
	a := &Adapter{handle: h}
	if h != nil {
		runtime.SetFinalizer(a, (*Adapter).Release)
	}
	return a
}

// Handle returns the wrapped eager handle.
func (a *Adapter) Handle() *eager.TensorHandle {
	return a.handle
}

// check reports the invalid-handle state common to every query.
func (a *Adapter) check() error {
	if a.handle == nil {
		return status.New(status.InvalidArgument, "the passed in handle is nil")
	}
	if a.released.Load() {
		return status.Errorf(status.FailedPrecondition, "tensor handle %s was released by this holder", a.handle.ID())
	}
	return nil
}

// IsValid implements TensorHandle.
func (a *Adapter) IsValid() (bool, error) {
	if err := a.check(); err != nil {
		return false, err
	}
	ok, err := a.handle.IsValid()
	return ok, asStatus(err)
}

// DataType implements TensorHandle. A nil handle reports tensor.Invalid.
func (a *Adapter) DataType() tensor.DataType {
	if a.handle == nil {
		return tensor.Invalid
	}
	return a.handle.DataType()
}

// NumDims implements TensorHandle.
func (a *Adapter) NumDims() (int, error) {
	if err := a.check(); err != nil {
		return 0, err
	}
	n, err := a.handle.NumDims()
	return n, asStatus(err)
}

// NumElements implements TensorHandle.
func (a *Adapter) NumElements() (int64, error) {
	if err := a.check(); err != nil {
		return 0, err
	}
	n, err := a.handle.NumElements()
	return n, asStatus(err)
}

// Dim implements TensorHandle.
func (a *Adapter) Dim(index int) (int64, error) {
	if err := a.check(); err != nil {
		return 0, err
	}
	d, err := a.handle.Dim(index)
	return d, asStatus(err)
}

// DeviceName implements TensorHandle.
func (a *Adapter) DeviceName() (string, error) {
	if err := a.check(); err != nil {
		return "", err
	}
	name, err := a.handle.DeviceName()
	return name, asStatus(err)
}

// BackingDeviceName implements TensorHandle.
func (a *Adapter) BackingDeviceName() (string, error) {
	if err := a.check(); err != nil {
		return "", err
	}
	name, err := a.handle.BackingDeviceName()
	return name, asStatus(err)
}

// Resolve implements TensorHandle.
func (a *Adapter) Resolve() (*tensor.RawTensor, error) {
	if err := a.check(); err != nil {
		return nil, err
	}
	t, err := a.handle.Resolve()
	if err != nil {
		return nil, asStatus(err)
	}
	return t, nil
}

// Copy implements TensorHandle. The copy shares the eager handle and holds
// its own reference. If the handle was already destroyed the runtime logs it
// and the copy reports FailedPrecondition from every query.
func (a *Adapter) Copy() TensorHandle {
	if a.handle == nil {
		return Wrap(nil)
	}
	if a.released.Load() || !a.handle.Ref() {
		dead := &Adapter{handle: a.handle}
		dead.released.Store(true)
		return dead
	}
	return Wrap(a.handle)
}

// EnableImplicitMirroring implements TensorHandle.
func (a *Adapter) EnableImplicitMirroring() {
	if a.check() != nil {
		return
	}
	a.handle.EnableImplicitMirroring()
}

// Release implements TensorHandle.
func (a *Adapter) Release() {
	if a.handle == nil || !a.released.CompareAndSwap(false, true) {
		return
	}
	runtime.SetFinalizer(a, nil)
	a.handle.Unref()
}

// String identifies the adapter in logs.
func (a *Adapter) String() string {
	if a.handle == nil {
		return "TensorHandle(nil)"
	}
	return fmt.Sprintf("TensorHandle(%s)", a.handle.ID())
}

// asStatus normalizes a collaborator error to a *status.Error, keeping a nil
// error nil.
func asStatus(err error) error {
	if err == nil {
		return nil
	}
	return status.FromError(err)
}
