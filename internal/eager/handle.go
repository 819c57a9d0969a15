package eager

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/born-ml/eager/internal/status"
	"github.com/born-ml/eager/internal/tensor"
)

// Kind tells where a ready handle keeps its data.
type Kind int

// Handle kinds.
const (
	// Pending handles are waiting for their producer.
	Pending Kind = iota
	// Local handles hold their data in this process.
	Local
	// Remote handles refer to data held by another task.
	Remote
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Pending:
		return "pending"
	case Local:
		return "local"
	case Remote:
		return "remote"
	default:
		return "unknown"
	}
}

// ErrAlreadyReady is returned when a producer completes a handle twice.
var ErrAlreadyReady = status.New(status.FailedPrecondition, "tensor handle is already ready")

// TensorHandle is the runtime's handle to tensor data.
//
// Handles are reference counted. A new handle has one reference, owned by its
// creator; Ref adds one and Unref drops one. When the count reaches zero the
// handle releases its data and mirrors, and every later query fails with
// FailedPrecondition.
//
// All methods are safe for concurrent use.
type TensorHandle struct {
	id     uuid.UUID
	ctx    *Context
	dtype  tensor.DataType
	device tensor.DeviceName // device of the op that created the handle

	refs atomic.Int32

	ready     chan struct{}
	readyOnce sync.Once

	mu                sync.Mutex
	kind              Kind
	backing           tensor.DeviceName
	shape             tensor.Shape // nil until known
	data              *tensor.RawTensor
	remote            RemoteRef
	poison            error
	mirrors           map[tensor.DeviceName]*tensor.RawTensor
	implicitMirroring bool
}

func newHandle(ctx *Context, dtype tensor.DataType, device tensor.DeviceName) *TensorHandle {
	h := &TensorHandle{
		id:     uuid.New(),
		ctx:    ctx,
		dtype:  dtype,
		device: device,
		ready:  make(chan struct{}),
	}
	h.refs.Store(1)
	ctx.live.Add(1)
	return h
}

// NewLocalHandle creates a ready handle over t, which must already be on its
// device. The handle takes ownership of the caller's reference to t.
// opDevice is the device of the producing op; zero means t's device.
func NewLocalHandle(ctx *Context, t *tensor.RawTensor, opDevice tensor.DeviceName) (*TensorHandle, error) {
	if t == nil {
		return nil, status.New(status.InvalidArgument, "nil tensor")
	}
	if t.IsReleased() {
		return nil, status.New(status.InvalidArgument, "tensor has been released")
	}
	if opDevice.IsZero() {
		opDevice = t.Device()
	}
	h := newHandle(ctx, t.DType(), opDevice)
	h.kind = Local
	h.data = t
	h.backing = t.Device()
	h.shape = t.Shape().Clone()
	h.markReady()

	ctx.logger.Debug("created local handle", "handle", h.id, "device", opDevice, "backing", h.backing)
	return h, nil
}

// NewRemoteHandle creates a handle for output ref held on backing. A nil shape
// means the remote op has not finished; the handle becomes ready once
// SetRemoteShape is called.
func NewRemoteHandle(ctx *Context, ref RemoteRef, dtype tensor.DataType, shape tensor.Shape, opDevice, backing tensor.DeviceName) (*TensorHandle, error) {
	if backing.IsZero() {
		return nil, status.New(status.InvalidArgument, "remote handle needs a backing device")
	}
	if backing.SameTask(ctx.localDevice) {
		return nil, status.Errorf(status.InvalidArgument, "device %s is in the local task", backing)
	}
	if shape != nil {
		if err := shape.Validate(); err != nil {
			return nil, status.Wrap(err, status.InvalidArgument, "remote shape")
		}
	}
	if opDevice.IsZero() {
		opDevice = backing
	}
	h := newHandle(ctx, dtype, opDevice)
	h.kind = Remote
	h.remote = ref
	h.backing = backing
	if shape != nil {
		h.shape = shape.Clone()
		h.markReady()
	}

	ctx.logger.Debug("created remote handle", "handle", h.id, "ref", ref, "backing", backing, "ready", shape != nil)
	return h, nil
}

// NewPendingHandle creates a handle whose data an asynchronous producer will
// supply later through SetTensor, SetRemoteShape or Poison. Its backing device
// and shape are unknown until then.
func NewPendingHandle(ctx *Context, dtype tensor.DataType, opDevice tensor.DeviceName) *TensorHandle {
	h := newHandle(ctx, dtype, opDevice)
	ctx.logger.Debug("created pending handle", "handle", h.id, "device", opDevice)
	return h
}

// ID returns the handle's unique id.
func (h *TensorHandle) ID() uuid.UUID {
	return h.id
}

// Context returns the context the handle was created in.
func (h *TensorHandle) Context() *Context {
	return h.ctx
}

// Kind returns where the handle keeps its data.
func (h *TensorHandle) Kind() Kind {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.kind
}

// Ref adds a reference. It returns false, and logs, if the handle was
// already fully released: a destroyed handle cannot be revived.
func (h *TensorHandle) Ref() bool {
	for {
		n := h.refs.Load()
		if n <= 0 {
			h.ctx.logger.Warn("reference to released tensor handle", "handle", h.id)
			return false
		}
		if h.refs.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// Unref drops a reference and releases the handle's data when it was the
// last one. Unref on a released handle is a no-op.
func (h *TensorHandle) Unref() {
	for {
		n := h.refs.Load()
		if n <= 0 {
			return
		}
		if h.refs.CompareAndSwap(n, n-1) {
			if n == 1 {
				h.destroy()
			}
			return
		}
	}
}

// RefCount returns the current number of references.
func (h *TensorHandle) RefCount() int {
	return int(h.refs.Load())
}

func (h *TensorHandle) destroy() {
	h.mu.Lock()
	if h.data != nil {
		h.data.Release()
		h.data = nil
	}
	for d, m := range h.mirrors {
		m.Release()
		delete(h.mirrors, d)
	}
	h.mu.Unlock()

	h.ctx.live.Add(-1)
	h.ctx.logger.Debug("released tensor handle", "handle", h.id)
}

// checkLive returns FailedPrecondition once every reference is gone.
func (h *TensorHandle) checkLive() error {
	if h.refs.Load() <= 0 {
		return status.Errorf(status.FailedPrecondition, "tensor handle %s has been released", h.id)
	}
	return nil
}

// IsValid reports whether the handle can still be used. A pending handle is
// valid; a released or poisoned one is not, and the error says why.
func (h *TensorHandle) IsValid() (bool, error) {
	if err := h.checkLive(); err != nil {
		return false, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.poison != nil {
		return false, h.poison
	}
	return true, nil
}

// DataType returns the element type. It is known from creation on.
func (h *TensorHandle) DataType() tensor.DataType {
	return h.dtype
}

// Shape returns a copy of the shape. It fails with Unavailable while the
// producer has not reported it yet; it does not wait.
func (h *TensorHandle) Shape() (tensor.Shape, error) {
	if err := h.checkLive(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.poison != nil {
		return nil, h.poison
	}
	if h.shape == nil {
		return nil, status.Errorf(status.Unavailable, "shape of tensor handle %s is not known yet", h.id)
	}
	return h.shape.Clone(), nil
}

// NumDims returns the number of dimensions.
func (h *TensorHandle) NumDims() (int, error) {
	shape, err := h.Shape()
	if err != nil {
		return 0, err
	}
	return len(shape), nil
}

// NumElements returns the number of elements; 1 for scalars.
func (h *TensorHandle) NumElements() (int64, error) {
	shape, err := h.Shape()
	if err != nil {
		return 0, err
	}
	return int64(shape.NumElements()), nil
}

// Dim returns the extent of dimension index.
func (h *TensorHandle) Dim(index int) (int64, error) {
	shape, err := h.Shape()
	if err != nil {
		return 0, err
	}
	if index < 0 || index >= len(shape) {
		return 0, status.Errorf(status.OutOfRange, "dimension %d out of range [0, %d)", index, len(shape))
	}
	return int64(shape[index]), nil
}

// DeviceName returns the full name of the device that created the handle.
func (h *TensorHandle) DeviceName() (string, error) {
	if err := h.checkLive(); err != nil {
		return "", err
	}
	if h.device.IsZero() {
		return "", status.Errorf(status.Unavailable, "tensor handle %s has no op device", h.id)
	}
	return h.device.String(), nil
}

// BackingDeviceName returns the full name of the device holding the data.
// It fails with Unavailable until a pending handle has been placed.
func (h *TensorHandle) BackingDeviceName() (string, error) {
	if err := h.checkLive(); err != nil {
		return "", err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.backing.IsZero() {
		return "", status.Errorf(status.Unavailable, "tensor handle %s has not been placed yet", h.id)
	}
	return h.backing.String(), nil
}

// EnableImplicitMirroring keeps the local copies Resolve makes of this
// handle, whatever the context's mirroring policy. Calling it again has no
// further effect.
func (h *TensorHandle) EnableImplicitMirroring() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.implicitMirroring = true
}

// ImplicitMirroring reports whether EnableImplicitMirroring was called.
func (h *TensorHandle) ImplicitMirroring() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.implicitMirroring
}

// HasMirror reports whether a mirror of the data exists on device.
func (h *TensorHandle) HasMirror(device tensor.DeviceName) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.mirrors[device]
	return ok
}

// NumMirrors returns the number of devices holding a mirror.
func (h *TensorHandle) NumMirrors() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.mirrors)
}

// RemoteRef returns the remote output a Remote handle refers to.
func (h *TensorHandle) RemoteRef() (RemoteRef, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.remote, h.kind == Remote
}
