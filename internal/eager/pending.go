package eager

import (
	"github.com/pkg/errors"

	"github.com/born-ml/eager/internal/status"
	"github.com/born-ml/eager/internal/tensor"
)

func (h *TensorHandle) markReady() {
	h.readyOnce.Do(func() { close(h.ready) })
}

// IsReady reports whether the producer has finished, successfully or not.
func (h *TensorHandle) IsReady() bool {
	select {
	case <-h.ready:
		return true
	default:
		return false
	}
}

// WaitReady blocks until the producer has finished. It returns the poison
// error if the producer failed. There is no timeout.
func (h *TensorHandle) WaitReady() error {
	<-h.ready
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.poison
}

// SetTensor completes a pending handle with local data. The handle takes
// ownership of the caller's reference to t, also on error. Completing a
// handle whose references are all gone fails with FailedPrecondition.
func (h *TensorHandle) SetTensor(t *tensor.RawTensor) error {
	if t == nil {
		return status.New(status.InvalidArgument, "nil tensor")
	}
	if t.DType() != h.dtype {
		t.Release()
		return status.Errorf(status.InvalidArgument, "tensor dtype %s does not match handle dtype %s", t.DType(), h.dtype)
	}

	h.mu.Lock()
	if err := h.checkLive(); err != nil {
		h.mu.Unlock()
		t.Release()
		return err
	}
	if h.IsReady() {
		h.mu.Unlock()
		t.Release()
		return errors.Wrapf(ErrAlreadyReady, "set tensor on handle %s", h.id)
	}
	h.kind = Local
	h.data = t
	h.backing = t.Device()
	h.shape = t.Shape().Clone()
	h.markReady()
	h.mu.Unlock()

	h.ctx.logger.Debug("tensor handle ready", "handle", h.id, "backing", t.Device(), "shape", t.Shape())
	return nil
}

// SetRemoteShape completes a pending handle whose data stays on backing as
// output ref.
func (h *TensorHandle) SetRemoteShape(ref RemoteRef, shape tensor.Shape, backing tensor.DeviceName) error {
	if backing.IsZero() {
		return status.New(status.InvalidArgument, "remote handle needs a backing device")
	}
	if backing.SameTask(h.ctx.localDevice) {
		return status.Errorf(status.InvalidArgument, "device %s is in the local task", backing)
	}
	if err := shape.Validate(); err != nil {
		return status.Wrap(err, status.InvalidArgument, "remote shape")
	}

	h.mu.Lock()
	if err := h.checkLive(); err != nil {
		h.mu.Unlock()
		return err
	}
	if h.IsReady() {
		h.mu.Unlock()
		return errors.Wrapf(ErrAlreadyReady, "set remote shape on handle %s", h.id)
	}
	h.kind = Remote
	h.remote = ref
	h.backing = backing
	h.shape = shape.Clone()
	h.markReady()
	h.mu.Unlock()

	h.ctx.logger.Debug("remote tensor handle ready", "handle", h.id, "ref", ref, "backing", backing)
	return nil
}

// Poison completes a pending handle with the producer's failure. Every later
// query and Resolve reports it. Poisoning a ready handle is an error.
func (h *TensorHandle) Poison(cause error) error {
	if cause == nil {
		return status.New(status.InvalidArgument, "poison needs an error")
	}

	h.mu.Lock()
	if err := h.checkLive(); err != nil {
		h.mu.Unlock()
		return err
	}
	if h.IsReady() {
		h.mu.Unlock()
		return errors.Wrapf(ErrAlreadyReady, "poison handle %s", h.id)
	}
	h.poison = status.FromError(errors.WithMessagef(cause, "producer of tensor handle %s failed", h.id))
	h.markReady()
	h.mu.Unlock()

	h.ctx.logger.Debug("tensor handle poisoned", "handle", h.id, "error", cause)
	return nil
}
