package eager

import (
	"github.com/pkg/errors"

	"github.com/born-ml/eager/internal/status"
	"github.com/born-ml/eager/internal/tensor"
)

// Resolve returns the handle's data as a tensor on the context's local
// device. The caller owns the returned reference and should Release it.
//
// Resolve blocks until a pending handle is ready. Data already on the local
// device, or mirrored there, is returned without a transfer. Anything else is
// fetched through the context's Transfer; the copy is kept as a mirror only
// when mirroring is active for the handle, so without mirroring every call
// transfers again.
func (h *TensorHandle) Resolve() (*tensor.RawTensor, error) {
	if err := h.checkLive(); err != nil {
		return nil, err
	}
	if err := h.WaitReady(); err != nil {
		return nil, err
	}

	local := h.ctx.localDevice
	if t := h.localData(local); t != nil {
		return t, nil
	}

	if !h.mirroring() {
		return h.fetch(local)
	}

	key := h.id.String() + "->" + local.String()
	_, err, _ := h.ctx.flights.Do(key, func() (any, error) {
		if h.HasMirror(local) {
			return nil, nil
		}
		t, err := h.fetch(local)
		if err != nil {
			return nil, err
		}
		h.addMirror(local, t)
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	// Callers sharing one flight each take their own reference to the mirror.
	if t := h.localData(local); t != nil {
		return t, nil
	}
	return nil, status.Errorf(status.FailedPrecondition, "tensor handle %s was released during resolve", h.id)
}

// localData returns a new reference to data already on device, from the
// handle itself or from a mirror, or nil.
func (h *TensorHandle) localData(device tensor.DeviceName) *tensor.RawTensor {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.kind == Local && h.backing == device && h.data != nil {
		return h.data.Clone()
	}
	if m := h.mirrors[device]; m != nil {
		return m.Clone()
	}
	return nil
}

// mirroring reports whether implicit copies of this handle are kept.
func (h *TensorHandle) mirroring() bool {
	if h.ctx.policy == MirroringAll {
		return true
	}
	return h.ImplicitMirroring()
}

// fetch copies the data to device through the transfer protocol. The result
// is owned by the caller.
func (h *TensorHandle) fetch(device tensor.DeviceName) (*tensor.RawTensor, error) {
	h.mu.Lock()
	req := TransferRequest{
		Handle:      h.id,
		DType:       h.dtype,
		Shape:       h.shape.Clone(),
		Source:      h.backing,
		Destination: device,
		Remote:      h.remote,
	}
	if h.kind == Local && h.data != nil {
		req.Tensor = h.data.Clone()
	}
	h.mu.Unlock()
	if req.Tensor != nil {
		defer req.Tensor.Release()
	}

	h.ctx.logger.Debug("fetching tensor handle", "handle", h.id, "from", req.Source, "to", device)
	t, err := h.ctx.transfer.Fetch(req)
	if err != nil {
		return nil, status.FromError(errors.WithMessagef(err, "resolve tensor handle %s from %s", h.id, req.Source))
	}
	if t == nil {
		return nil, status.Errorf(status.Internal, "transfer of tensor handle %s returned no tensor", h.id)
	}
	if t.DType() != req.DType || !t.Shape().Equal(req.Shape) {
		got := t.DType().String() + t.Shape().String()
		t.Release()
		return nil, status.Errorf(status.Internal, "transfer of tensor handle %s returned %s, want %s%s",
			h.id, got, req.DType, req.Shape)
	}
	return t, nil
}

// addMirror stores t as the mirror on device unless one already exists or
// the handle was released meanwhile.
func (h *TensorHandle) addMirror(device tensor.DeviceName, t *tensor.RawTensor) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.refs.Load() <= 0 {
		t.Release()
		return
	}
	if h.mirrors == nil {
		h.mirrors = make(map[tensor.DeviceName]*tensor.RawTensor)
	}
	if old := h.mirrors[device]; old != nil {
		old.Release()
	}
	h.mirrors[device] = t
	h.ctx.logger.Debug("mirrored tensor handle", "handle", h.id, "device", device)
}
