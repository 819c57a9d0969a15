package eager

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/born-ml/eager/internal/status"
	"github.com/born-ml/eager/internal/tensor"
)

// RemoteRef identifies a tensor held by another task: the output of an
// operation the remote worker executed.
type RemoteRef struct {
	OpID   int64
	Output int
}

// String formats the reference as "op:output".
func (r RemoteRef) String() string {
	return fmt.Sprintf("%d:%d", r.OpID, r.Output)
}

// TransferRequest describes one fetch of a handle's data to a device.
type TransferRequest struct {
	Handle      uuid.UUID
	DType       tensor.DataType
	Shape       tensor.Shape
	Source      tensor.DeviceName
	Destination tensor.DeviceName

	// Tensor is the in-process data when the source device lives in this
	// task. It is nil for remote handles.
	Tensor *tensor.RawTensor
	// Remote identifies the data on the source task for remote handles.
	Remote RemoteRef
}

// Transfer moves tensor data between devices, across the network if needed.
// Fetch returns a tensor on req.Destination owned by the caller. Errors
// should be *status.Error values; plain errors are reported as Unknown.
type Transfer interface {
	Fetch(req TransferRequest) (*tensor.RawTensor, error)
}

// TransferFunc adapts a function to the Transfer interface.
type TransferFunc func(req TransferRequest) (*tensor.RawTensor, error)

// Fetch calls f(req).
func (f TransferFunc) Fetch(req TransferRequest) (*tensor.RawTensor, error) {
	return f(req)
}

// Loopback is a Transfer for a single process hosting several simulated
// devices and tasks. In-process tensors are deep-copied to the destination;
// remote tensors are looked up in a table filled with Put.
type Loopback struct {
	mu     sync.Mutex
	remote map[tensor.DeviceName]map[RemoteRef]*tensor.RawTensor
}

var _ Transfer = (*Loopback)(nil)

// NewLoopback creates a Loopback with no remote tensors.
func NewLoopback() *Loopback {
	return &Loopback{remote: make(map[tensor.DeviceName]map[RemoteRef]*tensor.RawTensor)}
}

// Put registers t as the output ref on device. The loopback takes ownership
// of the reference and releases a tensor it replaces.
func (l *Loopback) Put(device tensor.DeviceName, ref RemoteRef, t *tensor.RawTensor) {
	l.mu.Lock()
	defer l.mu.Unlock()

	outputs := l.remote[device]
	if outputs == nil {
		outputs = make(map[RemoteRef]*tensor.RawTensor)
		l.remote[device] = outputs
	}
	if old := outputs[ref]; old != nil {
		old.Release()
	}
	outputs[ref] = t
}

// Drop forgets every tensor registered on device, simulating a lost worker.
func (l *Loopback) Drop(device tensor.DeviceName) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, t := range l.remote[device] {
		t.Release()
	}
	delete(l.remote, device)
}

// Fetch implements Transfer.
func (l *Loopback) Fetch(req TransferRequest) (*tensor.RawTensor, error) {
	src := req.Tensor
	if src == nil {
		l.mu.Lock()
		outputs, ok := l.remote[req.Source]
		if t := outputs[req.Remote]; t != nil {
			src = t.Clone()
		}
		l.mu.Unlock()

		if !ok {
			return nil, status.Errorf(status.Unavailable, "device %s is not reachable", req.Source)
		}
		if src == nil {
			return nil, status.Errorf(status.NotFound, "no tensor %s on device %s", req.Remote, req.Source)
		}
		defer src.Release()
	}

	out, err := src.CopyTo(req.Destination)
	if err != nil {
		return nil, status.Wrap(err, status.DataLoss, fmt.Sprintf("copy %s to %s", req.Source, req.Destination))
	}
	return out, nil
}
