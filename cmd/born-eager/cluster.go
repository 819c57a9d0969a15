package main

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/born-ml/eager/internal/eager"
	"github.com/born-ml/eager/internal/handle"
	"github.com/born-ml/eager/internal/tensor"
)

// cluster is a local task plus simulated devices, all backed by one Loopback
// that counts every transfer.
type cluster struct {
	ctx      *eager.Context
	loopback *eager.Loopback
	fetches  atomic.Int64
	settings clusterSettings
}

func newCluster(s clusterSettings, logger *slog.Logger) *cluster {
	c := &cluster{loopback: eager.NewLoopback(), settings: s}
	counting := eager.TransferFunc(func(req eager.TransferRequest) (*tensor.RawTensor, error) {
		c.fetches.Add(1)
		logger.Debug("transfer", "handle", req.Handle, "from", req.Source, "to", req.Destination)
		return c.loopback.Fetch(req)
	})
	c.ctx = eager.NewContext(
		eager.WithLocalDevice(s.LocalDevice),
		eager.WithMirroringPolicy(s.Mirroring),
		eager.WithTransfer(counting),
		eager.WithLogger(logger),
	)
	return c
}

// role describes where d sits relative to the local device.
func (c *cluster) role(d tensor.DeviceName) string {
	switch {
	case d == c.settings.LocalDevice:
		return "local"
	case d.SameTask(c.settings.LocalDevice):
		return "local task"
	default:
		return "remote"
	}
}

// namedHandle is a handle with a label for display.
type namedHandle struct {
	Name   string
	Handle handle.TensorHandle
}

// workload is the set of handles the inspect and resolve commands drive.
type workload struct {
	Handles []namedHandle
	// Producer completes the "pending" handle. It is owned by that handle's
	// adapter and valid until Release.
	Producer *eager.TensorHandle
}

// Release drops every handle of the workload.
func (w *workload) Release() {
	for _, nh := range w.Handles {
		nh.Handle.Release()
	}
	w.Handles = nil
	w.Producer = nil
}

// remoteDTypes cycles through the half-precision types for remote tensors.
var remoteDTypes = []tensor.DataType{tensor.Float16, tensor.BFloat16}

// populate creates one handle on the local device, one per simulated device
// and one pending handle on the local device. Remote data is registered with
// the loopback under op id i+1 for the i-th simulated device.
func (c *cluster) populate() (*workload, error) {
	w := &workload{}
	add := func(name string, h *eager.TensorHandle) {
		w.Handles = append(w.Handles, namedHandle{Name: name, Handle: handle.Wrap(h)})
	}

	t, err := tensor.FromFloat32(tensor.Shape{2, 3}, c.settings.LocalDevice, []float32{1, 2, 3, 4, 5, 6})
	if err != nil {
		return nil, err
	}
	h, err := eager.NewLocalHandle(c.ctx, t, tensor.DeviceName{})
	if err != nil {
		return nil, err
	}
	add("local", h)

	for i, d := range c.settings.RemoteDevices {
		name := fmt.Sprintf("%s:%d", d.Type, d.Index)
		if d.SameTask(c.settings.LocalDevice) {
			t, err := tensor.FromFloat32As(tensor.Shape{3}, tensor.Float64, d, []float32{0.5, 1.5, 2.5})
			if err != nil {
				w.Release()
				return nil, err
			}
			h, err := eager.NewLocalHandle(c.ctx, t, tensor.DeviceName{})
			if err != nil {
				w.Release()
				return nil, err
			}
			add(name, h)
			continue
		}

		dtype := remoteDTypes[i%len(remoteDTypes)]
		shape := tensor.Shape{2, 2}
		base := float32(10 * (i + 1))
		t, err := tensor.FromFloat32As(shape, dtype, d, []float32{base, base + 1, base + 2, base + 3})
		if err != nil {
			w.Release()
			return nil, err
		}
		ref := eager.RemoteRef{OpID: int64(i + 1)}
		c.loopback.Put(d, ref, t)

		h, err := eager.NewRemoteHandle(c.ctx, ref, dtype, shape, tensor.DeviceName{}, d)
		if err != nil {
			w.Release()
			return nil, err
		}
		add(name, h)
	}

	w.Producer = eager.NewPendingHandle(c.ctx, tensor.Float32, c.settings.LocalDevice)
	add("pending", w.Producer)
	return w, nil
}

// completePending supplies the data of a pending handle from populate.
func (c *cluster) completePending(producer *eager.TensorHandle) error {
	t, err := tensor.FromFloat32(tensor.Shape{1}, c.settings.LocalDevice, []float32{42})
	if err != nil {
		return err
	}
	return producer.SetTensor(t)
}
