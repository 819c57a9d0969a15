package handle

import (
	"github.com/born-ml/eager/internal/tensor"
)

// Summary is a snapshot of everything a TensorHandle reports about itself.
// Fields that could not be queried are left zero and the first failure is
// kept in Err.
type Summary struct {
	ID          string
	Kind        string
	DType       tensor.DataType
	Shape       []int64 // nil when unknown
	NumElements int64
	Device      string
	Backing     string
	Valid       bool
	Mirroring   bool
	Err         error
}

// Describe queries h through the TensorHandle methods. ID, Kind and Mirroring
// are only filled in for adapters.
func Describe(h TensorHandle) Summary {
	var s Summary
	keep := func(err error) {
		if s.Err == nil {
			s.Err = err
		}
	}

	s.DType = h.DataType()
	valid, err := h.IsValid()
	s.Valid = valid
	keep(err)

	if n, err := h.NumDims(); err != nil {
		keep(err)
	} else {
		s.Shape = make([]int64, n)
		for i := range s.Shape {
			d, err := h.Dim(i)
			if err != nil {
				keep(err)
				s.Shape = nil
				break
			}
			s.Shape[i] = d
		}
		s.NumElements, err = h.NumElements()
		keep(err)
	}

	s.Device, err = h.DeviceName()
	keep(err)
	s.Backing, err = h.BackingDeviceName()
	keep(err)

	if a, ok := AsAdapter(h); ok && a.handle != nil {
		s.ID = a.handle.ID().String()
		s.Kind = a.handle.Kind().String()
		s.Mirroring = a.handle.ImplicitMirroring()
	}
	return s
}
