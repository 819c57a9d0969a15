package tensor

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/d4l3k/go-bfloat16"
	"github.com/x448/float16"
)

// ToFloat32 returns a float32 copy of the tensor values, converting from the
// stored data type. Bool is mapped to 0/1.
func (r *RawTensor) ToFloat32() ([]float32, error) {
	data := r.Data()
	if data == nil {
		return nil, fmt.Errorf("read of released %s%s tensor", r.dtype, r.shape)
	}
	n := r.NumElements()
	out := make([]float32, n)

	switch r.dtype {
	case Float32:
		for i := range out {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
		}
	case Float64:
		for i := range out {
			out[i] = float32(math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:])))
		}
	case Int32:
		for i := range out {
			out[i] = float32(int32(binary.LittleEndian.Uint32(data[i*4:])))
		}
	case Int64:
		for i := range out {
			out[i] = float32(int64(binary.LittleEndian.Uint64(data[i*8:])))
		}
	case Uint8, Bool:
		for i := range out {
			out[i] = float32(data[i])
		}
	case Float16:
		for i := range out {
			out[i] = float16.Frombits(binary.LittleEndian.Uint16(data[i*2:])).Float32()
		}
	case BFloat16:
		copy(out, bfloat16.DecodeFloat32(data[:n*2]))
	default:
		return nil, fmt.Errorf("unsupported data type %s", r.dtype)
	}
	return out, nil
}

// FromFloat32As creates a RawTensor of dtype from float32 values, rounding to
// the target precision. Only floating point targets are accepted.
func FromFloat32As(shape Shape, dtype DataType, device DeviceName, values []float32) (*RawTensor, error) {
	if !dtype.IsFloat() {
		return nil, fmt.Errorf("cannot encode float32 values as %s", dtype)
	}
	r, err := NewRaw(shape, dtype, device)
	if err != nil {
		return nil, err
	}
	if len(values) != r.NumElements() {
		return nil, fmt.Errorf("got %d values for shape %s", len(values), shape)
	}

	data := r.Data()
	switch dtype {
	case Float32:
		copy(r.AsFloat32(), values)
	case Float64:
		for i, v := range values {
			binary.LittleEndian.PutUint64(data[i*8:], math.Float64bits(float64(v)))
		}
	case Float16:
		for i, v := range values {
			binary.LittleEndian.PutUint16(data[i*2:], float16.Fromfloat32(v).Bits())
		}
	case BFloat16:
		copy(data, bfloat16.EncodeFloat32(values))
	}
	return r, nil
}
