package tensor

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Shape represents the dimensions of a tensor.
type Shape []int

// NumElements returns the total number of elements in the tensor.
// The result is only meaningful for shapes that pass Validate.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// ErrShapeOverflow is returned when a shape's element count does not fit in
// an int.
var ErrShapeOverflow = errors.New("shape element count overflows int")

// Validate checks that every dimension is >= 0 and that the element count
// fits in an int. Zero extents are allowed and give an empty tensor.
func (s Shape) Validate() error {
	n := 1
	for i, dim := range s {
		if dim < 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be >= 0)", i, dim)
		}
		if dim != 0 && n > math.MaxInt/dim {
			return fmt.Errorf("%w: %v", ErrShapeOverflow, []int(s))
		}
		n *= dim
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	if s == nil {
		return nil
	}
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// String formats the shape as "[2 3 4]"; scalars print as "[]".
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = strconv.Itoa(d)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// ParseShape parses a comma or "x" separated list of extents ("2,3" or "2x3").
// The empty string is a scalar.
func ParseShape(s string) (Shape, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Shape{}, nil
	}
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == 'x' })
	shape := make(Shape, 0, len(fields))
	for _, f := range fields {
		d, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("invalid extent %q in shape %q", f, s)
		}
		shape = append(shape, d)
	}
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	return shape, nil
}
