package tensor

import (
	"testing"
)

func TestToFloat32HalfPrecision(t *testing.T) {
	values := []float32{0, 1, -2.5, 0.5}

	for _, dtype := range []DataType{Float32, Float64, Float16, BFloat16} {
		raw, err := FromFloat32As(Shape{2, 2}, dtype, testCPU, values)
		if err != nil {
			t.Fatalf("FromFloat32As(%s): %v", dtype, err)
		}
		got, err := raw.ToFloat32()
		if err != nil {
			t.Fatalf("ToFloat32(%s): %v", dtype, err)
		}
		// All values are exactly representable in every float format.
		for i := range values {
			if got[i] != values[i] {
				t.Errorf("%s: value %d = %v, want %v", dtype, i, got[i], values[i])
			}
		}
	}
}

func TestToFloat32Integers(t *testing.T) {
	raw, _ := NewRaw(Shape{3}, Int64, testCPU)
	copy(raw.AsInt64(), []int64{-1, 0, 7})

	got, err := raw.ToFloat32()
	if err != nil {
		t.Fatal(err)
	}
	want := []float32{-1, 0, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("value %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFromFloat32AsRejectsIntegers(t *testing.T) {
	if _, err := FromFloat32As(Shape{1}, Int32, testCPU, []float32{1}); err == nil {
		t.Error("FromFloat32As should reject integer targets")
	}
}

func TestToFloat32Released(t *testing.T) {
	raw, _ := NewRaw(Shape{1}, Float32, testCPU)
	raw.Release()
	if _, err := raw.ToFloat32(); err == nil {
		t.Error("ToFloat32 on a released tensor should fail")
	}
}

func TestParseShapeAndDataType(t *testing.T) {
	s, err := ParseShape("2x3,4")
	if err != nil {
		t.Fatal(err)
	}
	if !s.Equal(Shape{2, 3, 4}) || s.String() != "[2 3 4]" {
		t.Errorf("ParseShape = %v", s)
	}
	if s, _ := ParseShape(""); len(s) != 0 || s.NumElements() != 1 {
		t.Errorf("empty shape should be a scalar, got %v", s)
	}
	if s, err := ParseShape("2,0"); err != nil || s.NumElements() != 0 {
		t.Errorf("ParseShape(\"2,0\") = %v, %v; want an empty shape", s, err)
	}
	if _, err := ParseShape("2,-1"); err == nil {
		t.Error("ParseShape should reject negative extents")
	}

	dt, err := ParseDataType("BF16")
	if err != nil || dt != BFloat16 {
		t.Errorf("ParseDataType(BF16) = %v, %v", dt, err)
	}
	if _, err := ParseDataType("complex64"); err == nil {
		t.Error("ParseDataType should reject unknown names")
	}
	if Invalid.String() != "invalid" {
		t.Errorf("Invalid.String() = %q", Invalid.String())
	}
}
