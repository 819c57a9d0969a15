package tensor

import (
	"errors"
	"testing"
)

func TestDeviceNameRoundTrip(t *testing.T) {
	names := []string{
		"/job:localhost/replica:0/task:0/device:CPU:0",
		"/job:worker/replica:1/task:3/device:CUDA:2",
		"/job:ps/replica:0/task:0/device:WebGPU:0",
	}
	for _, s := range names {
		n, err := ParseDeviceName(s)
		if err != nil {
			t.Fatalf("ParseDeviceName(%q): %v", s, err)
		}
		if got := n.String(); got != s {
			t.Errorf("String() = %q, want %q", got, s)
		}
	}
}

func TestParseDeviceNameDefaults(t *testing.T) {
	n, err := ParseDeviceName("/job:worker/device:cuda:1")
	if err != nil {
		t.Fatal(err)
	}
	want := DeviceName{Job: "worker", Type: CUDA, Index: 1}
	if n != want {
		t.Errorf("got %+v, want %+v", n, want)
	}
}

func TestParseDeviceNameErrors(t *testing.T) {
	bad := []string{
		"",
		"job:worker/device:CPU:0",
		"/job:worker",
		"/device:CPU:0",
		"/job:worker/device:TPU:0",
		"/job:worker/device:CPU",
		"/job:worker/device:CPU:-1",
		"/job:worker/task:x/device:CPU:0",
		"/job:worker/host:a/device:CPU:0",
		"/job:/device:CPU:0",
	}
	for _, s := range bad {
		_, err := ParseDeviceName(s)
		if !errors.Is(err, ErrInvalidDeviceName) {
			t.Errorf("ParseDeviceName(%q) error = %v, want ErrInvalidDeviceName", s, err)
		}
	}
}

func TestDeviceNameSameTask(t *testing.T) {
	cpu := MustParseDeviceName("/job:worker/replica:0/task:1/device:CPU:0")
	gpu := MustParseDeviceName("/job:worker/replica:0/task:1/device:CUDA:0")
	other := MustParseDeviceName("/job:worker/replica:0/task:2/device:CPU:0")

	if !cpu.SameTask(gpu) {
		t.Error("CPU and CUDA on one task should share the task")
	}
	if cpu.SameTask(other) {
		t.Error("different tasks reported as same task")
	}
}

func TestDeviceNameZero(t *testing.T) {
	var n DeviceName
	if !n.IsZero() || n.String() != "" {
		t.Errorf("zero DeviceName: IsZero=%v String=%q", n.IsZero(), n.String())
	}
	if LocalCPU().IsZero() {
		t.Error("LocalCPU should not be zero")
	}
}
