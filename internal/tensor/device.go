package tensor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Device represents the compute device type holding tensor data.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
	CUDA
	Vulkan
	Metal
	WebGPU
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case CUDA:
		return "CUDA"
	case Vulkan:
		return "Vulkan"
	case Metal:
		return "Metal"
	case WebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

// ParseDevice parses a device type name, case-insensitively.
func ParseDevice(s string) (Device, error) {
	for d := CPU; d <= WebGPU; d++ {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return CPU, fmt.Errorf("unknown device type %q", s)
}

// ErrInvalidDeviceName is returned when a device name cannot be parsed.
var ErrInvalidDeviceName = errors.New("invalid device name")

// DeviceName is the fully qualified name of a device in a cluster:
//
//	/job:worker/replica:0/task:1/device:CUDA:0
//
// The zero value is not a valid name; use IsZero to detect it.
type DeviceName struct {
	Job     string
	Replica int
	Task    int
	Type    Device
	Index   int
}

// LocalCPU returns the name of the first CPU device of the localhost job.
func LocalCPU() DeviceName {
	return DeviceName{Job: "localhost", Type: CPU}
}

// IsZero reports whether the name is unset.
func (n DeviceName) IsZero() bool {
	return n == DeviceName{}
}

// String formats the full device name.
func (n DeviceName) String() string {
	if n.IsZero() {
		return ""
	}
	return fmt.Sprintf("/job:%s/replica:%d/task:%d/device:%s:%d", n.Job, n.Replica, n.Task, n.Type, n.Index)
}

// SameTask reports whether both devices live in the same job/replica/task,
// that is, in the same address space.
func (n DeviceName) SameTask(other DeviceName) bool {
	return n.Job == other.Job && n.Replica == other.Replica && n.Task == other.Task
}

// ParseDeviceName parses a fully qualified device name. Components may appear
// in any order but job and device are required; replica and task default to 0.
func ParseDeviceName(s string) (DeviceName, error) {
	var name DeviceName
	var haveJob, haveDevice bool

	if !strings.HasPrefix(s, "/") {
		return DeviceName{}, fmt.Errorf("%w: %q must start with '/'", ErrInvalidDeviceName, s)
	}
	for _, part := range strings.Split(s[1:], "/") {
		key, val, ok := strings.Cut(part, ":")
		if !ok || val == "" {
			return DeviceName{}, fmt.Errorf("%w: malformed component %q in %q", ErrInvalidDeviceName, part, s)
		}
		switch key {
		case "job":
			name.Job = val
			haveJob = true
		case "replica", "task":
			n, err := strconv.Atoi(val)
			if err != nil || n < 0 {
				return DeviceName{}, fmt.Errorf("%w: bad %s %q in %q", ErrInvalidDeviceName, key, val, s)
			}
			if key == "replica" {
				name.Replica = n
			} else {
				name.Task = n
			}
		case "device":
			typ, idx, ok := strings.Cut(val, ":")
			if !ok {
				return DeviceName{}, fmt.Errorf("%w: device %q needs TYPE:INDEX", ErrInvalidDeviceName, val)
			}
			d, err := ParseDevice(typ)
			if err != nil {
				return DeviceName{}, fmt.Errorf("%w: %w", ErrInvalidDeviceName, err)
			}
			i, err := strconv.Atoi(idx)
			if err != nil || i < 0 {
				return DeviceName{}, fmt.Errorf("%w: bad device index %q in %q", ErrInvalidDeviceName, idx, s)
			}
			name.Type, name.Index = d, i
			haveDevice = true
		default:
			return DeviceName{}, fmt.Errorf("%w: unknown component %q in %q", ErrInvalidDeviceName, key, s)
		}
	}
	if !haveJob || !haveDevice {
		return DeviceName{}, fmt.Errorf("%w: %q needs both job and device", ErrInvalidDeviceName, s)
	}
	return name, nil
}

// MustParseDeviceName is like ParseDeviceName but panics on error.
// Intended for constants in tests and examples.
func MustParseDeviceName(s string) DeviceName {
	n, err := ParseDeviceName(s)
	if err != nil {
		panic(err)
	}
	return n
}
