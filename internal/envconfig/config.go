// Package envconfig reads the BORN_* environment variables that provide
// defaults for the eager runtime.
package envconfig

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/born-ml/eager/internal/tensor"
)

// LocalDevice returns the device treated as local by new eager contexts.
// Configurable via BORN_LOCAL_DEVICE. Default: the first localhost CPU.
func LocalDevice() tensor.DeviceName {
	if s := Var("BORN_LOCAL_DEVICE"); s != "" {
		name, err := tensor.ParseDeviceName(s)
		if err == nil {
			return name
		}
		slog.Warn("invalid BORN_LOCAL_DEVICE, using default", "value", s, "error", err)
	}
	return tensor.LocalCPU()
}

// ConfigDir returns the born-eager configuration directory.
// Configurable via BORN_CONFIG_DIR. Default: "" (the CLI picks one).
func ConfigDir() string {
	return Var("BORN_CONFIG_DIR")
}

// MirrorTensors reports whether contexts mirror every implicitly copied
// tensor. Configurable via BORN_MIRROR_TENSORS. Default: false.
var MirrorTensors = Bool("BORN_MIRROR_TENSORS")

// LogLevel returns the log level. BORN_DEBUG=1 enables debug logging; a
// numeric value N selects slog.Level(-4*N).
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("BORN_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}

	return level
}

// Var returns an environment variable stripped of surrounding whitespace and
// quotes.
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}

// BoolWithDefault returns a reader for a boolean variable. Unparsable values
// count as true so that BORN_X=yes behaves as expected.
func BoolWithDefault(k string) func(defaultValue bool) bool {
	return func(defaultValue bool) bool {
		if s := Var(k); s != "" {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return true
			}
			return b
		}
		return defaultValue
	}
}

// Bool returns a reader for a boolean variable defaulting to false.
func Bool(k string) func() bool {
	withDefault := BoolWithDefault(k)
	return func() bool {
		return withDefault(false)
	}
}

// EnvVar describes one configuration variable.
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap returns every variable with its current value.
func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"BORN_CONFIG_DIR":     {"BORN_CONFIG_DIR", ConfigDir(), "Directory holding the born-eager config.yaml"},
		"BORN_DEBUG":          {"BORN_DEBUG", LogLevel(), "Show additional debug information (e.g. BORN_DEBUG=1)"},
		"BORN_LOCAL_DEVICE":   {"BORN_LOCAL_DEVICE", LocalDevice(), "Device treated as local by eager contexts"},
		"BORN_MIRROR_TENSORS": {"BORN_MIRROR_TENSORS", MirrorTensors(), "Keep local mirrors of every implicitly copied tensor"},
	}
}

// Values returns every variable formatted as a string.
func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}
