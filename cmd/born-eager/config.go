package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/born-ml/eager/internal/eager"
	"github.com/born-ml/eager/internal/envconfig"
	"github.com/born-ml/eager/internal/tensor"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	// Config keys double as flag names.
	cfgKeyLocalDevice   = "local-device"
	cfgKeyRemoteDevices = "remote-devices"
	cfgKeyMirroring     = "mirroring"
	cfgKeyLogFile       = "log-file"
	cfgKeyDebug         = "debug"
)

// defaultRemoteDevices is a two-device worker task.
var defaultRemoteDevices = []string{
	"/job:worker/replica:0/task:1/device:CPU:0",
	"/job:worker/replica:0/task:1/device:CUDA:0",
}

// clusterSettings is the resolved configuration of the simulated cluster.
type clusterSettings struct {
	LocalDevice   tensor.DeviceName
	RemoteDevices []tensor.DeviceName
	Mirroring     eager.MirroringPolicy
}

// loadConfig layers flags over config.yaml over the BORN_* environment.
// A missing config directory or config.yaml is not an error.
func loadConfig(cmd *cobra.Command, configDir string) (*viper.Viper, error) {
	v := viper.New()

	mirroring := eager.MirroringNone
	if envconfig.MirrorTensors() {
		mirroring = eager.MirroringAll
	}
	v.SetDefault(cfgKeyLocalDevice, envconfig.LocalDevice().String())
	v.SetDefault(cfgKeyRemoteDevices, defaultRemoteDevices)
	v.SetDefault(cfgKeyMirroring, mirroring.String())
	v.SetDefault(cfgKeyDebug, envconfig.LogLevel() <= slog.LevelDebug)

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	if configDir == "" {
		configDir = defaultConfigDir()
	}
	if configDir == "" {
		return v, nil
	}
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// defaultConfigDir returns $BORN_CONFIG_DIR, else born-eager under the user
// config directory, else "".
func defaultConfigDir() string {
	if dir := envconfig.ConfigDir(); dir != "" {
		return dir
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "born-eager")
}

// settingsFromConfig parses the device names and the mirroring policy.
func settingsFromConfig(v *viper.Viper) (clusterSettings, error) {
	var s clusterSettings
	var err error

	s.LocalDevice, err = tensor.ParseDeviceName(v.GetString(cfgKeyLocalDevice))
	if err != nil {
		return s, fmt.Errorf("%s: %w", cfgKeyLocalDevice, err)
	}
	for _, name := range v.GetStringSlice(cfgKeyRemoteDevices) {
		d, err := tensor.ParseDeviceName(name)
		if err != nil {
			return s, fmt.Errorf("%s: %w", cfgKeyRemoteDevices, err)
		}
		if d == s.LocalDevice {
			return s, fmt.Errorf("%s: %s is the local device", cfgKeyRemoteDevices, d)
		}
		s.RemoteDevices = append(s.RemoteDevices, d)
	}
	s.Mirroring, err = eager.ParseMirroringPolicy(v.GetString(cfgKeyMirroring))
	if err != nil {
		return s, fmt.Errorf("%s: %w", cfgKeyMirroring, err)
	}
	return s, nil
}
