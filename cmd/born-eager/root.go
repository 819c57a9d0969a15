package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

// Global flag values.
var (
	flagConfigDir string
	flagLogFile   string
	flagDebug     bool
)

// Set by PersistentPreRunE for the subcommands.
var (
	settings clusterSettings
	logger   *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:     "born-eager",
	Short:   "Inspect and resolve tensor handles over a simulated cluster",
	Version: version,
	Long: `born-eager builds a simulated cluster (one local task plus remote
workers, all in this process) and drives tensor handles across it.

Configuration is read from config.yaml in --config-dir, then BORN_*
environment variables, and flags override both.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "env" {
			return nil
		}
		v, err := loadConfig(cmd, flagConfigDir)
		if err != nil {
			return err
		}
		settings, err = settingsFromConfig(v)
		if err != nil {
			return err
		}
		logger = newLogger(cmd.ErrOrStderr(), v.GetString(cfgKeyLogFile), v.GetBool(cfgKeyDebug))
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: $BORN_CONFIG_DIR or the user config dir)")
	pf.StringVar(&flagLogFile, cfgKeyLogFile, "", "write logs to this file, rotated (default: stderr)")
	pf.BoolVar(&flagDebug, cfgKeyDebug, false, "enable debug logging")
	pf.String(cfgKeyMirroring, "", "mirroring policy: none or all")
	pf.String(cfgKeyLocalDevice, "", "device treated as local")
	pf.StringSlice(cfgKeyRemoteDevices, nil, "additional simulated devices; devices outside the local task are remote")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(envCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(resolveCmd)
}
