package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bubblefx",
	Short: "bubblefx renders the AR bubble effect and replays its calibration flow",
	Long: `bubblefx hosts the bubble material, the placement grid and the calibration
state machine outside a device. Render single frames to PNG, or replay a
scripted session against an in-memory scene and watch it over HTTP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "YAML config file")
	rootCmd.PersistentFlags().StringArray("set", nil, "Override a config key, e.g. --set pulse.duration=250ms")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
}

// commonFlags reads the persistent flags shared by every command.
func commonFlags(cmd *cobra.Command) (configPath string, overrides []string, logLevel string) {
	configPath, _ = cmd.Flags().GetString("config")
	overrides, _ = cmd.Flags().GetStringArray("set")
	logLevel, _ = cmd.Flags().GetString("log-level")
	return configPath, overrides, logLevel
}
