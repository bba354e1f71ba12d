package main

import (
	"fmt"

	"github.com/aretw0/bubblefx/internal/cli"
	"github.com/spf13/cobra"
)

// simulateCmd represents the simulate command
var simulateCmd = &cobra.Command{
	Use:   "simulate [script]",
	Short: "Replay a calibration session against an in-memory scene",
	Long: `Runs the calibration state machine on a host loop and feeds it the camera,
touch and recording changes listed in a YAML script. Without a script the
default happy path is replayed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, overrides, logLevel := commonFlags(cmd)
		addr, _ := cmd.Flags().GetString("addr")
		hold, _ := cmd.Flags().GetBool("hold")
		speed, _ := cmd.Flags().GetFloat64("speed")
		grace, _ := cmd.Flags().GetDuration("grace")
		quiet, _ := cmd.Flags().GetBool("quiet")
		watchMode, _ := cmd.Flags().GetBool("watch")

		if hold && addr == "" {
			return fmt.Errorf("--hold needs --addr")
		}

		opts := cli.SimulateOptions{
			ConfigPath: configPath,
			Overrides:  overrides,
			LogLevel:   logLevel,
			Addr:       addr,
			Hold:       hold,
			Speed:      speed,
			Grace:      grace,
			Quiet:      quiet,
			Out:        cmd.OutOrStdout(),
		}
		if len(args) > 0 {
			opts.ScriptPath = args[0]
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		if watchMode {
			return cli.RunWatch(ctx, opts)
		}
		_, err := cli.Simulate(ctx, opts)
		if sig := ctx.Signal(); sig != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "\nInterrupted by %v\n", sig)
		}
		return cli.HandleExecutionError(err)
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().String("addr", "", "Serve the status API on this address, e.g. :8080")
	simulateCmd.Flags().Bool("hold", false, "Keep the status API up after the session ends")
	simulateCmd.Flags().Float64("speed", 1, "Time multiplier for the script and the config durations")
	simulateCmd.Flags().Duration("grace", cli.DefaultGrace, "How long to wait for Ready after the last step")
	simulateCmd.Flags().BoolP("quiet", "q", false, "Only log, no console narration")
	simulateCmd.Flags().BoolP("watch", "w", false, "Replay whenever the script or config changes")
}
