package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/bubblefx/internal/cli"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render one layer of the bubble material to PNG",
	Long: `Evaluates the bubble material (or the placement grid) on the CPU and writes
the result as a PNG. --input stands in for the camera feed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, overrides, logLevel := commonFlags(cmd)
		input, _ := cmd.Flags().GetString("input")
		output, _ := cmd.Flags().GetString("output")
		layer, _ := cmd.Flags().GetString("layer")

		// Size and seed flags are sugar over --set.
		for _, f := range []struct{ flag, key string }{
			{"width", "render.width"},
			{"height", "render.height"},
			{"seed", "render.seed"},
		} {
			if cmd.Flags().Changed(f.flag) {
				v := cmd.Flags().Lookup(f.flag).Value.String()
				overrides = append(overrides, fmt.Sprintf("%s=%s", f.key, v))
			}
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		return cli.HandleExecutionError(cli.Render(ctx, cli.RenderOptions{
			ConfigPath: configPath,
			Overrides:  overrides,
			LogLevel:   logLevel,
			Input:      input,
			Output:     output,
			Layer:      layer,
			Out:        cmd.OutOrStdout(),
		}))
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringP("input", "i", "", "PNG or JPEG used as the camera texture")
	renderCmd.Flags().StringP("output", "o", "bubble.png", `Output PNG ("-" for stdout)`)
	renderCmd.Flags().String("layer", "output", "Layer to render: "+strings.Join(cli.Layers(), ", "))
	renderCmd.Flags().Int("width", 0, "Image width (overrides render.width)")
	renderCmd.Flags().Int("height", 0, "Image height (overrides render.height)")
	renderCmd.Flags().Int64("seed", 0, "Accent shuffle seed (overrides render.seed, 0 is random)")
}
