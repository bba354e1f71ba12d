package main

import (
	"fmt"

	"github.com/aretw0/bubblefx/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the calibration flow visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the calibration stages and the events that move between them.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(nil))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
