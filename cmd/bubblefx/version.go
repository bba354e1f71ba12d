package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/bubblefx"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of bubblefx",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "bubblefx version %s\n", strings.TrimSpace(bubblefx.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
