package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "0.1.0" // Overridden at build time with -ldflags

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of attendance-cli",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "attendance-cli v%s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
