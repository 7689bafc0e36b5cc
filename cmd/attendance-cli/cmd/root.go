package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "attendance-cli",
	Short: "Attendance check from the command line",
	Long: `attendance-cli records attendance against the attendance backend
without going through the browser form.

Available commands:
  check      Log in and mark attendance for a session
  version    Print the version

Use "attendance-cli [command] --help" for more information about a specific command.`,
	SilenceUsage: true,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
