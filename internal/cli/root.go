// Package cli implements the terminal client. It drives the same view
// layer the mobile app uses, wired to an in-process platform client.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RootCmd is the base command.
var RootCmd = &cobra.Command{
	Use:   "framez [command]",
	Short: "Framez: a photo feed in your terminal",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute runs the CLI. Called once from main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
