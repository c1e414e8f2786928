// Package cli implements the EcoSnap command-line interface using Cobra.
// Each subcommand maps to one core capability (snap, logs, stats, etc.).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ecosnap",
	Short: "EcoSnap — Track your eco-friendly actions",
	Long: `EcoSnap is a local-first tracker for everyday eco actions.
Log what you did, watch your streak grow, and earn badges along the way.
All data stays on your machine.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
