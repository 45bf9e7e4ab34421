package main

import (
	"os"

	"github.com/spf13/cobra"

	"marlin/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "marlin",
	Short: "Marlin semantic analyzer",
	Long:  `Marlin runs semantic analysis over parsed syntax trees and reports the decorated tree, symbol table and diagnostics`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("config", "", "path to marlin.toml (default: ./marlin.toml if present)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
