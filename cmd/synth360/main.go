// Package main provides the entry point for the synth360 pipeline tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/synthlab/synth360/version"
)

// Main entry point for the synth360 tool
func main() {
	rootCmd := &cobra.Command{
		Use:   "synth360",
		Short: "synth360 generates synthetic APJ customer datasets",
		Long: `synth360 synthesizes internally consistent customer records for the
APJ market, delivers them in chunks to an analytical store via ADBC,
and validates the loaded table against the generated dataset.`,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of synth360",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("synth360 v" + version.Version)
		},
	})

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newPingCommand())
	rootCmd.AddCommand(newServeCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
