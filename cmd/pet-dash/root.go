package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pet-dash/internal/config"
)

var (
	configPath string
	schemaPath string
)

var rootCmd = &cobra.Command{
	Use:   "pet-dash",
	Short: "Pandemic exercise dashboard toolkit",
	Long:  "pet-dash manages the pandemic exercise tool stack and visualizes SEATIRD simulation output.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/pet-dash.yaml", "Path to configuration YAML")
	rootCmd.PersistentFlags().StringVar(&schemaPath, "schema", "schemas/pet-dash.cue", "Path to CUE schema file")
	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(downCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(replayCmd)
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath, schemaPath)
}
