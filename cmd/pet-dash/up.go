package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pet-dash/internal/petapi"
	"pet-dash/internal/stack"
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Build and start the simulation stack",
	Long:  "up tears down any previous deployment, then builds and starts all stack services with docker compose.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// Engine lookup happens here, before any compose command runs.
		runner, err := stack.NewComposeRunner(cfg.Stack.ComposeFile)
		if err != nil {
			return err
		}
		client := petapi.New(cfg.BackendURL)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		b := stack.NewBootstrapper(runner, cfg, client.Reset, os.Stdout)
		return b.Up(ctx)
	},
}
