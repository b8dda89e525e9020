package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pet-dash/internal/stack"
)

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Tear down the simulation stack",
	Long:  "down stops all stack services and removes their containers and volumes.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		runner, err := stack.NewComposeRunner(cfg.Stack.ComposeFile)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		b := stack.NewBootstrapper(runner, cfg, nil, os.Stdout)
		return b.Down(ctx)
	},
}
