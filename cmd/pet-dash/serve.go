package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pet-dash/internal/counties"
	"pet-dash/internal/dashboard"
	"pet-dash/internal/petapi"
	"pet-dash/internal/scenario"
	"pet-dash/internal/session"
)

var (
	servePrintOnly bool
	serveLogFile   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web dashboard",
	Long:  "serve starts the browser dashboard for launching simulations and viewing per-day SEATIRD output.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		reg, err := counties.Load()
		if err != nil {
			return err
		}
		catalog, err := scenario.Load(cfg.PresetsFile)
		if err != nil {
			return err
		}

		// Writers here are an optional export; the per-run GreptimeDB
		// sink belongs to watch and replay.
		var writer session.OutputWriter
		cleanup := func() {}
		if servePrintOnly || serveLogFile != "" {
			writer, cleanup, err = newWriters(true, serveLogFile, "", "")
			if err != nil {
				return err
			}
		}
		defer cleanup()

		client := petapi.New(cfg.BackendURL)
		mgr := session.NewManager(client, writer, session.Options{
			PollInterval: cfg.PollInterval(),
			MaxDays:      cfg.Polling.MaxDays,
			MaxMisses:    cfg.Polling.MaxMisses,
		})

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := dashboard.NewServer(mgr, reg, catalog)
		errCh := make(chan error, 1)
		go func() {
			log.Printf("[Main] Dashboard listening on %s", cfg.FrontendAddr())
			errCh <- srv.Start(ctx, fmt.Sprintf(":%d", cfg.Stack.FrontendPort))
		}()

		select {
		case <-ctx.Done():
		case err := <-errCh:
			if err != nil && err != http.ErrServerClosed {
				return err
			}
		}
		log.Println("[Main] Dashboard stopped.")
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&servePrintOnly, "print-only", false, "Print day outputs to STDOUT as they arrive")
	serveCmd.Flags().StringVar(&serveLogFile, "log-file", "", "Path to export day outputs (JSONL)")
}
