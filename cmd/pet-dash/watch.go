package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"pet-dash/internal/counties"
	"pet-dash/internal/logging"
	"pet-dash/internal/petapi"
	"pet-dash/internal/scenario"
	"pet-dash/internal/session"
)

var (
	watchPreset    string
	watchCounty    string
	watchCases     int
	watchAgeGroup  string
	watchNPI       string
	watchAttach    bool
	watchPrintOnly bool
	watchLogFile   string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run a scenario and watch it in the terminal",
	Long:  "watch launches a simulation against the running backend and renders per-day output in a terminal dashboard.",
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
		preset, ok := catalog.Get(watchPreset)
		if !ok {
			return fmt.Errorf("unknown preset %q", watchPreset)
		}
		if _, ok := reg.Get(watchCounty); !ok && !counties.ValidFIPS(watchCounty) {
			return fmt.Errorf("unknown county FIPS %q", watchCounty)
		}

		initial := []petapi.InitialInfection{{
			FIPS:     watchCounty,
			Cases:    watchCases,
			AgeGroup: scenario.AgeGroupIndex(watchAgeGroup),
		}}
		var npis []petapi.NPI
		if watchNPI != "" {
			npis = append(npis, petapi.NPI{
				Name:          watchNPI,
				Effectiveness: scenario.DefaultNPIEffectiveness,
				StartDay:      scenario.DefaultNPIStartDay,
				Duration:      scenario.DefaultNPIDurationDays,
			})
		}
		params := preset.Parameters(initial, npis)

		client := petapi.New(cfg.BackendURL)
		opts := session.Options{
			PollInterval: cfg.PollInterval(),
			MaxDays:      cfg.Polling.MaxDays,
			MaxMisses:    cfg.Polling.MaxMisses,
		}
		runID := uuid.NewString()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if watchPrintOnly {
			ctx = logging.NewContext(ctx, logging.New())
			writer, cleanup, err := newWriters(true, watchLogFile, runID, preset.DiseaseName)
			if err != nil {
				return err
			}
			defer cleanup()
			return runSession(ctx, client, writer, opts, runID, params)
		}

		// Keep slog output away from the alternate screen; the TUI
		// shows its own log pane.
		ctx = logging.NewContext(ctx, slog.New(slog.DiscardHandler))

		tui := session.NewTUIWriter(reg)
		writers := []session.OutputWriter{tui}
		cleanup := func() {}
		if os.Getenv("GREPTIMEDB_ENDPOINT") != "" {
			gw, err := session.NewGreptimeWriter(os.Getenv("GREPTIMEDB_ENDPOINT"), greptimeDatabase(), runID, preset.DiseaseName)
			if err != nil {
				tui.Close()
				return err
			}
			writers = append(writers, gw)
		}
		if watchLogFile != "" {
			fw, err := session.NewFileWriter(watchLogFile)
			if err != nil {
				tui.Close()
				return err
			}
			cleanup = func() { fw.Close() }
			writers = append(writers, fw)
		}
		defer cleanup()

		s := session.New(client, session.NewMultiWriter(writers...), opts)
		s.ID = runID

		runErr := make(chan error, 1)
		go func() {
			if watchAttach {
				runErr <- s.Watch(ctx)
			} else {
				runErr <- s.Run(ctx, params)
			}
		}()

		// Push status updates into the TUI until the run settles, then
		// leave the dashboard up until the user quits.
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				tui.WriteStatus(s.State())
			case err := <-runErr:
				tui.WriteStatus(s.State())
				<-ctx.Done()
				tui.Close()
				return err
			case <-ctx.Done():
				tui.Close()
				return nil
			}
		}
	},
}

func greptimeDatabase() string {
	if db := os.Getenv("GREPTIMEDB_DATABASE"); db != "" {
		return db
	}
	return "public"
}

// runSession drives one scenario without the TUI.
func runSession(ctx context.Context, client *petapi.Client, writer session.OutputWriter, opts session.Options, runID string, params petapi.ScenarioParameters) error {
	s := session.New(client, writer, opts)
	s.ID = runID
	if watchAttach {
		return s.Watch(ctx)
	}
	return s.Run(ctx, params)
}

func init() {
	watchCmd.Flags().StringVar(&watchPreset, "preset", "slow_mild_2009", "Scenario preset key")
	watchCmd.Flags().StringVar(&watchCounty, "county", "48453", "FIPS code of the initially infected county")
	watchCmd.Flags().IntVar(&watchCases, "cases", 100, "Initial case count")
	watchCmd.Flags().StringVar(&watchAgeGroup, "age-group", "25-49 years", "Age band of the initial cases")
	watchCmd.Flags().StringVar(&watchNPI, "npi", "", "Apply a named NPI with default timing (e.g. school_closure)")
	watchCmd.Flags().BoolVar(&watchAttach, "attach", false, "Poll an already running simulation instead of starting one")
	watchCmd.Flags().BoolVar(&watchPrintOnly, "print-only", false, "Stream day outputs to STDOUT instead of the TUI")
	watchCmd.Flags().StringVar(&watchLogFile, "log-file", "", "Path to export day outputs (JSONL)")
}
