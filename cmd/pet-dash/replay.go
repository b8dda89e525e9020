package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"pet-dash/internal/session"
)

var (
	replayInput     string
	replayDelay     time.Duration
	replayPrintOnly bool
	replayDisease   string
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a day-output log file",
	Long:  "replay feeds recorded day outputs from a JSONL log back into GreptimeDB or STDOUT.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		writer, cleanup, err := newWriters(replayPrintOnly, "", uuid.NewString(), replayDisease)
		if err != nil {
			return err
		}
		defer cleanup()
		return session.ReplayLogFile(replayInput, writer, replayDelay)
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to day-output log file")
	replayCmd.Flags().DurationVar(&replayDelay, "delay", 200*time.Millisecond, "Delay between replayed days")
	replayCmd.Flags().BoolVar(&replayPrintOnly, "print-only", false, "Print day outputs to STDOUT instead of writing to DB")
	replayCmd.Flags().StringVar(&replayDisease, "disease", "replay", "Disease label for the GreptimeDB sink")
	replayCmd.MarkFlagRequired("input")
}
