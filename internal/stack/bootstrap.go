package stack

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"pet-dash/internal/config"
)

// Bootstrapper brings the full stack up into a known-clean state and
// tears it down again. It runs as a single linear sequence: failures
// before the stack is reachable are fatal, failures after (the reset
// call) are logged only.
type Bootstrapper struct {
	runner Runner
	cfg    *config.Config
	reset  func(ctx context.Context) error
	sleep  func(time.Duration)
	out    io.Writer
}

// NewBootstrapper wires a bootstrapper. reset is the backend reset call;
// it may be nil to skip the post-start reset.
func NewBootstrapper(runner Runner, cfg *config.Config, reset func(ctx context.Context) error, out io.Writer) *Bootstrapper {
	return &Bootstrapper{
		runner: runner,
		cfg:    cfg,
		reset:  reset,
		sleep:  time.Sleep,
		out:    out,
	}
}

var downArgs = []string{"down", "--volumes", "--remove-orphans"}

// Up tears down any previous deployment, builds and starts all services,
// waits a fixed settle period, issues a best-effort reset, and prints
// status and the service addresses.
func (b *Bootstrapper) Up(ctx context.Context) error {
	// previous deployment may or may not exist
	if err := b.runner.Run(ctx, downArgs...); err != nil {
		log.Printf("[Stack] pre-start teardown: %v (ignored)", err)
	}

	if err := b.runner.Run(ctx, "up", "-d", "--build"); err != nil {
		return fmt.Errorf("stack start failed: %w", err)
	}

	fmt.Fprintf(b.out, "Waiting %s for services to settle...\n", b.cfg.SettleDelay())
	b.sleep(b.cfg.SettleDelay())

	if b.reset != nil {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		if err := b.reset(ctx); err != nil {
			log.Printf("[Stack] reset call failed: %v (stack is up, continuing)", err)
		} else {
			fmt.Fprintln(b.out, "Backend state reset.")
		}
		cancel()
	}

	b.printStatus(ctx)
	return nil
}

// Down stops and removes all containers and volumes. Safe to invoke when
// nothing is running.
func (b *Bootstrapper) Down(ctx context.Context) error {
	if err := b.runner.Run(ctx, downArgs...); err != nil {
		return fmt.Errorf("stack teardown failed: %w", err)
	}
	fmt.Fprintln(b.out, "Stack stopped.")
	return nil
}

func (b *Bootstrapper) printStatus(ctx context.Context) {
	if ps, err := b.runner.Output(ctx, "ps"); err == nil {
		fmt.Fprint(b.out, ps)
	} else {
		log.Printf("[Stack] status query failed: %v", err)
	}
	fmt.Fprintf(b.out, "Frontend: %s\n", b.cfg.FrontendAddr())
	fmt.Fprintf(b.out, "Backend:  %s\n", b.cfg.BackendAddr())
}
