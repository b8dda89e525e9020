package stack

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"pet-dash/internal/config"
)

// fakeRunner records compose invocations and fails selected subcommands.
type fakeRunner struct {
	calls  [][]string
	failOn string
	psText string
}

func (r *fakeRunner) Run(_ context.Context, args ...string) error {
	r.calls = append(r.calls, args)
	if r.failOn != "" && args[0] == r.failOn {
		return errors.New(r.failOn + " failed")
	}
	return nil
}

func (r *fakeRunner) Output(_ context.Context, args ...string) (string, error) {
	r.calls = append(r.calls, args)
	return r.psText, nil
}

func newTestBootstrapper(runner Runner, reset func(context.Context) error) (*Bootstrapper, *bytes.Buffer) {
	cfg := config.Default()
	cfg.Stack.SettleSecs = 0
	var out bytes.Buffer
	b := NewBootstrapper(runner, cfg, reset, &out)
	return b, &out
}

func TestUp_TeardownBeforeStart(t *testing.T) {
	runner := &fakeRunner{}
	b, _ := newTestBootstrapper(runner, nil)

	if err := b.Up(context.Background()); err != nil {
		t.Fatalf("Up failed: %v", err)
	}
	if len(runner.calls) < 2 {
		t.Fatalf("expected at least down+up, got %v", runner.calls)
	}
	if runner.calls[0][0] != "down" {
		t.Errorf("first call must be teardown, got %v", runner.calls[0])
	}
	if runner.calls[1][0] != "up" {
		t.Errorf("second call must be up, got %v", runner.calls[1])
	}
}

func TestUp_IgnoresTeardownFailure(t *testing.T) {
	runner := &fakeRunner{failOn: "down"}
	b, _ := newTestBootstrapper(runner, nil)

	if err := b.Up(context.Background()); err != nil {
		t.Fatalf("teardown failure must not abort startup: %v", err)
	}
}

func TestUp_StartFailureIsFatalAndSkipsSettleAndReset(t *testing.T) {
	runner := &fakeRunner{failOn: "up"}
	resetCalls := 0
	b, _ := newTestBootstrapper(runner, func(context.Context) error {
		resetCalls++
		return nil
	})
	slept := false
	b.sleep = func(time.Duration) { slept = true }

	if err := b.Up(context.Background()); err == nil {
		t.Fatal("expected error when up fails")
	}
	if slept {
		t.Error("settle wait must not run after a failed start")
	}
	if resetCalls != 0 {
		t.Error("reset must not be attempted after a failed start")
	}
}

func TestUp_ResetAttemptedExactlyOnce(t *testing.T) {
	runner := &fakeRunner{}
	resetCalls := 0
	b, _ := newTestBootstrapper(runner, func(context.Context) error {
		resetCalls++
		return nil
	})
	if err := b.Up(context.Background()); err != nil {
		t.Fatalf("Up failed: %v", err)
	}
	if resetCalls != 1 {
		t.Errorf("expected exactly one reset attempt, got %d", resetCalls)
	}
}

func TestUp_ResetFailureIsNonFatal(t *testing.T) {
	runner := &fakeRunner{}
	b, _ := newTestBootstrapper(runner, func(context.Context) error {
		return errors.New("backend not ready")
	})
	if err := b.Up(context.Background()); err != nil {
		t.Fatalf("reset failure must not change the exit status: %v", err)
	}
}

func TestUp_ReportsFixedAddresses(t *testing.T) {
	runner := &fakeRunner{psText: "NAME STATUS\nbackend running\n"}
	b, out := newTestBootstrapper(runner, nil)
	if err := b.Up(context.Background()); err != nil {
		t.Fatalf("Up failed: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "http://localhost:8050") {
		t.Errorf("frontend address missing from status output:\n%s", text)
	}
	if !strings.Contains(text, "http://localhost:8000") {
		t.Errorf("backend address missing from status output:\n%s", text)
	}
	if !strings.Contains(text, "backend running") {
		t.Errorf("service status missing from output:\n%s", text)
	}
}

func TestDown_IdempotentWhenNothingRuns(t *testing.T) {
	runner := &fakeRunner{}
	b, _ := newTestBootstrapper(runner, nil)
	if err := b.Down(context.Background()); err != nil {
		t.Fatalf("Down on empty stack failed: %v", err)
	}
	if err := b.Down(context.Background()); err != nil {
		t.Fatalf("second Down failed: %v", err)
	}
	for _, c := range runner.calls {
		if c[0] != "down" {
			t.Errorf("unexpected call: %v", c)
		}
	}
}

func TestDown_RemovesVolumes(t *testing.T) {
	runner := &fakeRunner{}
	b, _ := newTestBootstrapper(runner, nil)
	if err := b.Down(context.Background()); err != nil {
		t.Fatal(err)
	}
	joined := strings.Join(runner.calls[0], " ")
	if !strings.Contains(joined, "--volumes") {
		t.Errorf("teardown must remove volumes: %v", runner.calls[0])
	}
}
