// Container-stack orchestration over the docker compose CLI
package stack

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ErrEngineMissing reports that no container engine CLI was found. The
// caller must exit before any side effect.
var ErrEngineMissing = errors.New("docker CLI not found in PATH")

// Runner executes container-engine commands for one compose project.
type Runner interface {
	// Run executes a compose subcommand, streaming output to the
	// configured writers.
	Run(ctx context.Context, args ...string) error
	// Output executes a compose subcommand and captures stdout.
	Output(ctx context.Context, args ...string) (string, error)
}

// ComposeRunner shells out to `docker compose`.
type ComposeRunner struct {
	bin         string
	composeFile string
	stdout      io.Writer
	stderr      io.Writer
}

// NewComposeRunner verifies the docker CLI exists and returns a runner
// bound to composeFile.
func NewComposeRunner(composeFile string) (*ComposeRunner, error) {
	bin, err := exec.LookPath("docker")
	if err != nil {
		return nil, ErrEngineMissing
	}
	return &ComposeRunner{
		bin:         bin,
		composeFile: composeFile,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
	}, nil
}

func (r *ComposeRunner) args(sub []string) []string {
	base := []string{"compose"}
	if r.composeFile != "" {
		base = append(base, "-f", r.composeFile)
	}
	return append(base, sub...)
}

// Run implements Runner.
func (r *ComposeRunner) Run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, r.bin, r.args(args)...)
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("docker compose %s: %w", strings.Join(args, " "), err)
	}
	return nil
}

// Output implements Runner.
func (r *ComposeRunner) Output(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, r.bin, r.args(args)...)
	cmd.Stderr = r.stderr
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("docker compose %s: %w", strings.Join(args, " "), err)
	}
	return string(out), nil
}
