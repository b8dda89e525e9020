// Session orchestrating scenario runs against the simulation backend
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"pet-dash/internal/logging"
	"pet-dash/internal/petapi"
)

// Backend is the slice of the PET API a session needs. *petapi.Client
// satisfies it; tests substitute fakes.
type Backend interface {
	CreateScenario(ctx context.Context, p petapi.ScenarioParameters) (string, error)
	StartRun(ctx context.Context, scenarioID string) (string, error)
	DayOutput(ctx context.Context, day int) (*petapi.DayOutput, error)
	StopRun(ctx context.Context, taskID string) error
	Reset(ctx context.Context) error
}

// Status describes a session's lifecycle.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
	StatusStopped Status = "stopped"
)

// Options tune the day-output poll loop.
type Options struct {
	PollInterval time.Duration
	MaxDays      int
	// MaxMisses ends the run after this many consecutive not-ready
	// polls once at least one day has arrived; with no days yet it
	// bounds how long the session waits for the backend to warm up.
	MaxMisses int
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = time.Second
	}
	if o.MaxDays <= 0 {
		o.MaxDays = 120
	}
	if o.MaxMisses <= 0 {
		o.MaxMisses = 30
	}
	return o
}

// Snapshot is a read-only view of a session for status endpoints.
type Snapshot struct {
	SessionID   string `json:"session_id"`
	Status      Status `json:"status"`
	ScenarioID  string `json:"scenario_id,omitempty"`
	TaskID      string `json:"task_id,omitempty"`
	Days        int    `json:"days"`
	DiseaseName string `json:"disease_name,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Session drives one scenario run: create, start, then poll day outputs
// until done, stopped, or cut off. History is safe for concurrent reads
// while the poll loop appends.
type Session struct {
	ID      string
	backend Backend
	writer  OutputWriter
	opts    Options

	mu         sync.Mutex
	history    []petapi.DayOutput
	status     Status
	scenarioID string
	taskID     string
	params     petapi.ScenarioParameters
	lastErr    error
}

// New creates an idle session.
func New(backend Backend, writer OutputWriter, opts Options) *Session {
	return &Session{
		ID:      uuid.NewString(),
		backend: backend,
		writer:  writer,
		opts:    opts.withDefaults(),
		status:  StatusIdle,
	}
}

// Run creates the scenario, starts the backend task, and polls day outputs
// until the run ends. It blocks; cancel ctx to stop early.
func (s *Session) Run(ctx context.Context, params petapi.ScenarioParameters) error {
	s.mu.Lock()
	s.status = StatusRunning
	s.params = params
	s.mu.Unlock()

	scenarioID, err := s.backend.CreateScenario(ctx, params)
	if err != nil {
		return s.fail(fmt.Errorf("create scenario: %w", err))
	}
	taskID, err := s.backend.StartRun(ctx, scenarioID)
	if err != nil {
		return s.fail(fmt.Errorf("start run: %w", err))
	}
	s.mu.Lock()
	s.scenarioID = scenarioID
	s.taskID = taskID
	s.mu.Unlock()
	logging.FromContext(ctx).Info("scenario running",
		"session", s.ID, "scenario", scenarioID, "task", taskID)

	return s.poll(ctx)
}

// Watch polls day outputs of an already-running simulation without
// creating or starting anything.
func (s *Session) Watch(ctx context.Context) error {
	s.mu.Lock()
	s.status = StatusRunning
	s.mu.Unlock()
	return s.poll(ctx)
}

func (s *Session) poll(ctx context.Context) error {
	log := logging.FromContext(ctx)
	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	day := 0
	misses := 0
	for {
		select {
		case <-ctx.Done():
			s.setStatus(StatusStopped)
			return nil
		case <-ticker.C:
		}

		out, err := s.backend.DayOutput(ctx, day)
		if err != nil {
			if ctx.Err() != nil {
				s.setStatus(StatusStopped)
				return nil
			}
			misses++
			if !errors.Is(err, petapi.ErrDayNotReady) {
				log.Warn("day poll failed", "session", s.ID, "day", day, "error", err)
			}
			if misses < s.opts.MaxMisses {
				continue
			}
			if s.Days() > 0 {
				// run finished upstream; nothing more is coming
				s.setStatus(StatusDone)
				return nil
			}
			return s.fail(fmt.Errorf("no day output after %d polls: %w", misses, err))
		}
		misses = 0

		s.mu.Lock()
		s.history = append(s.history, *out)
		s.mu.Unlock()
		if s.writer != nil {
			if werr := s.writer.WriteDay(*out); werr != nil {
				log.Warn("writer failed", "session", s.ID, "day", out.Day, "error", werr)
			}
		}

		day++
		if day >= s.opts.MaxDays {
			s.setStatus(StatusDone)
			return nil
		}
	}
}

// Stop revokes the backend task, if one was started.
func (s *Session) Stop(ctx context.Context) error {
	s.mu.Lock()
	taskID := s.taskID
	s.mu.Unlock()
	if taskID == "" {
		return nil
	}
	if err := s.backend.StopRun(ctx, taskID); err != nil {
		return fmt.Errorf("stop task %s: %w", taskID, err)
	}
	s.setStatus(StatusStopped)
	return nil
}

func (s *Session) fail(err error) error {
	s.mu.Lock()
	s.status = StatusFailed
	s.lastErr = err
	s.mu.Unlock()
	return err
}

func (s *Session) setStatus(st Status) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}

// History returns a copy of all received day outputs.
func (s *Session) History() []petapi.DayOutput {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]petapi.DayOutput, len(s.history))
	copy(out, s.history)
	return out
}

// Days returns how many day outputs have arrived.
func (s *Session) Days() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// Params returns the scenario parameters this session was started with.
func (s *Session) Params() petapi.ScenarioParameters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// State returns a point-in-time snapshot for status output.
func (s *Session) State() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		SessionID:   s.ID,
		Status:      s.status,
		ScenarioID:  s.scenarioID,
		TaskID:      s.taskID,
		Days:        len(s.history),
		DiseaseName: s.params.DiseaseName,
	}
	if s.lastErr != nil {
		snap.Error = s.lastErr.Error()
	}
	return snap
}
