package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"pet-dash/internal/petapi"
)

// fakeBackend serves a fixed number of precomputed days.
type fakeBackend struct {
	mu         sync.Mutex
	days       []petapi.DayOutput
	available  int
	created    []petapi.ScenarioParameters
	runs       []string
	stopped    []string
	resets     int
	createErr  error
	startErr   error
	scenarioID string
}

func (f *fakeBackend) CreateScenario(_ context.Context, p petapi.ScenarioParameters) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, p)
	if f.scenarioID == "" {
		f.scenarioID = "1"
	}
	return f.scenarioID, nil
}

func (f *fakeBackend) StartRun(_ context.Context, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return "", f.startErr
	}
	f.runs = append(f.runs, id)
	return "task-1", nil
}

func (f *fakeBackend) DayOutput(_ context.Context, day int) (*petapi.DayOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if day >= f.available || day >= len(f.days) {
		return nil, petapi.ErrDayNotReady
	}
	d := f.days[day]
	return &d, nil
}

func (f *fakeBackend) StopRun(_ context.Context, taskID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = append(f.stopped, taskID)
	return nil
}

func (f *fakeBackend) Reset(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets++
	return nil
}

// MockWriter collects day outputs for validation.
type MockWriter struct {
	mu   sync.Mutex
	Days []petapi.DayOutput
}

func (w *MockWriter) WriteDay(d petapi.DayOutput) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Days = append(w.Days, d)
	return nil
}

func (w *MockWriter) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.Days)
}

func makeDays(n int) []petapi.DayOutput {
	days := make([]petapi.DayOutput, n)
	for i := range days {
		days[i] = petapi.DayOutput{Day: i, TotalInfected: float64(100 * (i + 1))}
	}
	return days
}

func fastOpts(maxDays, maxMisses int) Options {
	return Options{PollInterval: time.Millisecond, MaxDays: maxDays, MaxMisses: maxMisses}
}

func TestSession_RunCollectsAllDays(t *testing.T) {
	backend := &fakeBackend{days: makeDays(3), available: 3}
	writer := &MockWriter{}
	s := New(backend, writer, fastOpts(3, 5))

	if err := s.Run(context.Background(), petapi.ScenarioParameters{DiseaseName: "X"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := s.Days(); got != 3 {
		t.Errorf("expected 3 days in history, got %d", got)
	}
	if writer.Len() != 3 {
		t.Errorf("expected 3 days written, got %d", writer.Len())
	}
	if len(backend.created) != 1 || len(backend.runs) != 1 {
		t.Errorf("expected one create and one run, got %d/%d", len(backend.created), len(backend.runs))
	}
	if st := s.State(); st.Status != StatusDone || st.TaskID != "task-1" {
		t.Errorf("unexpected final state: %+v", st)
	}
}

func TestSession_EndsAfterConsecutiveMisses(t *testing.T) {
	// only 2 of 10 days ever become available
	backend := &fakeBackend{days: makeDays(2), available: 2}
	s := New(backend, &MockWriter{}, fastOpts(10, 3))

	if err := s.Run(context.Background(), petapi.ScenarioParameters{}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := s.Days(); got != 2 {
		t.Errorf("expected 2 days, got %d", got)
	}
	if st := s.State().Status; st != StatusDone {
		t.Errorf("expected done after miss cutoff, got %s", st)
	}
}

func TestSession_FailsWhenBackendNeverProduces(t *testing.T) {
	backend := &fakeBackend{}
	s := New(backend, nil, fastOpts(10, 3))

	if err := s.Run(context.Background(), petapi.ScenarioParameters{}); err == nil {
		t.Fatal("expected error when no day output ever arrives")
	}
	if st := s.State().Status; st != StatusFailed {
		t.Errorf("expected failed state, got %s", st)
	}
}

func TestSession_CreateFailureDoesNotStartRun(t *testing.T) {
	backend := &fakeBackend{createErr: context.DeadlineExceeded}
	s := New(backend, nil, fastOpts(10, 3))

	if err := s.Run(context.Background(), petapi.ScenarioParameters{}); err == nil {
		t.Fatal("expected create error")
	}
	if len(backend.runs) != 0 {
		t.Error("run must not be started when scenario creation fails")
	}
}

func TestSession_CancelStopsPolling(t *testing.T) {
	backend := &fakeBackend{days: makeDays(100), available: 0}
	s := New(backend, nil, fastOpts(100, 1000))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, petapi.ScenarioParameters{}) }()
	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("cancel should end run cleanly, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop after cancel")
	}
	if st := s.State().Status; st != StatusStopped {
		t.Errorf("expected stopped state, got %s", st)
	}
}

func TestSession_WatchDoesNotCreateScenario(t *testing.T) {
	backend := &fakeBackend{days: makeDays(2), available: 2}
	s := New(backend, nil, fastOpts(2, 3))

	if err := s.Watch(context.Background()); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	if len(backend.created) != 0 || len(backend.runs) != 0 {
		t.Error("watch must not create or start scenarios")
	}
	if got := s.Days(); got != 2 {
		t.Errorf("expected 2 days, got %d", got)
	}
}

func TestSession_StopRevokesTask(t *testing.T) {
	backend := &fakeBackend{days: makeDays(1), available: 1}
	s := New(backend, nil, fastOpts(1, 3))
	if err := s.Run(context.Background(), petapi.ScenarioParameters{}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if len(backend.stopped) != 1 || backend.stopped[0] != "task-1" {
		t.Errorf("expected task-1 revoked, got %v", backend.stopped)
	}
}
