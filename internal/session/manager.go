package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"pet-dash/internal/petapi"
)

const stopTimeout = 10 * time.Second

// Manager owns at most one active session at a time on behalf of the web
// dashboard.
type Manager struct {
	backend Backend
	writer  OutputWriter
	opts    Options

	mu     sync.Mutex
	cur    *Session
	cancel context.CancelFunc
}

// NewManager returns a manager with no active session. writer may be nil.
func NewManager(backend Backend, writer OutputWriter, opts Options) *Manager {
	return &Manager{backend: backend, writer: writer, opts: opts}
}

// Start launches a new run. It fails if a run is already in progress.
func (m *Manager) Start(params petapi.ScenarioParameters) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cur != nil && m.cur.State().Status == StatusRunning {
		return "", fmt.Errorf("a simulation is already running (session %s)", m.cur.ID)
	}
	s := New(m.backend, m.writer, m.opts)
	ctx, cancel := context.WithCancel(context.Background())
	m.cur = s
	m.cancel = cancel
	go func() {
		if err := s.Run(ctx, params); err != nil {
			log.Printf("[Manager] session %s ended with error: %v", s.ID, err)
		}
		cancel()
	}()
	return s.ID, nil
}

// Stop cancels the poll loop and revokes the backend task.
func (m *Manager) Stop() error {
	m.mu.Lock()
	cur := m.cur
	cancel := m.cancel
	m.mu.Unlock()
	if cur == nil {
		return nil
	}
	if cancel != nil {
		cancel()
	}
	ctx, done := context.WithTimeout(context.Background(), stopTimeout)
	defer done()
	return cur.Stop(ctx)
}

// Reset stops any active run and clears backend state.
func (m *Manager) Reset(ctx context.Context) error {
	if err := m.Stop(); err != nil {
		log.Printf("[Manager] stop before reset failed: %v", err)
	}
	m.mu.Lock()
	m.cur = nil
	m.cancel = nil
	m.mu.Unlock()
	return m.backend.Reset(ctx)
}

// Current returns the active or most recent session, which may be nil.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cur
}

// State returns the current session snapshot, or an idle one.
func (m *Manager) State() Snapshot {
	if s := m.Current(); s != nil {
		return s.State()
	}
	return Snapshot{Status: StatusIdle}
}

// History returns the current session's day outputs, or nil.
func (m *Manager) History() []petapi.DayOutput {
	if s := m.Current(); s != nil {
		return s.History()
	}
	return nil
}
