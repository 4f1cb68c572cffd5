package table

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSessionNotFound is returned for unknown or already-evicted session ids.
var ErrSessionNotFound = errors.New("table session not found")

type sessionEntry struct {
	ctrl     *Controller
	lastSeen time.Time
}

// Manager tracks live table sessions, one per open dashboard page, and evicts
// the ones that go idle.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry

	mut      Mutator
	pageSize int
	log      *zap.Logger
	now      func() time.Time
}

// NewManager wires a session registry around the shared mutation coordinator.
func NewManager(mut Mutator, pageSize int, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		sessions: make(map[string]*sessionEntry),
		mut:      mut,
		pageSize: pageSize,
		log:      log,
		now:      time.Now,
	}
}

// Create builds a new session and runs its initial load. A failed load still
// yields a usable (empty) session; the notice travels in its first view.
func (m *Manager) Create(ctx context.Context) (string, *Controller) {
	id := uuid.NewString()
	ctrl := NewController(m.mut, m.pageSize, m.log.Named("session"))

	// Load before registering so no reader can observe a half-loaded view.
	_ = ctrl.Load(ctx)

	m.mu.Lock()
	m.sessions[id] = &sessionEntry{ctrl: ctrl, lastSeen: m.now()}
	m.mu.Unlock()

	m.log.Info("table session created", zap.String("session_id", id))
	return id, ctrl
}

// Get resolves a session id and refreshes its idle clock.
func (m *Manager) Get(id string) (*Controller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	entry.lastSeen = m.now()
	return entry.ctrl, nil
}

// Remove tears a session down explicitly.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	entry, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	entry.ctrl.Close()
	m.log.Info("table session closed", zap.String("session_id", id))
	return nil
}

// SweepIdle evicts sessions untouched for longer than ttl and reports how
// many were closed.
func (m *Manager) SweepIdle(ttl time.Duration) int {
	cutoff := m.now().Add(-ttl)

	m.mu.Lock()
	var evicted []*sessionEntry
	for id, entry := range m.sessions {
		if entry.lastSeen.Before(cutoff) {
			evicted = append(evicted, entry)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, entry := range evicted {
		entry.ctrl.Close()
	}
	if len(evicted) > 0 {
		m.log.Info("idle table sessions evicted", zap.Int("count", len(evicted)))
	}
	return len(evicted)
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
