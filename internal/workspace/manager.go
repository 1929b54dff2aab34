package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"lpmanager/internal/metrics"
	"lpmanager/internal/store"
)

// DefaultIdleTimeout is how long an unused workspace stays in memory.
const DefaultIdleTimeout = 2 * time.Hour

// ErrNoSession is returned for an empty session id.
var ErrNoSession = errors.New("no session id")

// Persister stores serialized workspaces outside the process. Load returns
// nil, nil for an unknown id.
type Persister interface {
	Load(ctx context.Context, id string) ([]byte, error)
	Save(ctx context.Context, id string, data []byte) error
	Delete(ctx context.Context, id string) error
}

// Options configure a Manager.
type Options struct {
	// Persister is optional; without it workspaces live in memory only.
	Persister Persister
	// Seed fills new workspaces with the sample templates.
	Seed        bool
	IdleTimeout time.Duration
}

// Manager hands out workspaces by session id.
type Manager struct {
	mu         sync.Mutex
	workspaces map[string]*Workspace
	persister  Persister
	seed       bool
	idle       time.Duration
	now        func() time.Time
}

// NewManager creates an empty Manager.
func NewManager(opts Options) *Manager {
	idle := opts.IdleTimeout
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &Manager{
		workspaces: make(map[string]*Workspace),
		persister:  opts.Persister,
		seed:       opts.Seed,
		idle:       idle,
		now:        time.Now,
	}
}

// Get returns the workspace of a session, creating it on first use. A
// workspace evicted from memory is rehydrated from the persister.
func (m *Manager) Get(ctx context.Context, id string) (*Workspace, error) {
	if id == "" {
		return nil, ErrNoSession
	}
	if w := m.lookup(id); w != nil {
		return w, nil
	}

	w, err := m.create(ctx, id)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.workspaces[id]; ok {
		// Another request created it while we were loading.
		existing.lastUsed = m.now()
		return existing, nil
	}
	w.lastUsed = m.now()
	m.workspaces[id] = w
	metrics.SetWorkspaces(len(m.workspaces))
	return w, nil
}

func (m *Manager) lookup(id string) *Workspace {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.workspaces[id]
	if ok {
		w.lastUsed = m.now()
	}
	return w
}

func (m *Manager) create(ctx context.Context, id string) (*Workspace, error) {
	w := newWorkspace(id)
	if m.persister != nil {
		data, err := m.persister.Load(ctx, id)
		if err != nil {
			slog.Warn("workspace load failed, starting empty", "session", shortID(id), "error", err)
		} else if data != nil {
			if err := w.unmarshal(data); err != nil {
				slog.Warn("workspace restore failed, starting empty", "session", shortID(id), "error", err)
				w = newWorkspace(id)
			} else {
				slog.Debug("workspace rehydrated", "session", shortID(id), "templates", w.Templates.Count())
				return w, nil
			}
		}
	}
	if m.seed {
		if err := store.Seed(w.Templates); err != nil {
			return nil, fmt.Errorf("seed workspace: %w", err)
		}
	}
	return w, nil
}

// Update runs fn inside the workspace lock and persists the workspace when
// fn succeeds.
func (m *Manager) Update(ctx context.Context, id string, fn func(*Workspace) error) error {
	w, err := m.Get(ctx, id)
	if err != nil {
		return err
	}
	return w.Do(func(w *Workspace) error {
		if err := fn(w); err != nil {
			return err
		}
		return m.save(ctx, w)
	})
}

func (m *Manager) save(ctx context.Context, w *Workspace) error {
	if m.persister == nil {
		return nil
	}
	data, err := w.marshal()
	if err != nil {
		return err
	}
	if err := m.persister.Save(ctx, w.ID, data); err != nil {
		// The in-memory workspace is still authoritative.
		slog.Warn("workspace save failed", "session", shortID(w.ID), "error", err)
	}
	return nil
}

// Discard drops a workspace from memory and from the persister.
func (m *Manager) Discard(ctx context.Context, id string) {
	m.mu.Lock()
	delete(m.workspaces, id)
	metrics.SetWorkspaces(len(m.workspaces))
	m.mu.Unlock()

	if m.persister != nil {
		if err := m.persister.Delete(ctx, id); err != nil {
			slog.Warn("workspace delete failed", "session", shortID(id), "error", err)
		}
	}
}

// Len returns the number of workspaces held in memory.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.workspaces)
}

// EvictIdle drops workspaces unused for longer than the idle timeout and
// returns how many were dropped. Persisted copies are kept.
func (m *Manager) EvictIdle() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := m.now().Add(-m.idle)
	n := 0
	for id, w := range m.workspaces {
		if w.lastUsed.Before(cutoff) {
			delete(m.workspaces, id)
			n++
		}
	}
	if n > 0 {
		slog.Info("idle workspaces evicted", "count", n, "remaining", len(m.workspaces))
	}
	metrics.SetWorkspaces(len(m.workspaces))
	return n
}

// Run evicts idle workspaces every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.EvictIdle()
		}
	}
}

// shortID keeps session ids out of logs.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
