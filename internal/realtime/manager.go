package realtime

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/fernlabs/fern/internal/bus"
	"github.com/fernlabs/fern/internal/state"
)

// Manager holds at most one live bridge and swaps it on session
// transitions: a login replaces any existing connection, a logout
// drops it.
type Manager struct {
	url   string
	store *state.Store
	log   *zap.Logger

	mu     sync.Mutex
	bridge *Bridge
}

func NewManager(url string, store *state.Store, log *zap.Logger) *Manager {
	return &Manager{url: url, store: store, log: log}
}

// Start connects for the given user, tearing down any previous
// connection first. Connection failures are logged, not fatal: the
// client stays usable without typing indicators.
func (m *Manager) Start(ctx context.Context, userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.bridge != nil {
		m.bridge.Close()
		m.bridge = nil
	}

	b, err := connect(ctx, m.url, userID, m.store, m.log)
	if err != nil {
		m.log.Warn("realtime connect failed", zap.String("url", m.url), zap.Error(err))
		return
	}
	m.bridge = b
	m.log.Info("realtime connected", zap.String("user_id", userID))
}

// Stop drops the live connection, if any.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.bridge != nil {
		m.bridge.Close()
		m.bridge = nil
	}
}

// Watch subscribes to session transitions and drives the connection
// lifecycle until ctx is cancelled. Runs on its own goroutine.
func (m *Manager) Watch(ctx context.Context) {
	ch, unsub := m.store.Bus().Subscribe("auth.", 16)
	go func() {
		defer unsub()
		for {
			select {
			case <-ctx.Done():
				m.Stop()
				return
			case evt, ok := <-ch:
				if !ok {
					return
				}
				switch evt.Kind {
				case bus.KindLoggedIn:
					if started, ok := evt.Payload.(bus.SessionStarted); ok {
						m.Start(ctx, started.UserID)
					}
				case bus.KindLoggedOut:
					m.Stop()
				}
			}
		}
	}()
}
