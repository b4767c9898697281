package state

import (
	"sync"
	"time"

	"github.com/fernlabs/fern/internal/bus"
)

// StatusSnapshot is the busy/error state of one feature. An empty Error
// means none.
type StatusSnapshot struct {
	Loading bool
	Error   string
}

// Status is the cross-cutting map from feature to {loading, error}.
// Every mutation is an unconditional overwrite: concurrent operations
// on the same feature share the slot and the last write wins. Each
// mutation publishes "status.<feature>" with the new snapshot.
type Status struct {
	mu    sync.RWMutex
	slots map[Feature]StatusSnapshot
	bus   *bus.Bus
}

// NewStatus creates a status store with one clear slot per feature.
func NewStatus(b *bus.Bus) *Status {
	slots := make(map[Feature]StatusSnapshot, len(Features()))
	for _, f := range Features() {
		slots[f] = StatusSnapshot{}
	}
	return &Status{slots: slots, bus: b}
}

// SetLoading overwrites the loading flag for a feature.
func (s *Status) SetLoading(f Feature, loading bool) {
	s.mu.Lock()
	slot := s.slots[f]
	slot.Loading = loading
	s.slots[f] = slot
	s.mu.Unlock()
	s.publish(f, slot)
}

// SetError overwrites the error message for a feature.
func (s *Status) SetError(f Feature, msg string) {
	s.mu.Lock()
	slot := s.slots[f]
	slot.Error = msg
	s.slots[f] = slot
	s.mu.Unlock()
	s.publish(f, slot)
}

// ClearError resets the error slot. Errors are cleared only by the next
// success on the same feature or by this explicit call from a user
// interaction, never by a timer.
func (s *Status) ClearError(f Feature) {
	s.SetError(f, "")
}

// Succeed marks an operation settled without error: loading off, error
// cleared, in one slot write.
func (s *Status) Succeed(f Feature) {
	s.mu.Lock()
	slot := StatusSnapshot{}
	s.slots[f] = slot
	s.mu.Unlock()
	s.publish(f, slot)
}

// Fail marks an operation settled with a message: loading off, error
// set, in one slot write.
func (s *Status) Fail(f Feature, msg string) {
	s.mu.Lock()
	slot := StatusSnapshot{Error: msg}
	s.slots[f] = slot
	s.mu.Unlock()
	s.publish(f, slot)
}

// Snapshot returns the current slot for a feature.
func (s *Status) Snapshot(f Feature) StatusSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slots[f]
}

func (s *Status) publish(f Feature, slot StatusSnapshot) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(bus.Event{
		Kind:      "status." + string(f),
		Timestamp: time.Now(),
		Payload:   slot,
	})
}
