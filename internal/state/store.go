package state

import (
	"sync"
	"time"

	"github.com/fernlabs/fern/internal/bus"
)

// Collection is a server-mirrored page of entities. List fetches replace
// it wholesale; there is no client-side merge or cache invalidation.
// Snapshots returned by the getters are frozen: reducers replace Items
// with a fresh slice instead of writing through the shared backing
// array, so holders may read them off the store's lock.
type Collection[T any] struct {
	Items []T
	Total int
	Page  int
	Limit int
}

// Store owns every domain slice plus the status slots. All mutation
// goes through the reducer methods in the per-feature files; views and
// operations never touch fields directly.
type Store struct {
	mu     sync.RWMutex
	bus    *bus.Bus
	status *Status

	auth        authState
	cycles      cyclesState
	medications medicationsState
	chat        chatState
	partner     partnerState
	community   communityState
}

// New creates an empty store publishing on b.
func New(b *bus.Bus) *Store {
	return &Store{
		bus:    b,
		status: NewStatus(b),
		chat:   chatState{typing: make(map[string]bool)},
	}
}

// Status returns the shared status slots.
func (s *Store) Status() *Status {
	return s.status
}

// Bus returns the event bus the store publishes on.
func (s *Store) Bus() *bus.Bus {
	return s.bus
}

// changed publishes a domain-change event for a feature so bindings can
// re-render on domain state as well as status.
func (s *Store) changed(f Feature) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(bus.Event{
		Kind:      "state." + string(f),
		Timestamp: time.Now(),
	})
}
