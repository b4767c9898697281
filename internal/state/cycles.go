package state

import "github.com/fernlabs/fern/internal/api"

type cyclesState struct {
	collection Collection[api.Cycle]
	current    *api.Cycle
}

// Cycles returns a snapshot of the cycle collection.
func (s *Store) Cycles() Collection[api.Cycle] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cycles.collection
}

// CurrentCycle returns the active cycle singleton, or nil.
func (s *Store) CurrentCycle() *api.Cycle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cycles.current
}

// SetCycles replaces the collection wholesale with a list-fetch result.
// Stale entries from a previous filter are discarded, never merged.
func (s *Store) SetCycles(items []api.Cycle, total, page, limit int) {
	s.mu.Lock()
	s.cycles.collection = Collection[api.Cycle]{Items: items, Total: total, Page: page, Limit: limit}
	s.mu.Unlock()
	s.changed(FeatureCycles)
}

// PrependCycle commits a create: new item first, total incremented.
func (s *Store) PrependCycle(c api.Cycle) {
	s.mu.Lock()
	s.cycles.collection.Items = append([]api.Cycle{c}, s.cycles.collection.Items...)
	s.cycles.collection.Total++
	s.mu.Unlock()
	s.changed(FeatureCycles)
}

// UpsertCycle replaces the matching item in the collection and in the
// current singleton when it mirrors the same entity. A miss on the
// collection is a no-op, not an insert.
func (s *Store) UpsertCycle(c api.Cycle) {
	s.mu.Lock()
	// Replace the slice rather than writing through the backing array
	// shared with reader snapshots.
	items := append([]api.Cycle(nil), s.cycles.collection.Items...)
	for i := range items {
		if items[i].ID == c.ID {
			items[i] = c
			break
		}
	}
	s.cycles.collection.Items = items
	if s.cycles.current != nil && s.cycles.current.ID == c.ID {
		cc := c
		s.cycles.current = &cc
	}
	s.mu.Unlock()
	s.changed(FeatureCycles)
}

// SetCurrentCycle replaces the active-cycle singleton (nil allowed).
func (s *Store) SetCurrentCycle(c *api.Cycle) {
	s.mu.Lock()
	s.cycles.current = c
	s.mu.Unlock()
	s.changed(FeatureCycles)
}

// RemoveCycle commits a confirmed server-side delete: drop from the
// collection, decrement total, and clear the singleton if it referenced
// the deleted id.
func (s *Store) RemoveCycle(id string) {
	s.mu.Lock()
	items := s.cycles.collection.Items
	for i := range items {
		if items[i].ID == id {
			s.cycles.collection.Items = append(items[:i:i], items[i+1:]...)
			s.cycles.collection.Total--
			break
		}
	}
	if s.cycles.current != nil && s.cycles.current.ID == id {
		s.cycles.current = nil
	}
	s.mu.Unlock()
	s.changed(FeatureCycles)
}
