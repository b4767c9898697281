package state

import "github.com/fernlabs/fern/internal/api"

type medicationsState struct {
	collection Collection[api.Medication]
}

// Medications returns a snapshot of the medication collection.
func (s *Store) Medications() Collection[api.Medication] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.medications.collection
}

// SetMedications replaces the collection wholesale.
func (s *Store) SetMedications(items []api.Medication, total, page, limit int) {
	s.mu.Lock()
	s.medications.collection = Collection[api.Medication]{Items: items, Total: total, Page: page, Limit: limit}
	s.mu.Unlock()
	s.changed(FeatureMedications)
}

// PrependMedication commits a create.
func (s *Store) PrependMedication(m api.Medication) {
	s.mu.Lock()
	s.medications.collection.Items = append([]api.Medication{m}, s.medications.collection.Items...)
	s.medications.collection.Total++
	s.mu.Unlock()
	s.changed(FeatureMedications)
}

// UpsertMedication replaces the matching item, copying the slice so
// reader snapshots stay frozen.
func (s *Store) UpsertMedication(m api.Medication) {
	s.mu.Lock()
	items := append([]api.Medication(nil), s.medications.collection.Items...)
	for i := range items {
		if items[i].ID == m.ID {
			items[i] = m
			break
		}
	}
	s.medications.collection.Items = items
	s.mu.Unlock()
	s.changed(FeatureMedications)
}

// RemoveMedication commits a confirmed delete.
func (s *Store) RemoveMedication(id string) {
	s.mu.Lock()
	items := s.medications.collection.Items
	for i := range items {
		if items[i].ID == id {
			s.medications.collection.Items = append(items[:i:i], items[i+1:]...)
			s.medications.collection.Total--
			break
		}
	}
	s.mu.Unlock()
	s.changed(FeatureMedications)
}
