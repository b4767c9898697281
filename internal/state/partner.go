package state

import "github.com/fernlabs/fern/internal/api"

type partnerState struct {
	link *api.PartnerLink
}

// PartnerLink returns the current partner relationship, or nil when it
// has not been fetched yet.
func (s *Store) PartnerLink() *api.PartnerLink {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.partner.link
}

// SetPartnerLink replaces the partner singleton.
func (s *Store) SetPartnerLink(p *api.PartnerLink) {
	s.mu.Lock()
	s.partner.link = p
	s.mu.Unlock()
	s.changed(FeaturePartner)
}

// ClearPartnerLink commits a confirmed unlink.
func (s *Store) ClearPartnerLink() {
	s.SetPartnerLink(&api.PartnerLink{Status: "none"})
}
