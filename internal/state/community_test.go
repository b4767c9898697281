package state

import (
	"testing"

	"github.com/fernlabs/fern/internal/api"
	"github.com/fernlabs/fern/internal/bus"
)

func TestSelectedCommunityResolvesFromPosts(t *testing.T) {
	s := New(bus.New())
	s.SetCommunities([]api.Community{
		{ID: "g1", Name: "TTC Support"},
		{ID: "g2", Name: "IVF Journeys"},
	}, 2, 1, 50)

	if got := s.SelectedCommunity(); got != nil {
		t.Fatalf("no posts loaded, want nil, got %+v", got)
	}

	s.SetPosts("g2", []api.Post{{ID: "p1", CommunityID: "g2"}}, 1, 1, 50)

	got := s.SelectedCommunity()
	if got == nil || got.Name != "IVF Journeys" {
		t.Fatalf("SelectedCommunity = %+v, want IVF Journeys", got)
	}

	// Unknown id (community list refreshed without it) resolves to nil.
	s.SetPosts("gone", nil, 0, 1, 50)
	if got := s.SelectedCommunity(); got != nil {
		t.Errorf("want nil for unknown id, got %+v", got)
	}
}
