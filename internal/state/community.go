package state

import "github.com/fernlabs/fern/internal/api"

type communityState struct {
	communities Collection[api.Community]
	posts       Collection[api.Post]
	selectedID  string
}

// Communities returns a snapshot of the community collection.
func (s *Store) Communities() Collection[api.Community] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.community.communities
}

// Posts returns a snapshot of the posts loaded for the selected community.
func (s *Store) Posts() (string, Collection[api.Post]) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.community.selectedID, s.community.posts
}

// SelectedCommunity resolves the community whose posts are loaded, nil
// when no posts page is open or the community is not in the collection.
func (s *Store) SelectedCommunity() *api.Community {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.community.communities.Items {
		if c.ID == s.community.selectedID {
			c := c
			return &c
		}
	}
	return nil
}

// SetCommunities replaces the community collection wholesale.
func (s *Store) SetCommunities(items []api.Community, total, page, limit int) {
	s.mu.Lock()
	s.community.communities = Collection[api.Community]{Items: items, Total: total, Page: page, Limit: limit}
	s.mu.Unlock()
	s.changed(FeatureCommunity)
}

// UpsertCommunity replaces the matching community (join/leave results),
// copying the slice so reader snapshots stay frozen.
func (s *Store) UpsertCommunity(c api.Community) {
	s.mu.Lock()
	items := append([]api.Community(nil), s.community.communities.Items...)
	for i := range items {
		if items[i].ID == c.ID {
			items[i] = c
			break
		}
	}
	s.community.communities.Items = items
	s.mu.Unlock()
	s.changed(FeatureCommunity)
}

// SetPosts replaces the post collection for a community wholesale.
func (s *Store) SetPosts(communityID string, items []api.Post, total, page, limit int) {
	s.mu.Lock()
	s.community.selectedID = communityID
	s.community.posts = Collection[api.Post]{Items: items, Total: total, Page: page, Limit: limit}
	s.mu.Unlock()
	s.changed(FeatureCommunity)
}

// PrependPost commits a created post when it targets the selected
// community.
func (s *Store) PrependPost(p api.Post) {
	s.mu.Lock()
	if s.community.selectedID != p.CommunityID {
		s.mu.Unlock()
		return
	}
	s.community.posts.Items = append([]api.Post{p}, s.community.posts.Items...)
	s.community.posts.Total++
	s.mu.Unlock()
	s.changed(FeatureCommunity)
}
