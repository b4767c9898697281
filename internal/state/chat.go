package state

import (
	"time"

	"github.com/fernlabs/fern/internal/api"
	"github.com/fernlabs/fern/internal/bus"
)

type chatState struct {
	collection Collection[api.ChatSession]
	selected   *api.ChatSession
	typing     map[string]bool
}

// ChatSessions returns a snapshot of the session collection.
func (s *Store) ChatSessions() Collection[api.ChatSession] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chat.collection
}

// SelectedChatSession returns the loaded conversation, or nil.
func (s *Store) SelectedChatSession() *api.ChatSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chat.selected
}

// IsTyping reports the transient companion-typing indicator for a
// session. It is UI state, never persisted server truth.
func (s *Store) IsTyping(sessionID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chat.typing[sessionID]
}

// SetChatSessions replaces the session collection wholesale.
func (s *Store) SetChatSessions(items []api.ChatSession, total, page, limit int) {
	s.mu.Lock()
	s.chat.collection = Collection[api.ChatSession]{Items: items, Total: total, Page: page, Limit: limit}
	s.mu.Unlock()
	s.changed(FeatureChat)
}

// PrependChatSession commits a created session.
func (s *Store) PrependChatSession(cs api.ChatSession) {
	s.mu.Lock()
	s.chat.collection.Items = append([]api.ChatSession{cs}, s.chat.collection.Items...)
	s.chat.collection.Total++
	s.mu.Unlock()
	s.changed(FeatureChat)
}

// SelectChatSession loads a full conversation as the selected singleton
// and upserts its header into the collection.
func (s *Store) SelectChatSession(cs api.ChatSession) {
	s.mu.Lock()
	c := cs
	s.chat.selected = &c
	// Snapshots handed out earlier keep the old backing array; upsert
	// into a fresh slice instead of writing through it.
	items := append([]api.ChatSession(nil), s.chat.collection.Items...)
	for i := range items {
		if items[i].ID == cs.ID {
			items[i] = cs
			break
		}
	}
	s.chat.collection.Items = items
	s.mu.Unlock()
	s.changed(FeatureChat)
}

// AppendChatExchange commits a send: the user entry and, when the
// companion produced one, the assistant entry, appended in that order
// in a single state mutation. The append only targets the currently
// selected session; a result for any other session leaves the
// conversation untouched. The selected pointer is swapped, never
// mutated, so conversations already handed to readers stay frozen.
func (s *Store) AppendChatExchange(sessionID string, user api.ChatMessage, assistant *api.ChatMessage) {
	s.mu.Lock()
	if s.chat.selected == nil || s.chat.selected.ID != sessionID {
		s.mu.Unlock()
		return
	}
	sel := *s.chat.selected
	msgs := make([]api.ChatMessage, 0, len(sel.Messages)+2)
	msgs = append(msgs, sel.Messages...)
	msgs = append(msgs, user)
	if assistant != nil {
		msgs = append(msgs, *assistant)
	}
	sel.Messages = msgs
	s.chat.selected = &sel
	s.mu.Unlock()
	s.changed(FeatureChat)
}

// SetTyping overwrites the typing indicator for a session. Called by
// the realtime bridge and by the send flow's optimistic set/clear.
func (s *Store) SetTyping(sessionID string, typing bool) {
	s.mu.Lock()
	if typing {
		s.chat.typing[sessionID] = true
	} else {
		delete(s.chat.typing, sessionID)
	}
	s.mu.Unlock()

	s.bus.Publish(bus.Event{
		Kind:      bus.KindTypingChanged,
		Timestamp: time.Now(),
		Payload:   bus.TypingChange{SessionID: sessionID, Typing: typing},
	})
	s.changed(FeatureChat)
}

// RemoveChatSession commits a confirmed delete and clears the selected
// singleton and typing flag when they reference the deleted session.
func (s *Store) RemoveChatSession(id string) {
	s.mu.Lock()
	items := s.chat.collection.Items
	for i := range items {
		if items[i].ID == id {
			s.chat.collection.Items = append(items[:i:i], items[i+1:]...)
			s.chat.collection.Total--
			break
		}
	}
	if s.chat.selected != nil && s.chat.selected.ID == id {
		s.chat.selected = nil
	}
	delete(s.chat.typing, id)
	s.mu.Unlock()
	s.changed(FeatureChat)
}
