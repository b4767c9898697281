package state

import (
	"encoding/json"
	"time"

	"github.com/fernlabs/fern/internal/api"
	"github.com/fernlabs/fern/internal/bus"
)

// Session mirrors the auth slice: token, user, and the derived
// isAuthenticated flag. Cleared as a unit on logout.
type Session struct {
	Token           string
	User            *api.UserProfile
	IsAuthenticated bool
}

type authState struct {
	session Session
}

// Session returns a snapshot of the auth slice.
func (s *Store) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.auth.session
}

// Token implements api.TokenSource so the HTTP adapter always reads the
// live token.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.auth.session.Token
}

// SetSession commits a successful login or registration and announces
// the transition so the session lifecycle (persistence, realtime
// bridge) can respond.
func (s *Store) SetSession(token string, user api.UserProfile) {
	s.mu.Lock()
	u := user
	s.auth.session = Session{Token: token, User: &u, IsAuthenticated: true}
	s.mu.Unlock()
	s.changed(FeatureAuth)

	userJSON, _ := json.Marshal(user)
	s.bus.Publish(bus.Event{
		Kind:      bus.KindLoggedIn,
		Timestamp: time.Now(),
		Payload: bus.SessionStarted{
			UserID:   user.ID,
			Token:    token,
			UserJSON: string(userJSON),
		},
	})
}

// RestoreSession rehydrates the auth slice from durable storage on
// start. The token alone makes the client authenticated; the user
// snapshot may be stale until the profile re-fetch lands.
func (s *Store) RestoreSession(token, userJSON string) {
	if token == "" {
		return
	}
	var user *api.UserProfile
	if userJSON != "" {
		var u api.UserProfile
		if err := json.Unmarshal([]byte(userJSON), &u); err == nil {
			user = &u
		}
	}
	s.mu.Lock()
	s.auth.session = Session{Token: token, User: user, IsAuthenticated: true}
	s.mu.Unlock()
	s.changed(FeatureAuth)

	if user != nil {
		s.bus.Publish(bus.Event{
			Kind:      bus.KindLoggedIn,
			Timestamp: time.Now(),
			Payload: bus.SessionStarted{
				UserID:   user.ID,
				Token:    token,
				UserJSON: userJSON,
			},
		})
	}
}

// SetUser upserts the user profile (profile fetch or update) without
// touching the token. When a token-only restore left the user unknown,
// the first profile to land completes the session and announces it so
// the realtime bridge can come up.
func (s *Store) SetUser(user api.UserProfile) {
	s.mu.Lock()
	firstKnown := s.auth.session.IsAuthenticated && s.auth.session.User == nil
	token := s.auth.session.Token
	u := user
	s.auth.session.User = &u
	s.mu.Unlock()
	s.changed(FeatureAuth)

	if firstKnown {
		userJSON, _ := json.Marshal(user)
		s.bus.Publish(bus.Event{
			Kind:      bus.KindLoggedIn,
			Timestamp: time.Now(),
			Payload: bus.SessionStarted{
				UserID:   user.ID,
				Token:    token,
				UserJSON: string(userJSON),
			},
		})
	}
}

// ClearSession commits a logout and announces the transition.
func (s *Store) ClearSession() {
	s.mu.Lock()
	s.auth.session = Session{}
	s.mu.Unlock()
	s.changed(FeatureAuth)

	s.bus.Publish(bus.Event{
		Kind:      bus.KindLoggedOut,
		Timestamp: time.Now(),
	})
}
