package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/fernlabs/fern/internal/bus"
	"github.com/fernlabs/fern/internal/state"
)

// typingServer accepts one connection, records the join frame, then
// pushes the given frames and holds the socket open.
func typingServer(t *testing.T, frames []string, joined chan<- wireEvent) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			t.Errorf("accept: %v", err)
			return
		}
		ctx := r.Context()

		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		var join wireEvent
		_ = json.Unmarshal(data, &join)
		joined <- join

		for _, f := range frames {
			if err := conn.Write(ctx, websocket.MessageText, []byte(f)); err != nil {
				return
			}
		}
		// Hold the connection until the client closes it.
		_, _, _ = conn.Read(ctx)
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func waitTyping(t *testing.T, s *state.Store, sessionID string, want bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.IsTyping(sessionID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("IsTyping(%q) never became %v", sessionID, want)
}

func TestBridgeJoinsAndAppliesTypingEvents(t *testing.T) {
	joined := make(chan wireEvent, 1)
	srv := typingServer(t, []string{
		`{"event":"typingStarted","sessionId":"s1"}`,
		`{"event":"somethingNew","sessionId":"s1"}`,
		`{"event":"typingStopped","sessionId":"s1"}`,
	}, joined)
	defer srv.Close()

	s := state.New(bus.New())
	b, err := connect(context.Background(), wsURL(srv), "u1", s, zap.NewNop())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer b.Close()

	select {
	case join := <-joined:
		if join.Event != "join" || join.UserID != "u1" {
			t.Errorf("join frame = %+v", join)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no join frame")
	}

	waitTyping(t, s, "s1", true)
	waitTyping(t, s, "s1", false)
}

func TestBridgePublishesConnectionEvents(t *testing.T) {
	joined := make(chan wireEvent, 1)
	srv := typingServer(t, nil, joined)
	defer srv.Close()

	s := state.New(bus.New())
	ch, unsub := s.Bus().Subscribe("realtime.", 10)
	defer unsub()

	b, err := connect(context.Background(), wsURL(srv), "u1", s, zap.NewNop())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	select {
	case evt := <-ch:
		if evt.Kind != bus.KindRealtimeConnected {
			t.Errorf("first event = %q", evt.Kind)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no connected event")
	}

	b.Close()

	select {
	case evt := <-ch:
		if evt.Kind != bus.KindRealtimeDisconnected {
			t.Errorf("second event = %q", evt.Kind)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no disconnected event")
	}
}

func TestManagerStartReplacesConnection(t *testing.T) {
	joined := make(chan wireEvent, 4)
	multi := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		_, data, err := conn.Read(r.Context())
		if err != nil {
			return
		}
		var join wireEvent
		_ = json.Unmarshal(data, &join)
		joined <- join
		_, _, _ = conn.Read(r.Context())
	}))
	defer multi.Close()

	s := state.New(bus.New())
	m := NewManager(wsURL(multi), s, zap.NewNop())
	defer m.Stop()

	m.Start(context.Background(), "u1")
	m.Start(context.Background(), "u2")

	var users []string
	for i := 0; i < 2; i++ {
		select {
		case join := <-joined:
			users = append(users, join.UserID)
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d join frames", len(users))
		}
	}
	if users[0] != "u1" || users[1] != "u2" {
		t.Errorf("joins = %v", users)
	}

	if m.bridge == nil {
		t.Fatal("no live bridge after Start")
	}
}

func TestManagerStartToleratesDialFailure(t *testing.T) {
	s := state.New(bus.New())
	m := NewManager("ws://127.0.0.1:1", s, zap.NewNop())

	m.Start(context.Background(), "u1")

	if m.bridge != nil {
		t.Error("bridge set despite dial failure")
	}
	m.Stop()
}
