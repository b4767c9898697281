package bus

import "time"

// Event represents a client-side event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

// Well-known event kinds. Status events carry the feature name as the
// segment after the prefix (e.g. "status.chat"), so view bindings can
// subscribe to exactly the feature they render.
const (
	KindLoggedIn  = "auth.logged_in"  // payload: SessionStarted
	KindLoggedOut = "auth.logged_out" // payload: nil

	KindTypingChanged = "chat.typing_changed" // payload: TypingChange

	KindRealtimeConnected    = "realtime.connected"
	KindRealtimeDisconnected = "realtime.disconnected"
)

// SessionStarted is the payload for auth.logged_in events. It carries
// everything the session lifecycle needs: the user id for the realtime
// channel and the token/user snapshot for durable storage.
type SessionStarted struct {
	UserID   string
	Token    string
	UserJSON string
}

// TypingChange is the payload for chat.typing_changed events.
type TypingChange struct {
	SessionID string
	Typing    bool
}
