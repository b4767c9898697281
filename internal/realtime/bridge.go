package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/fernlabs/fern/internal/bus"
	"github.com/fernlabs/fern/internal/state"
)

// wireEvent is the envelope the service pushes over the socket. Events
// we do not recognize are dropped.
type wireEvent struct {
	Event     string `json:"event"`
	SessionID string `json:"sessionId,omitempty"`
	UserID    string `json:"userId,omitempty"`
}

// Bridge owns a single websocket connection to the realtime endpoint
// and translates incoming typing events into chat-slice mutations.
type Bridge struct {
	url    string
	store  *state.Store
	log    *zap.Logger
	cancel context.CancelFunc
	done   chan struct{}
}

func dial(ctx context.Context, url string) (*websocket.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(dialCtx, url, nil)
	return conn, err
}

// connect dials the endpoint, joins the user's room, and starts the
// read loop. The returned Bridge is live until Close or a read error.
func connect(ctx context.Context, url, userID string, store *state.Store, log *zap.Logger) (*Bridge, error) {
	conn, err := dial(ctx, url)
	if err != nil {
		return nil, err
	}

	join, _ := json.Marshal(wireEvent{Event: "join", UserID: userID})
	if err := conn.Write(ctx, websocket.MessageText, join); err != nil {
		conn.Close(websocket.StatusInternalError, "join failed")
		return nil, err
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	b := &Bridge{
		url:    url,
		store:  store,
		log:    log,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	store.Bus().Publish(bus.Event{Kind: bus.KindRealtimeConnected, Timestamp: time.Now()})
	go b.readLoop(loopCtx, conn)
	return b, nil
}

func (b *Bridge) readLoop(ctx context.Context, conn *websocket.Conn) {
	defer close(b.done)
	defer func() {
		conn.Close(websocket.StatusNormalClosure, "")
		b.store.Bus().Publish(bus.Event{Kind: bus.KindRealtimeDisconnected, Timestamp: time.Now()})
	}()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, context.Canceled) {
				b.log.Warn("realtime read failed", zap.Error(err))
			}
			return
		}

		var evt wireEvent
		if err := json.Unmarshal(data, &evt); err != nil {
			b.log.Debug("realtime: malformed frame", zap.Error(err))
			continue
		}

		switch evt.Event {
		case "typingStarted":
			b.store.SetTyping(evt.SessionID, true)
		case "typingStopped":
			b.store.SetTyping(evt.SessionID, false)
		default:
			// Unknown event kinds are ignored so the service can add
			// push types without breaking older clients.
		}
	}
}

// Close tears the connection down and waits for the read loop to exit.
func (b *Bridge) Close() {
	b.cancel()
	<-b.done
}
