package views

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/fernlabs/fern/internal/api"
)

// ChatThread displays one companion conversation, oldest message
// first, with a typing indicator line while a reply is pending.
type ChatThread struct {
	*tview.TextView
}

// NewChatThread creates the conversation view.
func NewChatThread() *ChatThread {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	tv.SetBorder(true).SetTitle(" Conversation ")

	return &ChatThread{TextView: tv}
}

// Update rerenders the conversation from the selected session.
func (ct *ChatThread) Update(session *api.ChatSession, typing bool) {
	ct.Clear()
	if session == nil {
		return
	}

	title := session.Title
	if title == "" {
		title = "Conversation"
	}
	ct.SetTitle(fmt.Sprintf(" %s ", title))

	for _, m := range session.Messages {
		sender := "Companion"
		if m.Sender == "user" {
			sender = "You"
		}
		ts := formatTimestamp(m.TimestampUnixMs)
		_, _ = fmt.Fprintf(ct, "[::b]%s[-:-:-] [::d]%s[-:-:-]\n%s\n\n", sender, ts, tview.Escape(m.Content))
	}

	if typing {
		_, _ = fmt.Fprint(ct, "[::d]Companion is typing…[-:-:-]\n")
	}

	ct.ScrollToEnd()
}
