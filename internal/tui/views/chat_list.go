package views

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/fernlabs/fern/internal/api"
)

// ChatList shows companion chat sessions in a table.
type ChatList struct {
	*tview.Table
	sessions []api.ChatSession
}

// NewChatList creates the session table.
func NewChatList() *ChatList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true).SetTitle(" Companion ")

	return &ChatList{Table: table}
}

// Update refreshes the table from the chat slice.
func (cl *ChatList) Update(sessions []api.ChatSession, total int) {
	cl.sessions = sessions
	cl.Clear()
	cl.SetTitle(fmt.Sprintf(" Companion (%d) ", total))

	cl.SetCell(0, 0, tview.NewTableCell(" Title").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	cl.SetCell(0, 1, tview.NewTableCell(" Last Activity").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))

	for i, s := range sessions {
		row := i + 1
		title := s.Title
		if title == "" {
			title = "(untitled)"
		}
		last := ""
		if n := len(s.Messages); n > 0 {
			last = formatTimestamp(s.Messages[n-1].TimestampUnixMs)
		}
		cl.SetCell(row, 0, tview.NewTableCell(" "+title).SetMaxWidth(40).SetExpansion(2))
		cl.SetCell(row, 1, tview.NewTableCell(" "+last).SetMaxWidth(12))
	}
}

// SelectedSession returns the ID of the currently selected session.
func (cl *ChatList) SelectedSession() string {
	row, _ := cl.GetSelection()
	idx := row - 1
	if idx >= 0 && idx < len(cl.sessions) {
		return cl.sessions[idx].ID
	}
	return ""
}
