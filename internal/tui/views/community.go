package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/fernlabs/fern/internal/api"
)

// CommunityList shows forum groups in a table.
type CommunityList struct {
	*tview.Table
	communities []api.Community
}

// NewCommunityList creates the community table.
func NewCommunityList() *CommunityList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true).SetTitle(" Communities ")

	return &CommunityList{Table: table}
}

// Update refreshes the table from the community slice.
func (cl *CommunityList) Update(communities []api.Community, total int) {
	cl.communities = communities
	cl.Clear()
	cl.SetTitle(fmt.Sprintf(" Communities (%d) ", total))

	cl.SetCell(0, 0, tview.NewTableCell(" Name").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	cl.SetCell(0, 1, tview.NewTableCell(" Members").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	cl.SetCell(0, 2, tview.NewTableCell(" Joined").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))

	for i, c := range communities {
		row := i + 1
		joined := ""
		if c.Joined {
			joined = "*"
		}
		cl.SetCell(row, 0, tview.NewTableCell(" "+c.Name).SetMaxWidth(30).SetExpansion(2))
		cl.SetCell(row, 1, tview.NewTableCell(fmt.Sprintf(" %d", c.MemberCount)).SetMaxWidth(10))
		cl.SetCell(row, 2, tview.NewTableCell(" "+joined).SetMaxWidth(8))
	}
}

// SelectedCommunity returns the ID of the currently selected row.
func (cl *CommunityList) SelectedCommunity() string {
	row, _ := cl.GetSelection()
	idx := row - 1
	if idx >= 0 && idx < len(cl.communities) {
		return cl.communities[idx].ID
	}
	return ""
}

// SelectedCommunityName returns the display name of the selected row.
func (cl *CommunityList) SelectedCommunityName() string {
	row, _ := cl.GetSelection()
	idx := row - 1
	if idx >= 0 && idx < len(cl.communities) {
		return cl.communities[idx].Name
	}
	return ""
}

// PostList displays posts for one community plus a compose field.
type PostList struct {
	*tview.Flex
	feed   *tview.TextView
	input  *tview.InputField
	onPost func(content string)
}

// NewPostList creates the posts page.
func NewPostList() *PostList {
	pl := &PostList{
		feed: tview.NewTextView().
			SetDynamicColors(true).
			SetScrollable(true).
			SetWordWrap(true),
		input: tview.NewInputField().
			SetLabel(" post > ").
			SetFieldWidth(0),
	}
	pl.feed.SetBorder(true).SetTitle(" Posts ")

	pl.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter || pl.onPost == nil {
			return
		}
		text := pl.input.GetText()
		if text != "" {
			pl.onPost(text)
			pl.input.SetText("")
		}
	})

	pl.Flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(pl.feed, 0, 1, false).
		AddItem(pl.input, 1, 0, true)

	return pl
}

// SetOnPost sets the compose callback.
func (pl *PostList) SetOnPost(fn func(content string)) { pl.onPost = fn }

// Input exposes the compose field for focus handling.
func (pl *PostList) Input() *tview.InputField { return pl.input }

// Update rerenders the feed, newest post first.
func (pl *PostList) Update(communityName string, posts []api.Post) {
	pl.feed.Clear()
	if communityName != "" {
		pl.feed.SetTitle(fmt.Sprintf(" %s ", communityName))
	}

	for _, p := range posts {
		ts := formatTimestamp(p.CreatedAtUnixMs)
		_, _ = fmt.Fprintf(pl.feed, "[::b]%s[-:-:-] [::d]%s[-:-:-]\n%s\n\n", tview.Escape(p.AuthorName), ts, tview.Escape(p.Content))
	}
	pl.feed.ScrollToBeginning()
}
