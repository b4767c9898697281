package views

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/fernlabs/fern/internal/api"
)

// PartnerView renders the partner link state with inline actions.
type PartnerView struct {
	*tview.Flex
	info     *tview.TextView
	input    *tview.InputField
	onInvite func(email string)
	onAccept func(code string)
}

// NewPartnerView creates the partner page.
func NewPartnerView() *PartnerView {
	pv := &PartnerView{
		info: tview.NewTextView().SetDynamicColors(true),
		input: tview.NewInputField().
			SetLabel(" email or invite code > ").
			SetFieldWidth(0),
	}
	pv.info.SetBorder(true).SetTitle(" Partner ")

	pv.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		text := pv.input.GetText()
		if text == "" {
			return
		}
		pv.input.SetText("")
		// Heuristic: addresses go to invite, anything else is treated
		// as an invite code.
		if strings.Contains(text, "@") {
			if pv.onInvite != nil {
				pv.onInvite(text)
			}
		} else if pv.onAccept != nil {
			pv.onAccept(text)
		}
	})

	pv.Flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(pv.info, 0, 1, false).
		AddItem(pv.input, 1, 0, true)

	return pv
}

// SetOnInvite sets the invite-by-email callback.
func (pv *PartnerView) SetOnInvite(fn func(email string)) { pv.onInvite = fn }

// SetOnAccept sets the accept-invite-code callback.
func (pv *PartnerView) SetOnAccept(fn func(code string)) { pv.onAccept = fn }

// Input exposes the action field for focus handling.
func (pv *PartnerView) Input() *tview.InputField { return pv.input }

// Update rerenders the partner state.
func (pv *PartnerView) Update(link *api.PartnerLink) {
	pv.info.Clear()

	if link == nil || link.Status == "" || link.Status == "none" {
		_, _ = fmt.Fprint(pv.info, "\n  Not linked.\n\n  Enter a partner's email below to send an invite,\n  or paste an invite code to accept one.")
		return
	}

	switch link.Status {
	case "invited":
		_, _ = fmt.Fprintf(pv.info, "\n  Invite pending.\n\n  Share this code with your partner: [::b]%s[-:-:-]", link.InviteCode)
	case "linked":
		name := ""
		if link.Partner != nil {
			name = link.Partner.Name
			if name == "" {
				name = link.Partner.Email
			}
		}
		_, _ = fmt.Fprintf(pv.info, "\n  Linked with [::b]%s[-:-:-].\n\n  Press u to unlink.", tview.Escape(name))
	default:
		_, _ = fmt.Fprintf(pv.info, "\n  Status: %s", tview.Escape(link.Status))
	}
}
