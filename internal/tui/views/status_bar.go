package views

import (
	"fmt"
	"time"

	"github.com/rivo/tview"
)

// StatusBar displays the profile, the active feature's request status,
// and transient flash messages.
type StatusBar struct {
	*tview.TextView
	profile string
	loading bool
	errMsg  string
	flash   string
}

// NewStatusBar creates a new status bar.
func NewStatusBar() *StatusBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(tview.Styles.MoreContrastBackgroundColor)

	return &StatusBar{TextView: tv}
}

// SetProfile updates the profile name display.
func (sb *StatusBar) SetProfile(name string) {
	sb.profile = name
	sb.render()
}

// SetRequestStatus updates the loading/error indicator for the page's
// feature.
func (sb *StatusBar) SetRequestStatus(loading bool, errMsg string) {
	sb.loading = loading
	sb.errMsg = errMsg
	sb.render()
}

// SetFlash sets a temporary message.
func (sb *StatusBar) SetFlash(msg string) {
	sb.flash = msg
	sb.render()
}

func (sb *StatusBar) render() {
	sb.Clear()

	indicator := "idle"
	switch {
	case sb.loading:
		indicator = "[green]loading…[-]"
	case sb.errMsg != "":
		indicator = "[red]" + tview.Escape(sb.errMsg) + "[-]"
	}

	clock := time.Now().Format("15:04")

	line := fmt.Sprintf(" [::b]%s[-:-:-] | %s | %s", sb.profile, indicator, clock)
	if sb.flash != "" {
		line += fmt.Sprintf(" | [yellow]%s[-]", tview.Escape(sb.flash))
	}

	_, _ = fmt.Fprint(sb, line)
}
