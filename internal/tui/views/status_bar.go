package views

import (
	"fmt"
	"time"

	"github.com/rivo/tview"
)

// StatusBar displays the signed-in identity, gate state, and flash messages.
type StatusBar struct {
	*tview.TextView
	identity string
	role     string
	state    string
	flash    string
}

// NewStatusBar creates a new status bar.
func NewStatusBar() *StatusBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(tview.Styles.MoreContrastBackgroundColor)
	return &StatusBar{TextView: tv}
}

// SetIdentity updates the signed-in email and role display.
func (sb *StatusBar) SetIdentity(email, role string) {
	sb.identity = email
	sb.role = role
	sb.render()
}

// SetState updates the gate state display.
func (sb *StatusBar) SetState(state string) {
	sb.state = state
	sb.render()
}

// SetFlash sets a temporary message.
func (sb *StatusBar) SetFlash(msg string) {
	sb.flash = msg
	sb.render()
}

func (sb *StatusBar) render() {
	sb.Clear()

	who := sb.identity
	if who == "" {
		who = "signed out"
	} else if sb.role != "" {
		who = fmt.Sprintf("%s (%s)", who, sb.role)
	}

	clock := time.Now().Format("15:04")
	line := fmt.Sprintf(" [::b]%s[-:-:-] | %s | %s", who, sb.state, clock)
	if sb.flash != "" {
		line += fmt.Sprintf(" | [yellow]%s[-]", sb.flash)
	}
	_, _ = fmt.Fprint(sb, line)
}
