package views

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/wolfpackhq/wolfpack/internal/conversation"
	"github.com/wolfpackhq/wolfpack/internal/tui/ui"
)

// MessageThread displays one group's timeline, pinned to the newest message.
type MessageThread struct {
	*tview.TextView
}

// NewMessageThread creates the timeline view.
func NewMessageThread(theme *ui.Theme) *MessageThread {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	tv.SetBorder(true).SetTitle(" Messages ").SetTitleColor(theme.TitleColor)
	tv.SetBorderColor(theme.BorderColor)
	return &MessageThread{TextView: tv}
}

// SetGroupName updates the title with the open group's name.
func (mt *MessageThread) SetGroupName(name string) {
	mt.SetTitle(fmt.Sprintf(" %s ", sanitizeForTerminal(name)))
}

// Update replaces the rendered timeline. Messages arrive oldest first; the
// view scrolls to the newest entry whenever the timeline is non-empty.
func (mt *MessageThread) Update(msgs []conversation.ViewMessage) {
	mt.Clear()

	for _, m := range msgs {
		sender := m.SenderID
		if m.Own {
			sender = "You"
		}
		ts := formatTimestamp(m.Timestamp)
		_, _ = fmt.Fprintf(mt, "[::b]%s[-:-:-] [::d]%s[-:-:-]\n", sanitizeForTerminal(sender), ts)
		if m.Text != "" {
			_, _ = fmt.Fprintf(mt, "%s\n", sanitizeForTerminal(m.Text))
		}
		if m.ImageURL != "" {
			_, _ = fmt.Fprintf(mt, "[::d][image] %s[-:-:-]\n", m.ImageURL)
		}
		_, _ = fmt.Fprint(mt, "\n")
	}

	if len(msgs) > 0 {
		mt.ScrollToEnd()
	}
}
