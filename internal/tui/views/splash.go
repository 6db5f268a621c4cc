package views

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/wolfpackhq/wolfpack/internal/tui/ui"
)

const logo = `
 __      __       .__   _____                     __
/  \    /  \ ____ |  |_/ ____\___________    ____|  | __
\   \/\/   //  _ \|  |\   __\\____ \__  \ _/ ___\  |/ /
 \        (  <_> )  |_|  |  |  |_> > __ \\  \___|    <
  \__/\  / \____/|____/__|  |   __(____  /\___  >__|_ \
       \/                   |__|       \/     \/     \/
`

// Splash is the startup screen shown while the persisted session loads.
type Splash struct {
	*tview.TextView
}

// NewSplash creates the splash screen.
func NewSplash(theme *ui.Theme) *Splash {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.TitleColor)

	_, _ = fmt.Fprintf(tv, "\n\n\n%s\n[%s]the pack talks here[-]", logo, "gray")
	return &Splash{TextView: tv}
}
