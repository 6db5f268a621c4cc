package views

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/wolfpackhq/wolfpack/internal/tui/ui"
)

// AttachPrompt asks for a local image path to upload as an attachment.
type AttachPrompt struct {
	*tview.InputField
	onSubmit func(path string)
	onCancel func()
}

// NewAttachPrompt creates the prompt.
func NewAttachPrompt(theme *ui.Theme) *AttachPrompt {
	input := tview.NewInputField().
		SetLabel(" Image path: ").
		SetFieldWidth(0)
	input.SetBorder(true).SetTitle(" Attach Image ").SetTitleColor(theme.TitleColor)
	input.SetBorderColor(theme.BorderFocusColor)

	p := &AttachPrompt{InputField: input}

	input.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			if path := p.GetText(); path != "" && p.onSubmit != nil {
				p.onSubmit(path)
			}
		case tcell.KeyEscape:
			if p.onCancel != nil {
				p.onCancel()
			}
		}
	})

	return p
}

// SetOnSubmit sets the path submission callback.
func (p *AttachPrompt) SetOnSubmit(fn func(path string)) {
	p.onSubmit = fn
}

// SetOnCancel sets the dismissal callback.
func (p *AttachPrompt) SetOnCancel(fn func()) {
	p.onCancel = fn
}

// Reset clears the path field.
func (p *AttachPrompt) Reset() {
	p.SetText("")
}
