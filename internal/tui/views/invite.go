package views

import (
	"github.com/rivo/tview"

	"github.com/wolfpackhq/wolfpack/internal/tui/ui"
)

// Invite is the invitation-link acceptance form: paste the token from the
// link and choose the new account's password.
type Invite struct {
	*tview.Form
	token    *tview.InputField
	password *tview.InputField
	onSubmit func(token, password string)
}

// NewInvite creates the acceptance form.
func NewInvite(theme *ui.Theme, onBack func()) *Invite {
	v := &Invite{
		token:    tview.NewInputField().SetLabel("Invite Token").SetFieldWidth(40),
		password: tview.NewInputField().SetLabel("New Password").SetFieldWidth(40).SetMaskCharacter('*'),
	}

	form := tview.NewForm().
		AddFormItem(v.token).
		AddFormItem(v.password).
		AddButton("Accept Invite", func() {
			if v.onSubmit != nil {
				v.onSubmit(v.token.GetText(), v.password.GetText())
			}
		}).
		AddButton("Back", onBack)
	form.SetBorder(true).SetTitle(" Accept Invitation ").SetTitleColor(theme.TitleColor)
	form.SetBorderColor(theme.BorderColor)

	v.Form = form
	return v
}

// SetOnSubmit sets the acceptance callback.
func (v *Invite) SetOnSubmit(fn func(token, password string)) {
	v.onSubmit = fn
}

// Reset clears both fields.
func (v *Invite) Reset() {
	v.token.SetText("")
	v.password.SetText("")
	v.SetFocus(0)
}
