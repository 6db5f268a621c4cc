package views

import (
	"github.com/rivo/tview"

	"github.com/wolfpackhq/wolfpack/internal/tui/ui"
)

// Login is the sign-in form.
type Login struct {
	*tview.Form
	email    *tview.InputField
	password *tview.InputField
	onSubmit func(email, password string)
}

// NewLogin creates the sign-in form.
func NewLogin(theme *ui.Theme, onSignup, onInvite func()) *Login {
	l := &Login{
		email:    tview.NewInputField().SetLabel("Email").SetFieldWidth(40),
		password: tview.NewInputField().SetLabel("Password").SetFieldWidth(40).SetMaskCharacter('*'),
	}

	form := tview.NewForm().
		AddFormItem(l.email).
		AddFormItem(l.password).
		AddButton("Sign In", func() {
			if l.onSubmit != nil {
				l.onSubmit(l.email.GetText(), l.password.GetText())
			}
		}).
		AddButton("Create Account", onSignup).
		AddButton("I Have an Invite Link", onInvite)
	form.SetBorder(true).SetTitle(" Sign In ").SetTitleColor(theme.TitleColor)
	form.SetBorderColor(theme.BorderColor)

	l.Form = form
	return l
}

// SetOnSubmit sets the sign-in callback.
func (l *Login) SetOnSubmit(fn func(email, password string)) {
	l.onSubmit = fn
}

// Reset clears the password and focuses the email field.
func (l *Login) Reset() {
	l.password.SetText("")
	l.SetFocus(0)
}
