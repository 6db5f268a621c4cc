package views

import (
	"github.com/rivo/tview"

	"github.com/wolfpackhq/wolfpack/internal/tui/ui"
)

// Signup is the invitation-gated account creation form.
type Signup struct {
	*tview.Form
	email    *tview.InputField
	password *tview.InputField
	code     *tview.InputField
	onSubmit func(email, password, code string)
}

// NewSignup creates the sign-up form.
func NewSignup(theme *ui.Theme, onBack func()) *Signup {
	s := &Signup{
		email:    tview.NewInputField().SetLabel("Email").SetFieldWidth(40),
		password: tview.NewInputField().SetLabel("Password").SetFieldWidth(40).SetMaskCharacter('*'),
		code:     tview.NewInputField().SetLabel("Invitation Code").SetFieldWidth(40),
	}

	form := tview.NewForm().
		AddFormItem(s.email).
		AddFormItem(s.password).
		AddFormItem(s.code).
		AddButton("Create Account", func() {
			if s.onSubmit != nil {
				s.onSubmit(s.email.GetText(), s.password.GetText(), s.code.GetText())
			}
		}).
		AddButton("Back", onBack)
	form.SetBorder(true).SetTitle(" Join the Pack ").SetTitleColor(theme.TitleColor)
	form.SetBorderColor(theme.BorderColor)

	s.Form = form
	return s
}

// SetOnSubmit sets the account creation callback.
func (s *Signup) SetOnSubmit(fn func(email, password, code string)) {
	s.onSubmit = fn
}

// Reset clears the password and focuses the email field.
func (s *Signup) Reset() {
	s.password.SetText("")
	s.SetFocus(0)
}
