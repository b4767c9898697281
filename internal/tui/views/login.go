package views

import (
	"github.com/rivo/tview"
)

// LoginView is the combined sign-in / sign-up form shown while the
// client is unauthenticated.
type LoginView struct {
	*tview.Flex
	form     *tview.Form
	message  *tview.TextView
	register bool
	onLogin  func(email, password string)
	onSignup func(name, email, password string)
}

// NewLoginView creates the auth form in sign-in mode.
func NewLoginView() *LoginView {
	lv := &LoginView{
		form:    tview.NewForm(),
		message: tview.NewTextView().SetDynamicColors(true),
	}
	lv.form.SetBorder(true)

	lv.Flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(lv.form, 0, 1, true).
		AddItem(lv.message, 1, 0, false)

	lv.rebuild()
	return lv
}

// SetOnLogin sets the sign-in submit callback.
func (lv *LoginView) SetOnLogin(fn func(email, password string)) { lv.onLogin = fn }

// SetOnSignup sets the sign-up submit callback.
func (lv *LoginView) SetOnSignup(fn func(name, email, password string)) { lv.onSignup = fn }

// Form exposes the inner form for focus handling.
func (lv *LoginView) Form() *tview.Form { return lv.form }

// SetBusy disables the submit buttons while a request is in flight.
func (lv *LoginView) SetBusy(busy bool) {
	for i := 0; i < lv.form.GetButtonCount(); i++ {
		lv.form.GetButton(i).SetDisabled(busy)
	}
	if busy {
		lv.ShowMessage("[green]working…[-]")
	}
}

// ShowError renders a request failure under the form. The form stays
// editable so the user can retry.
func (lv *LoginView) ShowError(msg string) {
	lv.message.Clear()
	lv.message.SetText("[red]" + tview.Escape(msg) + "[-]")
}

// ShowMessage renders an informational line under the form.
func (lv *LoginView) ShowMessage(msg string) {
	lv.message.Clear()
	lv.message.SetText(msg)
}

func (lv *LoginView) rebuild() {
	lv.form.Clear(true)

	if lv.register {
		lv.form.SetTitle(" Create account ")
		lv.form.
			AddInputField("Name", "", 40, nil, nil).
			AddInputField("Email", "", 40, nil, nil).
			AddPasswordField("Password", "", 40, '*', nil).
			AddButton("Sign up", func() {
				name := lv.fieldText("Name")
				email := lv.fieldText("Email")
				password := lv.fieldText("Password")
				if email == "" || password == "" {
					lv.ShowError("email and password are required")
					return
				}
				if lv.onSignup != nil {
					lv.onSignup(name, email, password)
				}
			}).
			AddButton("Have an account?", func() {
				lv.register = false
				lv.rebuild()
			})
		return
	}

	lv.form.SetTitle(" Sign in ")
	lv.form.
		AddInputField("Email", "", 40, nil, nil).
		AddPasswordField("Password", "", 40, '*', nil).
		AddButton("Sign in", func() {
			email := lv.fieldText("Email")
			password := lv.fieldText("Password")
			if email == "" || password == "" {
				lv.ShowError("email and password are required")
				return
			}
			if lv.onLogin != nil {
				lv.onLogin(email, password)
			}
		}).
		AddButton("New here?", func() {
			lv.register = true
			lv.rebuild()
		})
}

func (lv *LoginView) fieldText(label string) string {
	item := lv.form.GetFormItemByLabel(label)
	if field, ok := item.(*tview.InputField); ok {
		return field.GetText()
	}
	return ""
}
