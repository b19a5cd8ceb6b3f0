// Package login models the login view's form. It performs no validation or
// authentication; submissions are forwarded verbatim to an injected callback.
package login

// Callback receives a submitted username and password exactly as entered.
type Callback func(username, password string)

// Form collects credentials for a single login view.
type Form struct {
	Username string
	Password string

	onSubmit Callback
}

// NewForm creates an empty form that reports submissions to cb. A nil cb
// makes Submit a no-op.
func NewForm(cb Callback) *Form {
	return &Form{onSubmit: cb}
}

// SetUsername replaces the username field.
func (f *Form) SetUsername(v string) { f.Username = v }

// SetPassword replaces the password field.
func (f *Form) SetPassword(v string) { f.Password = v }

// Submit invokes the callback once with the current field values. Empty
// values are passed through unchanged.
func (f *Form) Submit() {
	if f.onSubmit == nil {
		return
	}
	f.onSubmit(f.Username, f.Password)
}

// Reset clears both fields.
func (f *Form) Reset() {
	f.Username = ""
	f.Password = ""
}
