package control

import "github.com/a-h/templ"

// Password is an input that never echoes its stored value and treats a blank
// submission as "unchanged".
type Password struct {
	Input
}

var _ Control = (*Password)(nil)

// NewPassword returns a password input.
func NewPassword(name string) *Password {
	p := &Password{Input: *NewInput(name)}
	p.inputType = TypePassword
	return p
}

// Variant returns the registry tag.
func (p *Password) Variant() string {
	return VariantPassword
}

// SetOptions merges the shared options. The input type stays "password".
func (p *Password) SetOptions(options map[string]any) error {
	return p.applyOptions(options, KeyType)
}

// Render always renders an empty value.
func (p *Password) Render(any) templ.Component {
	return p.render("", false)
}

// Reconcile keeps the previous value when the submission is blank.
func (p *Password) Reconcile(submitted, previous any) any {
	if isBlank(submitted) {
		return previous
	}
	return submitted
}

// Definition returns the option view.
func (p *Password) Definition() map[string]any {
	return p.definition(VariantPassword)
}

func isBlank(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	default:
		return false
	}
}
