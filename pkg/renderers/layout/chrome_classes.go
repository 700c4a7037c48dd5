package layout

import "github.com/goliatone/go-forms/pkg/render"

// ChromeClass is a semantic CSS class applied to the form scaffolding.
type ChromeClass string

const (
	ClassForm    ChromeClass = "forms-form"
	ClassSection ChromeClass = "forms-section"
	ClassField   ChromeClass = "form-group"
	ClassInvalid ChromeClass = "has-error"
	ClassErrors  ChromeClass = "forms-errors"
	ClassError   ChromeClass = "help-block"
	ClassSubmit  ChromeClass = "btn btn-primary"
)

// Theme tokens that replace the chrome classes.
const (
	TokenFormClass    = "form.class"
	TokenSectionClass = "section.class"
	TokenFieldClass   = "field.class"
	TokenInvalidClass = "field.invalid_class"
	TokenErrorsClass  = "errors.class"
	TokenErrorClass   = "error.class"
	TokenSubmitClass  = "submit.class"
	TokenSubmitLabel  = "submit.label"
)

// TemplateKey is the theme template key that swaps the form template.
const TemplateKey = "forms.layout"

func chromeClasses(tokens *render.ThemeConfig) map[string]string {
	return map[string]string{
		"form":    tokens.Token(TokenFormClass, string(ClassForm)),
		"section": tokens.Token(TokenSectionClass, string(ClassSection)),
		"field":   tokens.Token(TokenFieldClass, string(ClassField)),
		"invalid": tokens.Token(TokenInvalidClass, string(ClassInvalid)),
		"errors":  tokens.Token(TokenErrorsClass, string(ClassErrors)),
		"error":   tokens.Token(TokenErrorClass, string(ClassError)),
		"submit":  tokens.Token(TokenSubmitClass, string(ClassSubmit)),
	}
}
