package main

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-forms/pkg/render"
	"github.com/goliatone/go-forms/pkg/renderers/layout"
)

// builtinThemes returns the themes selectable with --forms.theme.
func builtinThemes() (*render.ThemeSet, error) {
	return render.NewThemeSet(
		&theme.Manifest{
			Name:    "bootstrap",
			Version: "3.4.1",
			Tokens: map[string]string{
				layout.TokenFormClass:    "form-horizontal",
				layout.TokenFieldClass:   "form-group",
				layout.TokenInvalidClass: "has-error",
				layout.TokenErrorClass:   "help-block",
				layout.TokenSubmitClass:  "btn btn-primary",
				"color.primary":          "#337ab7",
			},
			Variants: map[string]theme.Variant{
				"dark": {
					Tokens: map[string]string{
						layout.TokenSubmitClass: "btn btn-default",
						"color.primary":         "#222222",
						"color.background":      "#303030",
					},
				},
			},
		},
		&theme.Manifest{
			Name:    "plain",
			Version: "1.0.0",
			Tokens: map[string]string{
				layout.TokenFormClass:    "form",
				layout.TokenSectionClass: "form-section",
				layout.TokenFieldClass:   "field",
				layout.TokenInvalidClass: "field--invalid",
				layout.TokenErrorsClass:  "form-errors",
				layout.TokenErrorClass:   "field-error",
				layout.TokenSubmitClass:  "button",
				layout.TokenSubmitLabel:  "Send",
			},
		},
	)
}
