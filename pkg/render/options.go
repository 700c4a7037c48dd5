package render

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-forms/pkg/control"
	"github.com/goliatone/go-forms/pkg/form"
)

// RenderOptions describe per-request data that renderers use to customise
// their output without mutating the form.
type RenderOptions struct {
	// Method overrides the method declared by the form. Verbs a browser cannot
	// submit (PUT, PATCH, DELETE) become POST plus a hidden _method input.
	Method string
	// Values holds the current value per control name. Controls without an
	// entry render their default.
	Values map[string]any
	// Errors carries field-level validation messages keyed by control name.
	Errors map[string][]string
	// FormErrors are rendered above the controls.
	FormErrors []string
	// Hidden adds hidden inputs, rendered sorted by name.
	Hidden map[string]string
	// Subset limits the rendered controls.
	Subset FieldSubset
	// Theme supplies tokens and template overrides.
	Theme *ThemeConfig

	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
}

// ValueFor returns the value a control should render with.
func (o RenderOptions) ValueFor(ctrl control.Control) any {
	if ctrl == nil {
		return nil
	}
	if value, ok := o.Values[ctrl.Name()]; ok {
		return value
	}
	return ctrl.Default()
}

// FieldErrors returns the messages recorded for a control.
func (o RenderOptions) FieldErrors(ctrl control.Control) []string {
	if ctrl == nil || len(o.Errors) == 0 {
		return nil
	}
	return normalizeMessages(o.Errors[ctrl.Name()])
}

// ResolveMethod picks the method the rendered form submits with and the
// hidden override value, if one is needed.
func (o RenderOptions) ResolveMethod(f *form.Form) (method string, override string) {
	raw := strings.ToUpper(strings.TrimSpace(o.Method))
	if raw == "" && f != nil {
		raw = string(f.Method())
	}
	switch raw {
	case "", http.MethodPost:
		return http.MethodPost, ""
	case http.MethodGet:
		return http.MethodGet, ""
	default:
		return http.MethodPost, raw
	}
}

// HiddenFields merges the configured hidden inputs with the method override
// and returns them sorted.
func (o RenderOptions) HiddenFields(f *form.Form) []HiddenField {
	var extra []HiddenField
	if _, override := o.ResolveMethod(f); override != "" {
		extra = append(extra, MethodOverride(override))
	}
	return SortedHiddenFields(MergeHiddenFields(o.Hidden, extra...))
}
