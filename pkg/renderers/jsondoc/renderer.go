// Package jsondoc renders a form as a JSON document for API clients: the
// serialisable definition plus the current values, errors and hidden inputs.
package jsondoc

import (
	"context"
	"encoding/json"

	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-forms/pkg/control"
	"github.com/goliatone/go-forms/pkg/form"
	"github.com/goliatone/go-forms/pkg/render"
)

// Name is the registry name of the renderer.
const Name = "json"

// Payload is the rendered document.
type Payload struct {
	Form       form.Document        `json:"form"`
	Method     string               `json:"method"`
	Values     map[string]any       `json:"values"`
	Rules      map[string]any       `json:"rules,omitempty"`
	Errors     map[string][]string  `json:"errors,omitempty"`
	FormErrors []string             `json:"form_errors,omitempty"`
	Hidden     []render.HiddenField `json:"hidden,omitempty"`
	Theme      *render.ThemeConfig  `json:"theme,omitempty"`
}

// Renderer emits Payload as JSON.
type Renderer struct {
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

// New returns a renderer. A non-empty indent pretty prints the output.
func New(indent string) *Renderer {
	return &Renderer{indent: indent}
}

func (r *Renderer) Name() string        { return Name }
func (r *Renderer) ContentType() string { return "application/json" }

// Render builds the payload. Values fall back to control defaults and
// password values are never echoed.
func (r *Renderer) Render(_ context.Context, f *form.Form, opts render.RenderOptions) ([]byte, error) {
	if f == nil {
		return nil, errors.New("form is required", errors.CategoryBadInput).
			WithTextCode("JSON_FORM_REQUIRED")
	}

	method, _ := opts.ResolveMethod(f)
	payload := Payload{
		Form:       f.Document(),
		Method:     method,
		Values:     make(map[string]any, f.Len()),
		Rules:      f.ValidationRules(),
		FormErrors: render.MergeFormErrors(opts.FormErrors),
		Hidden:     opts.HiddenFields(f),
		Theme:      opts.Theme,
	}
	for _, ctrl := range f.Controls() {
		if !opts.Subset.Matches(ctrl) {
			continue
		}
		value := opts.ValueFor(ctrl)
		if ctrl.Variant() == control.VariantPassword {
			value = ""
		}
		payload.Values[ctrl.Name()] = value
		if messages := opts.FieldErrors(ctrl); len(messages) > 0 {
			if payload.Errors == nil {
				payload.Errors = make(map[string][]string)
			}
			payload.Errors[ctrl.Name()] = messages
		}
	}

	var (
		out []byte
		err error
	)
	if r.indent != "" {
		out, err = json.MarshalIndent(payload, "", r.indent)
	} else {
		out, err = json.Marshal(payload)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to encode form document").
			WithTextCode("JSON_RENDER_FAILED").
			WithMetadata(map[string]any{"form": f.Name()})
	}
	return out, nil
}
