// Package forms builds server-side HTML forms from declarative control
// definitions. A Form is an ordered collection of controls (inputs, selects,
// passwords and input groups) that merges option bags, reconciles submitted
// values with stored ones, buckets controls into prioritised groups and
// aggregates the validation rules of its controls.
//
// The root package re-exports the common entry points; the pkg/ tree holds
// the building blocks.
package forms

import (
	"github.com/goliatone/go-forms/pkg/control"
	"github.com/goliatone/go-forms/pkg/definition"
	"github.com/goliatone/go-forms/pkg/form"
	"github.com/goliatone/go-forms/pkg/validation"
)

type (
	Form     = form.Form
	Entry    = form.Entry
	Group    = form.Group
	Document = form.Document
	Control  = control.Control
)

// New returns an empty form.
func New(opts ...form.Option) *Form {
	return form.New(opts...)
}

// Make builds a control from an option bag with the default registry.
func Make(name string, options map[string]any) (Control, error) {
	return control.Make(name, options)
}

// Load reads a definition file (json, yaml, toml or msgpack).
func Load(path string, opts ...form.Option) (*Form, error) {
	return definition.LoadFile(path, opts...)
}

// Submit reconciles submitted values with the previous ones and validates the
// result against the form rules. The reconciled values are returned even when
// validation fails so they can be rendered back.
func Submit(f *Form, submitted, previous map[string]any) (map[string]any, *validation.Errors, error) {
	values := f.Values(submitted, previous)
	errs, err := validation.Validate(validation.Request{
		Data:       values,
		Rules:      f.ValidationRules(),
		Messages:   f.ValidationMessages(),
		Attributes: f.ValidationAttributes(),
	})
	if err != nil {
		return values, nil, err
	}
	return values, errs, nil
}
