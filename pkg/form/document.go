package form

import (
	"fmt"
	"strings"
)

// Document is the serialisable form definition: the form attributes, the
// groups and the ordered control definitions.
type Document struct {
	Name     string  `json:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty" koanf:"name"`
	Action   string  `json:"action,omitempty" yaml:"action,omitempty" msgpack:"action,omitempty" koanf:"action"`
	Method   string  `json:"method,omitempty" yaml:"method,omitempty" msgpack:"method,omitempty" koanf:"method"`
	EncType  string  `json:"enctype,omitempty" yaml:"enctype,omitempty" msgpack:"enctype,omitempty" koanf:"enctype"`
	Groups   []Group `json:"groups,omitempty" yaml:"groups,omitempty" msgpack:"groups,omitempty" koanf:"groups"`
	Controls []Entry `json:"controls" yaml:"controls" msgpack:"controls" koanf:"controls"`
}

// Document returns the definition of the form.
func (f *Form) Document() Document {
	return Document{
		Name:     f.Name(),
		Action:   f.action,
		Method:   string(f.method),
		EncType:  string(f.encType),
		Groups:   f.Groups(),
		Controls: f.Definitions(),
	}
}

// FromDocument rebuilds a form. Options override the document attributes.
func FromDocument(doc Document, opts ...Option) (*Form, error) {
	base := []Option{
		WithName(doc.Name),
		WithAction(doc.Action),
		WithMethod(Method(doc.Method)),
		WithEncType(EncType(doc.EncType)),
	}
	f := New(append(base, opts...)...)
	for _, group := range doc.Groups {
		f.AddGroup(group.Name, group.Label, group.Priority)
	}
	for i, entry := range doc.Controls {
		if strings.TrimSpace(entry.Name) == "" {
			if name, ok := entry.Options["name"].(string); ok {
				entry.Name = name
			}
		}
		if err := f.AddEntries(entry); err != nil {
			return nil, fmt.Errorf("form: document control %d: %w", i, err)
		}
	}
	return f, nil
}
