// Package control defines form controls: the single-field building blocks a
// form collection is made of. A control owns its name, default value, CSS
// classes, HTML attributes, validation rule, custom messages, label and group,
// plus any extra options a concrete variant (or a renderer) cares about.
//
// Controls render to templ.Component values so the markup can be written
// straight into an http.ResponseWriter or embedded into a larger template.
// Every piece of caller supplied text is escaped with templ.EscapeString.
//
// Concrete variants are built through a Registry keyed by a variant tag
// (input, select, password, input_group). A control definition is the flat
// option map produced by Definition and accepted by Make, which makes it the
// persistence format for form definitions.
package control

import (
	"maps"
	"slices"

	"github.com/a-h/templ"
)

// DefaultGroup is the bucket controls land in when no group is configured.
const DefaultGroup = "*"

// Container is the back-reference a control keeps to the collection that owns
// it. The container name, when set, prefixes rendered field names.
type Container interface {
	Name() string
}

// Control is a single form field.
type Control interface {
	Name() string
	Variant() string

	// SetOptions merges an option bag into the control state.
	SetOptions(options map[string]any) error

	// Reconcile combines a freshly submitted value with the previously stored
	// one. The default policy keeps the submitted value.
	Reconcile(submitted, previous any) any

	Default() any
	SetDefault(value any)
	Rule() any
	SetRule(rule any)

	Classes() []string
	Attributes() map[string]string
	Messages() map[string]string
	Label() string
	Group() string
	Option(key string) (any, bool)

	Container() Container
	SetContainer(container Container)

	// Render produces the HTML for the control given the current value.
	Render(value any) templ.Component

	// Definition returns the serialisable option view of the control.
	Definition() map[string]any
}

// Base carries the state shared by every control variant. Concrete controls
// embed it and add their own options on top.
type Base struct {
	name       string
	value      any
	classes    []string
	attributes map[string]string
	rule       any
	messages   map[string]string
	label      string
	group      string
	extras     map[string]any
	container  Container
}

func newBase(name string) Base {
	return Base{
		name:  name,
		group: DefaultGroup,
	}
}

// Name returns the control name.
func (b *Base) Name() string {
	return b.name
}

// Default returns the value configured through the "value" option.
func (b *Base) Default() any {
	return b.value
}

// SetDefault replaces the configured value.
func (b *Base) SetDefault(value any) {
	b.value = normalizeValue(value)
}

// Rule returns the validation rule, either a pipe separated string or a list.
func (b *Base) Rule() any {
	return b.rule
}

// SetRule replaces the validation rule.
func (b *Base) SetRule(rule any) {
	b.rule = normalizeRule(rule)
}

// Reconcile keeps the submitted value.
func (b *Base) Reconcile(submitted, _ any) any {
	return submitted
}

// Classes returns a copy of the CSS class list.
func (b *Base) Classes() []string {
	return slices.Clone(b.classes)
}

// Attributes returns a copy of the HTML attributes.
func (b *Base) Attributes() map[string]string {
	return maps.Clone(b.attributes)
}

// Messages returns a copy of the custom validation messages keyed by rule.
func (b *Base) Messages() map[string]string {
	return maps.Clone(b.messages)
}

// Label returns the display label.
func (b *Base) Label() string {
	return b.label
}

// Group returns the presentation group name.
func (b *Base) Group() string {
	if b.group == "" {
		return DefaultGroup
	}
	return b.group
}

// Option looks up an unrecognised option retained from SetOptions.
func (b *Base) Option(key string) (any, bool) {
	value, ok := b.extras[key]
	return value, ok
}

// Container returns the owning collection, nil until added to one.
func (b *Base) Container() Container {
	return b.container
}

// SetContainer sets the owning collection.
func (b *Base) SetContainer(container Container) {
	b.container = container
}

// FieldName returns the HTML name attribute for the control, prefixed with
// the container name when there is one.
func (b *Base) FieldName() string {
	return fieldName(b.container, b.name)
}

func fieldName(container Container, name string) string {
	if container == nil {
		return name
	}
	if prefix := container.Name(); prefix != "" {
		return prefix + "[" + name + "]"
	}
	return name
}

// IsEmptyRule reports whether a rule carries no constraint.
func IsEmptyRule(rule any) bool {
	switch r := rule.(type) {
	case nil:
		return true
	case string:
		return r == ""
	case []string:
		return len(r) == 0
	case []any:
		return len(r) == 0
	default:
		return false
	}
}
