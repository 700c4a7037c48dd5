// Package form holds the ordered control container and the Form value built
// on top of it. A Collection owns its controls, aggregates their validation
// rules and reconciles submitted values against previously stored ones. Form
// embeds a Collection and adds the HTTP action, method and encoding type.
package form

import (
	"encoding/json"
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/goliatone/go-forms/pkg/control"
	"github.com/goliatone/go-forms/pkg/logging"
)

// Entry is one named control definition, used to build a collection from an
// ordered list.
type Entry struct {
	Name    string         `json:"name" yaml:"name" msgpack:"name" koanf:"name"`
	Options map[string]any `json:"options,omitempty" yaml:"options,omitempty" msgpack:"options,omitempty" koanf:"options"`
}

// Collection is an ordered container of controls. It is not safe for
// concurrent mutation.
type Collection struct {
	name     string
	controls []control.Control
	groups   map[string]*groupEntry
	order    int
	registry *control.Registry
	logger   logging.Logger
}

var _ control.Container = (*Collection)(nil)

// NewCollection builds a collection from ordered entries. Pass nil entries
// for an empty collection.
func NewCollection(entries []Entry, opts ...Option) (*Collection, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	c := newCollection(cfg)
	if err := c.AddEntries(entries...); err != nil {
		return nil, err
	}
	return c, nil
}

func newCollection(cfg config) *Collection {
	c := &Collection{
		name:     cfg.name,
		groups:   make(map[string]*groupEntry),
		registry: cfg.registry,
		logger:   cfg.logger,
	}
	c.AddGroup(control.DefaultGroup, "", DefaultGroupPriority)
	return c
}

// Name returns the field name prefix. Empty means no prefix.
func (c *Collection) Name() string {
	return c.name
}

// SetName changes the field name prefix.
func (c *Collection) SetName(name string) {
	c.name = strings.TrimSpace(name)
}

// Registry returns the registry used by AddEntries.
func (c *Collection) Registry() *control.Registry {
	return c.registry
}

// Add appends controls in call order and points each one at this collection.
// Nil controls are rejected and nothing is added.
func (c *Collection) Add(controls ...control.Control) error {
	for i, ctrl := range controls {
		if ctrl == nil {
			return fmt.Errorf("form: control at position %d is nil", i)
		}
	}
	for _, ctrl := range controls {
		ctrl.SetContainer(c)
		c.controls = append(c.controls, ctrl)
		c.logger.Debug("form: added control %q (%s)", ctrl.Name(), ctrl.Variant())
	}
	return nil
}

// MustAdd panics when Add fails.
func (c *Collection) MustAdd(controls ...control.Control) {
	if err := c.Add(controls...); err != nil {
		panic(err)
	}
}

// AddEntries builds each entry through the registry and adds it.
func (c *Collection) AddEntries(entries ...Entry) error {
	built := make([]control.Control, 0, len(entries))
	for _, entry := range entries {
		ctrl, err := c.registry.Make(entry.Name, entry.Options)
		if err != nil {
			c.logger.Error("form: build control %q: %v", entry.Name, err)
			return fmt.Errorf("form: build control %q: %w", entry.Name, err)
		}
		built = append(built, ctrl)
	}
	return c.Add(built...)
}

// Len returns the number of controls.
func (c *Collection) Len() int {
	return len(c.controls)
}

// Controls returns the controls in insertion order.
func (c *Collection) Controls() []control.Control {
	return slices.Clone(c.controls)
}

// All yields index and control pairs in insertion order.
func (c *Collection) All() iter.Seq2[int, control.Control] {
	return func(yield func(int, control.Control) bool) {
		for i := 0; i < len(c.controls); i++ {
			if !yield(i, c.controls[i]) {
				return
			}
		}
	}
}

// ControlByName returns the first control with the given name. When variant
// is supplied the control must also be of that variant.
func (c *Collection) ControlByName(name string, variant ...string) (control.Control, bool) {
	want := ""
	if len(variant) > 0 {
		want = strings.ToLower(strings.TrimSpace(variant[0]))
	}
	for _, ctrl := range c.controls {
		if ctrl.Name() != name {
			continue
		}
		if want != "" && ctrl.Variant() != want {
			continue
		}
		return ctrl, true
	}
	return nil, false
}

// ValidationRules maps control names to their rules, skipping empty rules.
func (c *Collection) ValidationRules() map[string]any {
	rules := make(map[string]any)
	for _, ctrl := range c.controls {
		rule := ctrl.Rule()
		if control.IsEmptyRule(rule) {
			continue
		}
		rules[ctrl.Name()] = rule
	}
	return rules
}

// ValidationMessages flattens per-control messages to "name.rule" keys.
func (c *Collection) ValidationMessages() map[string]string {
	messages := make(map[string]string)
	for _, ctrl := range c.controls {
		for rule, message := range ctrl.Messages() {
			messages[ctrl.Name()+"."+rule] = message
		}
	}
	return messages
}

// ValidationAttributes maps control names to their labels, for messages that
// should read "The E-mail field" rather than "The email field".
func (c *Collection) ValidationAttributes() map[string]string {
	attributes := make(map[string]string)
	for _, ctrl := range c.controls {
		if label := strings.TrimSpace(ctrl.Label()); label != "" {
			attributes[ctrl.Name()] = label
		}
	}
	return attributes
}

// Values starts from a copy of previous and overwrites the keys present in
// submitted with each control's reconciled value. A missing previous value is
// passed to the control as "".
func (c *Collection) Values(submitted, previous map[string]any) map[string]any {
	result := make(map[string]any, len(previous)+len(submitted))
	maps.Copy(result, previous)
	for _, ctrl := range c.controls {
		name := ctrl.Name()
		value, ok := submitted[name]
		if !ok {
			continue
		}
		old, ok := previous[name]
		if !ok {
			old = ""
		}
		result[name] = ctrl.Reconcile(value, old)
	}
	return result
}

// Defaults returns the configured default value of every control that has
// one.
func (c *Collection) Defaults() map[string]any {
	values := make(map[string]any)
	for _, ctrl := range c.controls {
		if value := ctrl.Default(); value != nil {
			values[ctrl.Name()] = value
		}
	}
	return values
}

// Definitions returns the control definitions in order.
func (c *Collection) Definitions() []Entry {
	entries := make([]Entry, 0, len(c.controls))
	for _, ctrl := range c.controls {
		entries = append(entries, Entry{Name: ctrl.Name(), Options: ctrl.Definition()})
	}
	return entries
}

// MarshalJSON encodes the collection as its list of control definitions.
func (c *Collection) MarshalJSON() ([]byte, error) {
	defs := make([]map[string]any, 0, len(c.controls))
	for _, ctrl := range c.controls {
		defs = append(defs, ctrl.Definition())
	}
	return json.Marshal(defs)
}
