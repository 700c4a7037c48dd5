package control

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

// KeyItems holds the select options.
const KeyItems = "items"

// Item is one <option> of a Select.
type Item struct {
	Value string `json:"value" yaml:"value" msgpack:"value"`
	Label string `json:"label" yaml:"label" msgpack:"label"`
}

// Select renders a <select> element. With a truthy "multiple" attribute the
// field name gains a [] suffix and the value is treated as a collection.
type Select struct {
	Base
	rawItems any
	items    []Item
	multiple bool
}

var _ Control = (*Select)(nil)

// Chooser is implemented by controls that offer a fixed set of items.
// Variants embedding *Select satisfy it too.
type Chooser interface {
	Control
	Items() []Item
	Multiple() bool
}

// NewSelect returns a single-choice select without items.
func NewSelect(name string) *Select {
	return &Select{Base: newBase(name)}
}

// Variant returns the registry tag.
func (s *Select) Variant() string {
	return VariantSelect
}

// Items returns the parsed options in render order.
func (s *Select) Items() []Item {
	return slices.Clone(s.items)
}

// SetItems replaces the options with a copy of items.
func (s *Select) SetItems(items []Item) {
	s.items = slices.Clone(items)
	s.rawItems = slices.Clone(items)
}

// Multiple reports whether the select accepts several values.
func (s *Select) Multiple() bool {
	return s.multiple
}

// SetOptions merges the shared options plus "items". The multiple flag is
// read from the attributes once the merge is done.
func (s *Select) SetOptions(options map[string]any) error {
	if err := s.applyOptions(options, KeyItems); err != nil {
		return err
	}
	if raw, ok := options[KeyItems]; ok {
		s.rawItems = deepCopy(raw)
		s.items = ParseItems(raw)
	}
	s.multiple = truthyAttr(s.attributes["multiple"])
	return nil
}

// ParseItems accepts a map of value to label, a list of scalars, a list of
// {value, label} maps or a []Item. Anything else yields no items.
func ParseItems(raw any) []Item {
	switch v := raw.(type) {
	case []Item:
		return slices.Clone(v)
	case map[string]string:
		items := make([]Item, 0, len(v))
		for _, key := range sortedKeys(v) {
			items = append(items, Item{Value: key, Label: v[key]})
		}
		return items
	case map[string]any:
		items := make([]Item, 0, len(v))
		for _, key := range sortedKeys(v) {
			items = append(items, Item{Value: key, Label: stringify(v[key])})
		}
		return items
	case map[any]any:
		converted := make(map[string]any, len(v))
		for key, label := range v {
			converted[fmt.Sprint(key)] = label
		}
		return ParseItems(converted)
	case []string:
		items := make([]Item, 0, len(v))
		for _, value := range v {
			items = append(items, Item{Value: value, Label: value})
		}
		return items
	case []any:
		items := make([]Item, 0, len(v))
		for _, entry := range v {
			item, ok := parseItem(entry)
			if !ok {
				continue
			}
			items = append(items, item)
		}
		return items
	default:
		return nil
	}
}

func parseItem(entry any) (Item, bool) {
	switch e := entry.(type) {
	case nil:
		return Item{}, false
	case map[string]any:
		value, ok := e["value"]
		if !ok {
			return Item{}, false
		}
		item := Item{Value: stringify(value)}
		if label, ok := e["label"]; ok {
			item.Label = stringify(label)
		} else {
			item.Label = item.Value
		}
		return item, true
	case map[string]string:
		value, ok := e["value"]
		if !ok {
			return Item{}, false
		}
		label, ok := e["label"]
		if !ok {
			label = value
		}
		return Item{Value: value, Label: label}, true
	case map[any]any, []any:
		return Item{}, false
	default:
		value := stringify(e)
		return Item{Value: value, Label: value}, true
	}
}

// sortedKeys orders numeric keys numerically ahead of the others.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b string) int {
		ai, aerr := strconv.Atoi(a)
		bi, berr := strconv.Atoi(b)
		switch {
		case aerr == nil && berr == nil:
			return ai - bi
		case aerr == nil:
			return -1
		case berr == nil:
			return 1
		default:
			return strings.Compare(a, b)
		}
	})
	return keys
}

func truthyAttr(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "false", "0", "no", "off":
		return false
	default:
		return true
	}
}

// Render writes the <select> element, marking options that match value.
func (s *Select) Render(value any) templ.Component {
	name := s.FieldName()
	if s.multiple {
		name += "[]"
	}
	classes := classList(baseControlClass, s.classes)
	attributes := s.Attributes()
	items := s.Items()
	selected := selectedSet(value, s.multiple)

	return fragment(func(b *strings.Builder) {
		b.WriteString("<select")
		writeAttr(b, "class", classes)
		writeAttributes(b, attributes, "class", "name", "multiple")
		if s.multiple {
			writeAttr(b, "multiple", "multiple")
		}
		writeAttr(b, "name", name)
		b.WriteString(">")
		for _, item := range items {
			b.WriteString("<option")
			writeAttr(b, "value", item.Value)
			if _, ok := selected[item.Value]; ok {
				b.WriteString(" selected")
			}
			b.WriteString(">")
			b.WriteString(templ.EscapeString(item.Label))
			b.WriteString("</option>")
		}
		b.WriteString("</select>")
	})
}

func selectedSet(value any, multiple bool) map[string]struct{} {
	set := make(map[string]struct{})
	if value == nil {
		return set
	}
	if !multiple {
		set[stringify(value)] = struct{}{}
		return set
	}
	switch v := value.(type) {
	case []string:
		for _, entry := range v {
			set[entry] = struct{}{}
		}
	case []any:
		for _, entry := range v {
			set[stringify(entry)] = struct{}{}
		}
	default:
		set[stringify(v)] = struct{}{}
	}
	return set
}

// Definition returns the option view including the items as configured.
func (s *Select) Definition() map[string]any {
	def := s.definition(VariantSelect)
	if s.rawItems != nil {
		def[KeyItems] = deepCopy(s.rawItems)
	}
	return def
}
