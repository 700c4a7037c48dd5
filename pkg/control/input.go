package control

import (
	"strings"

	"github.com/a-h/templ"
)

// Input types with first-class support. Any other string is passed through to
// the type attribute.
const (
	TypeText     = "text"
	TypePassword = "password"
	TypeCheckbox = "checkbox"
	TypeRadio    = "radio"
)

// KeyType selects the input type.
const KeyType = "type"

// KeyCheckedValue is the value a ticked checkbox or radio submits.
const KeyCheckedValue = "checked_value"

// DefaultCheckedValue is submitted by a ticked checkbox unless configured.
const DefaultCheckedValue = "1"

// Input renders a single <input> element.
type Input struct {
	Base
	inputType    string
	checkedValue string
}

var _ Control = (*Input)(nil)

// NewInput returns a text input.
func NewInput(name string) *Input {
	return &Input{Base: newBase(name), inputType: TypeText, checkedValue: DefaultCheckedValue}
}

// Variant returns the registry tag.
func (i *Input) Variant() string {
	return VariantInput
}

// Type returns the input type attribute.
func (i *Input) Type() string {
	return i.inputType
}

// SetType changes the input type. Empty values are ignored.
func (i *Input) SetType(inputType string) {
	if inputType = strings.TrimSpace(inputType); inputType != "" {
		i.inputType = inputType
	}
}

// CheckedValue returns the value submitted by a ticked checkbox or radio.
func (i *Input) CheckedValue() string {
	return i.checkedValue
}

// Checkable reports whether the input is a checkbox or radio.
func (i *Input) Checkable() bool {
	return i.inputType == TypeCheckbox || i.inputType == TypeRadio
}

// SetOptions merges the shared options plus "type" and "checked_value".
func (i *Input) SetOptions(options map[string]any) error {
	if err := i.applyOptions(options, KeyType, KeyCheckedValue); err != nil {
		return err
	}
	if inputType, ok := optionString(options, KeyType); ok {
		i.SetType(inputType)
	}
	if raw, ok := options[KeyCheckedValue]; ok {
		i.checkedValue = DefaultCheckedValue
		if v := strings.TrimSpace(stringify(raw)); v != "" {
			i.checkedValue = v
		}
	}
	return nil
}

// Render writes the <input> element with the escaped value. Checkboxes and
// radios always carry their checked value and are marked checked when value
// matches it. A checkbox also counts truthy values as checked.
func (i *Input) Render(value any) templ.Component {
	if !i.Checkable() {
		return i.render(stringify(value), false)
	}
	checked := stringify(value) == i.checkedValue
	if !checked && i.inputType == TypeCheckbox {
		checked = truthyValue(value)
	}
	return i.render(i.checkedValue, checked)
}

func truthyValue(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case nil:
		return false
	}
	switch strings.ToLower(strings.TrimSpace(stringify(value))) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

func (i *Input) render(value string, checked bool) templ.Component {
	name := i.FieldName()
	inputType := i.inputType
	classes := classList(baseControlClass, i.classes)
	attributes := i.Attributes()
	return fragment(func(b *strings.Builder) {
		b.WriteString("<input")
		writeAttr(b, "type", inputType)
		writeAttr(b, "class", classes)
		writeAttributes(b, attributes, "type", "class", "name", "value", "checked")
		writeAttr(b, "name", name)
		writeAttr(b, "value", value)
		if checked {
			b.WriteString(" checked")
		}
		b.WriteString(">")
	})
}

// Definition returns the option view including the input type.
func (i *Input) Definition() map[string]any {
	def := i.definition(VariantInput)
	def[KeyType] = i.inputType
	if i.Checkable() && i.checkedValue != DefaultCheckedValue {
		def[KeyCheckedValue] = i.checkedValue
	}
	return def
}
