package control

import (
	"maps"
	"slices"

	"github.com/mitchellh/copystructure"
)

// definition builds the option view shared by all variants. Extras come
// first so the structured fields always win on collision.
func (b *Base) definition(variant string) map[string]any {
	def := make(map[string]any, len(b.extras)+9)
	for key, value := range b.extras {
		def[key] = deepCopy(value)
	}

	def[KeyControl] = variant
	def[KeyName] = b.name
	def[KeyGroup] = b.Group()
	if !IsEmptyRule(b.rule) {
		def[KeyRule] = deepCopy(b.rule)
	} else {
		delete(def, KeyRule)
	}
	if len(b.classes) > 0 {
		def[KeyClasses] = slices.Clone(b.classes)
	} else {
		delete(def, KeyClasses)
	}
	if b.value != nil {
		def[KeyValue] = deepCopy(b.value)
	} else {
		delete(def, KeyValue)
	}
	if b.label != "" {
		def[KeyLabel] = b.label
	} else {
		delete(def, KeyLabel)
	}
	if len(b.messages) > 0 {
		def[KeyMessages] = maps.Clone(b.messages)
	} else {
		delete(def, KeyMessages)
	}
	if len(b.attributes) > 0 {
		def[KeyAttributes] = maps.Clone(b.attributes)
	} else {
		delete(def, KeyAttributes)
	}
	return def
}

func deepCopy(value any) any {
	copied, err := copystructure.Copy(value)
	if err != nil {
		return value
	}
	return copied
}
