package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-forms/pkg/control"
	"github.com/goliatone/go-forms/pkg/form"
)

// LabelKeyOption names the control option holding a translation key for the
// label.
const LabelKeyOption = "label_key"

// GroupKeyPrefix prefixes group names to form the translation key of a
// group label.
const GroupKeyPrefix = "groups."

// ErrMissingTranslator is passed to MissingTranslationHandler when no
// translator is configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves a key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler decides what to render when a key cannot be
// translated. args carries a map with the "default" text.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	for _, arg := range args {
		if m, ok := arg.(map[string]any); ok {
			if fallback, ok := m["default"].(string); ok && strings.TrimSpace(fallback) != "" {
				return fallback
			}
		}
	}
	return key
}

// Translate resolves key through the configured translator, falling back to
// fallback (or the OnMissing handler) when the key is unknown.
func (o RenderOptions) Translate(key, fallback string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	onMissing := o.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	if o.Translator == nil {
		if o.OnMissing == nil {
			return fallback
		}
		return onMissing(o.Locale, key, []any{map[string]any{"default": fallback}}, ErrMissingTranslator)
	}
	msg, err := o.Translator.Translate(o.Locale, key)
	if err == nil && strings.TrimSpace(msg) != "" {
		return msg
	}
	return onMissing(o.Locale, key, []any{map[string]any{"default": fallback}}, err)
}

// ControlLabel returns the translated label of ctrl. The label_key option
// wins; otherwise the label itself is looked up as a key.
func (o RenderOptions) ControlLabel(ctrl control.Control) string {
	if ctrl == nil {
		return ""
	}
	label := ctrl.Label()
	if raw, ok := ctrl.Option(LabelKeyOption); ok {
		if key, ok := raw.(string); ok && strings.TrimSpace(key) != "" {
			return o.Translate(key, label)
		}
	}
	if label == "" || o.Translator == nil {
		return label
	}
	if msg, err := o.Translator.Translate(o.Locale, label); err == nil && strings.TrimSpace(msg) != "" {
		return msg
	}
	return label
}

// GroupLabel returns the translated label of a group.
func (o RenderOptions) GroupLabel(group form.Group) string {
	if o.Translator == nil {
		return group.Label
	}
	msg, err := o.Translator.Translate(o.Locale, GroupKeyPrefix+group.Name)
	if err != nil || strings.TrimSpace(msg) == "" {
		return group.Label
	}
	return msg
}

// TemplateFuncs exposes translation helpers to template engines.
func (o RenderOptions) TemplateFuncs() map[string]any {
	return map[string]any{
		"translate": func(key string, fallback ...string) string {
			def := key
			if len(fallback) > 0 {
				def = fallback[0]
			}
			return o.Translate(key, def)
		},
		"current_locale": func() string {
			return o.Locale
		},
	}
}
