package control

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mitchellh/copystructure"
)

// Option keys recognised by every control.
const (
	KeyControl    = "control"
	KeyName       = "name"
	KeyClasses    = "classes"
	KeyRule       = "rule"
	KeyValue      = "value"
	KeyMessages   = "messages"
	KeyLabel      = "label"
	KeyAttributes = "attributes"
	KeyGroup      = "group"
)

// Options is the structured form of a control option bag. Keys that are not
// recognised here end up in Extras.
type Options struct {
	Control    string            `mapstructure:"control"`
	Name       string            `mapstructure:"name"`
	Classes    []string          `mapstructure:"classes"`
	Rule       any               `mapstructure:"rule"`
	Value      any               `mapstructure:"value"`
	Messages   map[string]string `mapstructure:"messages"`
	Label      string            `mapstructure:"label"`
	Attributes map[string]string `mapstructure:"attributes"`
	Group      string            `mapstructure:"group"`
	Extras     map[string]any    `mapstructure:",remain"`
}

var (
	stringSliceType = reflect.TypeOf([]string(nil))
	stringMapType   = reflect.TypeOf(map[string]string(nil))
)

// DecodeOptions parses an option bag. Classes accept a list or a space
// separated string. Boolean attributes become name="name" when true and are
// dropped when false.
func DecodeOptions(options map[string]any) (Options, error) {
	var out Options
	if len(options) == 0 {
		return out, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			classListHook,
			attributeMapHook,
		),
	})
	if err != nil {
		return Options{}, fmt.Errorf("control: configure option decoder: %w", err)
	}
	if err := decoder.Decode(options); err != nil {
		return Options{}, fmt.Errorf("control: decode options: %w", err)
	}
	return out, nil
}

func classListHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != stringSliceType || from.Kind() != reflect.String {
		return data, nil
	}
	return strings.Fields(data.(string)), nil
}

func attributeMapHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != stringMapType || from.Kind() != reflect.Map {
		return data, nil
	}
	value := reflect.ValueOf(data)
	out := make(map[string]string, value.Len())
	iter := value.MapRange()
	for iter.Next() {
		key := strings.TrimSpace(fmt.Sprint(iter.Key().Interface()))
		if key == "" {
			continue
		}
		raw := iter.Value().Interface()
		switch v := raw.(type) {
		case nil:
			continue
		case bool:
			if v {
				out[key] = key
			}
		default:
			out[key] = fmt.Sprint(v)
		}
	}
	return out, nil
}

// applyOptions merges the recognised keys into the base state. Keys listed
// in own are handled by the concrete variant and are kept out of extras.
func (b *Base) applyOptions(options map[string]any, own ...string) error {
	opts, err := DecodeOptions(options)
	if err != nil {
		return err
	}

	has := func(key string) bool {
		_, ok := options[key]
		return ok
	}

	if has(KeyName) {
		b.name = strings.TrimSpace(opts.Name)
	}
	if has(KeyClasses) {
		b.classes = unionClasses(b.classes, opts.Classes)
	}
	if has(KeyRule) {
		b.rule = normalizeRule(opts.Rule)
	}
	if has(KeyValue) {
		b.value = normalizeValue(opts.Value)
	}
	if has(KeyMessages) && len(opts.Messages) > 0 {
		if b.messages == nil {
			b.messages = make(map[string]string, len(opts.Messages))
		}
		for rule, message := range opts.Messages {
			b.messages[rule] = message
		}
	}
	if has(KeyLabel) {
		b.label = opts.Label
	}
	if has(KeyAttributes) && len(opts.Attributes) > 0 {
		if b.attributes == nil {
			b.attributes = make(map[string]string, len(opts.Attributes))
		}
		for name, value := range opts.Attributes {
			b.attributes[name] = value
		}
	}
	// every bag places the control; no group key means the default group
	b.group = DefaultGroup
	if group := strings.TrimSpace(opts.Group); group != "" {
		b.group = group
	}

	for key, value := range opts.Extras {
		if slices.Contains(own, key) {
			continue
		}
		copied, err := copystructure.Copy(value)
		if err != nil {
			return fmt.Errorf("control: copy option %q: %w", key, err)
		}
		if b.extras == nil {
			b.extras = make(map[string]any)
		}
		b.extras[key] = copied
	}
	return nil
}

func unionClasses(existing, incoming []string) []string {
	out := slices.Clone(existing)
	for _, class := range incoming {
		class = strings.TrimSpace(class)
		if class == "" || slices.Contains(out, class) {
			continue
		}
		out = append(out, class)
	}
	return out
}

func normalizeRule(rule any) any {
	switch r := rule.(type) {
	case string:
		return strings.TrimSpace(r)
	case []string:
		return slices.Clone(r)
	case []any:
		return stringList(r)
	default:
		return rule
	}
}

func normalizeValue(value any) any {
	switch v := value.(type) {
	case []any:
		return stringList(v)
	case []string:
		return slices.Clone(v)
	default:
		return value
	}
}

func stringList(values []any) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		out = append(out, stringify(value))
	}
	return out
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, ",")
	default:
		return fmt.Sprint(v)
	}
}

// optionString reads a string-typed variant option.
func optionString(options map[string]any, key string) (string, bool) {
	raw, ok := options[key]
	if !ok || raw == nil {
		return "", false
	}
	return strings.TrimSpace(stringify(raw)), true
}
