package definition

import (
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-forms/pkg/form"
)

// normalizeDocument converts decoder specific shapes (json.Number,
// map[any]any) into the plain values controls expect.
func normalizeDocument(doc *form.Document) {
	for i := range doc.Controls {
		if doc.Controls[i].Options == nil {
			continue
		}
		doc.Controls[i].Options = normalizeMap(doc.Controls[i].Options)
	}
}

func normalizeMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = normalizeValue(value)
	}
	return out
}

func normalizeValue(value any) any {
	switch v := value.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case map[string]any:
		return normalizeMap(v)
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, entry := range v {
			out[fmt.Sprint(key)] = normalizeValue(entry)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, entry := range v {
			out[i] = normalizeValue(entry)
		}
		return out
	default:
		return value
	}
}
