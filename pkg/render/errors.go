package render

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-forms/pkg/form"
)

// ErrorMapping splits an error payload into control-level and form-level
// messages. Field keys are control names.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors concatenates form-level messages, trimming whitespace and
// removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload matches error keys against the form's control names.
// Keys may be JSON pointers ("/body/email"), dotted paths, bracketed field
// names ("signup[email]") or carry the form name as a prefix. Keys that match
// no control become form-level errors so messages are not lost.
func MapErrorPayload(f *form.Form, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}
	if len(payload) == 0 {
		mapping.Fields = nil
		return mapping
	}

	paths := make(map[string]string)
	formName := ""
	if f != nil {
		formName = f.Name()
		for _, ctrl := range f.Controls() {
			name := ctrl.Name()
			if segments := parsePathSegments(name); len(segments) > 0 {
				paths[strings.Join(segments, ".")] = name
			}
		}
	}

	for rawPath, messages := range payload {
		messages = normalizeMessages(messages)
		if len(messages) == 0 {
			continue
		}
		name, ok := mapErrorPath(rawPath, formName, paths)
		if !ok {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		mapping.Fields[name] = append(mapping.Fields[name], messages...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func mapErrorPath(raw, formName string, paths map[string]string) (string, bool) {
	if isFormLevelKey(raw) {
		return "", false
	}
	segments := parsePathSegments(raw)
	if len(segments) == 0 {
		return "", false
	}

	best, bestLen := "", 0
	for _, variant := range segmentVariants(segments, formName) {
		for end := len(variant); end > bestLen; end-- {
			if name, ok := paths[strings.Join(variant[:end], ".")]; ok {
				best, bestLen = name, end
				break
			}
		}
	}
	return best, best != ""
}

// parsePathSegments turns pointers, dotted paths and bracket notation into
// plain segments.
func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.TrimPrefix(clean, "#/")
	clean = strings.TrimPrefix(clean, "$.")
	clean = strings.TrimLeft(clean, "#/.$")

	clean = strings.NewReplacer("[]", "", "[", ".", "]", "").Replace(clean)
	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func segmentVariants(segments []string, formName string) [][]string {
	var variants [][]string
	seen := make(map[string]struct{})
	add := func(candidate []string) {
		if len(candidate) == 0 {
			return
		}
		key := strings.Join(candidate, ".")
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		variants = append(variants, candidate)
	}

	add(segments)
	unwrapped := dropWrapperSegments(segments, formName)
	add(unwrapped)
	add(stripNumericSegments(segments))
	add(stripNumericSegments(unwrapped))
	return variants
}

func dropWrapperSegments(segments []string, formName string) []string {
	out := segments
	for len(out) > 0 {
		head := strings.ToLower(out[0])
		switch {
		case head == "body", head == "request", head == "payload", head == "data":
		case formName != "" && out[0] == formName:
		default:
			return out
		}
		out = out[1:]
	}
	return out
}

func stripNumericSegments(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "__all__", "non_field_errors":
		return true
	default:
		return false
	}
}
