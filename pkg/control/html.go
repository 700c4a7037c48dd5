package control

import (
	"context"
	"io"
	"slices"
	"strings"

	"github.com/a-h/templ"
)

const baseControlClass = "form-control"

// fragment wraps a builder function into a templ.Component.
func fragment(build func(b *strings.Builder)) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		build(&b)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// RenderString renders a control component to a string.
func RenderString(ctx context.Context, component templ.Component) (string, error) {
	if component == nil {
		return "", nil
	}
	var b strings.Builder
	if err := component.Render(ctx, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeAttr(b *strings.Builder, name, value string) {
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(templ.EscapeString(value))
	b.WriteByte('"')
}

// writeAttributes emits the attribute map sorted by name. Names that are not
// valid attribute names are skipped, as are names the caller reserves.
func writeAttributes(b *strings.Builder, attributes map[string]string, reserved ...string) {
	if len(attributes) == 0 {
		return
	}
	names := make([]string, 0, len(attributes))
	for name := range attributes {
		if !validAttrName(name) || slices.Contains(reserved, strings.ToLower(name)) {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		writeAttr(b, name, attributes[name])
	}
}

func classList(base string, classes []string) string {
	parts := make([]string, 0, len(classes)+1)
	if base != "" {
		parts = append(parts, base)
	}
	for _, class := range classes {
		if class = strings.TrimSpace(class); class != "" {
			parts = append(parts, class)
		}
	}
	return strings.Join(parts, " ")
}

func validAttrName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == ':', r == '.', r == '@':
		default:
			return false
		}
	}
	return true
}
