package render

import (
	"strings"

	"github.com/goliatone/go-forms/pkg/control"
	"github.com/goliatone/go-forms/pkg/form"
)

// FieldSubset limits rendering to controls in the listed groups or with the
// listed names. A control matching either list is kept. An empty subset keeps
// everything.
type FieldSubset struct {
	Groups []string `json:"groups,omitempty"`
	Names  []string `json:"names,omitempty"`
}

// Empty reports whether the subset filters nothing.
func (s FieldSubset) Empty() bool {
	return len(normaliseTokens(s.Groups)) == 0 && len(normaliseTokens(s.Names)) == 0
}

// Matches reports whether ctrl is selected by the subset.
func (s FieldSubset) Matches(ctrl control.Control) bool {
	if ctrl == nil {
		return false
	}
	if s.Empty() {
		return true
	}
	if _, ok := normaliseTokens(s.Groups)[normaliseToken(ctrl.Group())]; ok {
		return true
	}
	_, ok := normaliseTokens(s.Names)[normaliseToken(ctrl.Name())]
	return ok
}

// ApplySubset filters section controls and drops sections left empty.
func ApplySubset(sections []form.Section, subset FieldSubset) []form.Section {
	if subset.Empty() {
		return sections
	}
	out := make([]form.Section, 0, len(sections))
	for _, section := range sections {
		var kept []control.Control
		for _, ctrl := range section.Controls {
			if subset.Matches(ctrl) {
				kept = append(kept, ctrl)
			}
		}
		if len(kept) == 0 {
			continue
		}
		section.Controls = kept
		out = append(out, section)
	}
	return out
}

func normaliseTokens(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(values))
	for _, value := range values {
		if token := normaliseToken(value); token != "" {
			out[token] = struct{}{}
		}
	}
	return out
}

func normaliseToken(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
