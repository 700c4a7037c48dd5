package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"sort"
	"strings"

	"github.com/goliatone/go-forms/pkg/control"
	"github.com/goliatone/go-forms/pkg/form"
)

// Transformer mutates a form after it is loaded and before it is rendered.
type Transformer interface {
	Transform(ctx context.Context, f *form.Form) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, f *form.Form) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, f *form.Form) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, f)
}

// JSONPresetTransformer applies declarative overrides loaded from a JSON file.
// Field patches are option bags merged with SetOptions, so classes are
// unioned and every other key replaces the control's value:
//
//	{
//	  "action": "/signup",
//	  "groups": [{"name": "account", "label": "Account", "priority": 10}],
//	  "fields": {
//	    "email": {"label": "E-mail", "group": "account", "classes": ["wide"]}
//	  }
//	}
type JSONPresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Action string                    `json:"action"`
	Method string                    `json:"method"`
	Groups []form.Group              `json:"groups"`
	Fields map[string]map[string]any `json:"fields"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document presetDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the declarative patches onto the supplied form. Patches
// naming a missing control are an error.
func (t *JSONPresetTransformer) Transform(ctx context.Context, f *form.Form) error {
	if f == nil {
		return errors.New("json preset transformer: form is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if t.document.Action != "" {
		f.SetAction(t.document.Action)
	}
	if t.document.Method != "" {
		f.SetMethod(form.ParseMethod(t.document.Method))
	}
	for _, group := range t.document.Groups {
		f.AddGroup(group.Name, group.Label, group.Priority)
	}

	names := make([]string, 0, len(t.document.Fields))
	for name := range t.document.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		ctrl, ok := f.ControlByName(name)
		if !ok {
			return fmt.Errorf("json preset transformer: control %q not found", name)
		}
		if err := ctrl.SetOptions(withGroup(t.document.Fields[name], ctrl.Group())); err != nil {
			return fmt.Errorf("json preset transformer: patch %q: %w", name, err)
		}
	}
	return nil
}

// withGroup copies patch, carrying the control's current group when the patch
// does not move it. SetOptions treats a missing group as the default one.
func withGroup(patch map[string]any, group string) map[string]any {
	out := make(map[string]any, len(patch)+1)
	maps.Copy(out, patch)
	if _, ok := out[control.KeyGroup]; !ok {
		out[control.KeyGroup] = group
	}
	return out
}
