package control

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeContainer struct{ name string }

func (f fakeContainer) Name() string { return f.name }

func render(t *testing.T, ctrl Control, value any) string {
	t.Helper()
	out, err := RenderString(context.Background(), ctrl.Render(value))
	if err != nil {
		t.Fatalf("render %s: %v", ctrl.Name(), err)
	}
	return out
}

func mustMake(t *testing.T, name string, options map[string]any) Control {
	t.Helper()
	ctrl, err := Make(name, options)
	if err != nil {
		t.Fatalf("make %s: %v", name, err)
	}
	return ctrl
}

func TestSetOptionsUnionsClasses(t *testing.T) {
	in := NewInput("title")
	if err := in.SetOptions(map[string]any{"classes": []any{"a", "b"}}); err != nil {
		t.Fatalf("set options: %v", err)
	}
	if err := in.SetOptions(map[string]any{"classes": "b c"}); err != nil {
		t.Fatalf("set options: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, in.Classes()); diff != "" {
		t.Fatalf("classes mismatch (-want +got):\n%s", diff)
	}
}

func TestSetOptionsKeepsUnknownKeysAsExtras(t *testing.T) {
	in := NewInput("title")
	err := in.SetOptions(map[string]any{
		"label": "Title",
		"hint":  map[string]any{"text": "Shown below"},
		"type":  "email",
	})
	if err != nil {
		t.Fatalf("set options: %v", err)
	}
	hint, ok := in.Option("hint")
	if !ok {
		t.Fatalf("expected hint extra to be kept")
	}
	if diff := cmp.Diff(map[string]any{"text": "Shown below"}, hint); diff != "" {
		t.Fatalf("hint mismatch (-want +got):\n%s", diff)
	}
	if _, ok := in.Option("type"); ok {
		t.Fatalf("type is an input option, not an extra")
	}
	if in.Type() != "email" {
		t.Fatalf("expected email type, got %q", in.Type())
	}
}

func TestGroupDefaults(t *testing.T) {
	in := NewInput("title")
	if in.Group() != DefaultGroup {
		t.Fatalf("expected default group, got %q", in.Group())
	}
	if err := in.SetOptions(map[string]any{"group": "meta"}); err != nil {
		t.Fatalf("set options: %v", err)
	}
	if err := in.SetOptions(map[string]any{"label": "Title"}); err != nil {
		t.Fatalf("set options: %v", err)
	}
	if in.Group() != DefaultGroup {
		t.Fatalf("absent group key should reset to default, got %q", in.Group())
	}
	if err := in.SetOptions(map[string]any{"group": "  meta "}); err != nil {
		t.Fatalf("set options: %v", err)
	}
	if in.Group() != "meta" {
		t.Fatalf("expected meta, got %q", in.Group())
	}
	if err := in.SetOptions(map[string]any{"group": ""}); err != nil {
		t.Fatalf("set options: %v", err)
	}
	if in.Group() != DefaultGroup {
		t.Fatalf("empty group should reset to default, got %q", in.Group())
	}
}

func TestInputRender(t *testing.T) {
	in := mustMake(t, "email", map[string]any{
		"type":       "email",
		"classes":    "wide",
		"attributes": map[string]any{"placeholder": `you<at>host`, "required": true, "disabled": false},
	})

	got := render(t, in, `a&"b`)
	want := `<input type="email" class="form-control wide" placeholder="you&lt;at&gt;host" required="required" name="email" value="a&amp;&#34;b">`
	if got != want {
		t.Fatalf("unexpected markup\nwant: %s\n got: %s", want, got)
	}
}

func TestInputRenderUsesContainerPrefix(t *testing.T) {
	in := NewInput("email")
	in.SetContainer(fakeContainer{name: "user"})

	got := render(t, in, nil)
	want := `<input type="text" class="form-control" name="user[email]" value="">`
	if got != want {
		t.Fatalf("unexpected markup\nwant: %s\n got: %s", want, got)
	}

	in.SetContainer(fakeContainer{})
	if !strings.Contains(render(t, in, nil), `name="email"`) {
		t.Fatalf("empty container name should not prefix the field")
	}
}

func TestPasswordReconcile(t *testing.T) {
	pw := NewPassword("secret")
	if got := pw.Reconcile("", "secret"); got != "secret" {
		t.Fatalf("blank submission should keep previous, got %v", got)
	}
	if got := pw.Reconcile(nil, "secret"); got != "secret" {
		t.Fatalf("missing submission should keep previous, got %v", got)
	}
	if got := pw.Reconcile("abc", "secret"); got != "abc" {
		t.Fatalf("expected new value, got %v", got)
	}
}

func TestPasswordRenderNeverEchoesValue(t *testing.T) {
	pw := mustMake(t, "pw", map[string]any{"control": "password", "type": "text"})
	got := render(t, pw, "hunter2")
	want := `<input type="password" class="form-control" name="pw" value="">`
	if got != want {
		t.Fatalf("unexpected markup\nwant: %s\n got: %s", want, got)
	}
}

func TestInputReconcileIsIdentity(t *testing.T) {
	in := NewInput("title")
	if got := in.Reconcile("", "old"); got != "" {
		t.Fatalf("input should keep the submitted value, got %v", got)
	}
}

func TestSelectSingleMarksValue(t *testing.T) {
	sel := mustMake(t, "size", map[string]any{
		"control": "select",
		"items":   map[string]any{"1": "One", "2": "Two", "3": "Three"},
	})

	got := render(t, sel, 2)
	want := `<select class="form-control" name="size">` +
		`<option value="1">One</option>` +
		`<option value="2" selected>Two</option>` +
		`<option value="3">Three</option>` +
		`</select>`
	if got != want {
		t.Fatalf("unexpected markup\nwant: %s\n got: %s", want, got)
	}
}

func TestSelectMultipleMarksMembers(t *testing.T) {
	sel := mustMake(t, "size", map[string]any{
		"control":    "select",
		"items":      map[string]any{"1": "One", "2": "Two", "3": "Three"},
		"attributes": map[string]any{"multiple": true},
	})

	got := render(t, sel, []any{1, "2"})
	want := `<select class="form-control" multiple="multiple" name="size[]">` +
		`<option value="1" selected>One</option>` +
		`<option value="2" selected>Two</option>` +
		`<option value="3">Three</option>` +
		`</select>`
	if got != want {
		t.Fatalf("unexpected markup\nwant: %s\n got: %s", want, got)
	}
}

func TestSelectFalseMultipleRendersSingle(t *testing.T) {
	for _, flag := range []any{"false", "0", "no", "off", false} {
		sel := mustMake(t, "tags", map[string]any{
			"control":    "select",
			"items":      []any{"a", "b"},
			"attributes": map[string]any{"multiple": flag},
		})
		if sel.(*Select).Multiple() {
			t.Fatalf("multiple=%v should be single mode", flag)
		}
		got := render(t, sel, "a")
		want := `<select class="form-control" name="tags"><option value="a" selected>a</option><option value="b">b</option></select>`
		if got != want {
			t.Fatalf("multiple=%v: unexpected markup\nwant: %s\n got: %s", flag, want, got)
		}
	}
}

func TestCheckboxRendersCheckedValue(t *testing.T) {
	box := mustMake(t, "agree", map[string]any{"type": "checkbox"})
	if got, want := render(t, box, ""), `<input type="checkbox" class="form-control" name="agree" value="1">`; got != want {
		t.Fatalf("unexpected markup\nwant: %s\n got: %s", want, got)
	}
	for _, value := range []any{"1", true, "on"} {
		if got, want := render(t, box, value), `<input type="checkbox" class="form-control" name="agree" value="1" checked>`; got != want {
			t.Fatalf("value %v: unexpected markup\nwant: %s\n got: %s", value, want, got)
		}
	}

	radio := mustMake(t, "plan", map[string]any{"type": "radio", "checked_value": "pro"})
	if got := render(t, radio, "pro"); !strings.HasSuffix(got, `value="pro" checked>`) {
		t.Fatalf("expected checked radio, got %s", got)
	}
	if got := render(t, radio, "free"); strings.Contains(got, "checked") {
		t.Fatalf("radio should not be checked for another value, got %s", got)
	}
	if _, ok := radio.Option("checked_value"); ok {
		t.Fatalf("checked_value is an input option, not an extra")
	}
	if radio.Definition()["checked_value"] != "pro" {
		t.Fatalf("checked_value missing from definition: %v", radio.Definition())
	}
}

func TestSelectItemsOrder(t *testing.T) {
	items := ParseItems(map[string]any{"10": "Ten", "2": "Two", "b": "Bee", "a": "Ay"})
	want := []Item{
		{Value: "2", Label: "Two"},
		{Value: "10", Label: "Ten"},
		{Value: "a", Label: "Ay"},
		{Value: "b", Label: "Bee"},
	}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}

	listed := ParseItems([]any{"red", map[string]any{"value": "g", "label": "Green"}, []any{"bad"}})
	want = []Item{{Value: "red", Label: "red"}, {Value: "g", Label: "Green"}}
	if diff := cmp.Diff(want, listed); diff != "" {
		t.Fatalf("list items mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectMalformedItemsRenderNoOptions(t *testing.T) {
	sel := mustMake(t, "size", map[string]any{"control": "select", "items": 42})
	got := render(t, sel, "1")
	want := `<select class="form-control" name="size"></select>`
	if got != want {
		t.Fatalf("unexpected markup\nwant: %s\n got: %s", want, got)
	}
}

func TestSelectEscapesLabels(t *testing.T) {
	sel := mustMake(t, "pick", map[string]any{
		"control": "select",
		"items":   []any{map[string]any{"value": `"x"`, "label": "<b>X</b>"}},
	})
	got := render(t, sel, nil)
	if !strings.Contains(got, `<option value="&#34;x&#34;">&lt;b&gt;X&lt;/b&gt;</option>`) {
		t.Fatalf("expected escaped option, got %s", got)
	}
}

func TestInputGroupDelegatesToWrappedControl(t *testing.T) {
	ctrl := mustMake(t, "email", map[string]any{
		"control": "input_group",
		"wrap":    map[string]any{"type": "email"},
		"rule":    "required|email",
		"value":   "me@example.com",
	})
	group, ok := ctrl.(*InputGroup)
	if !ok {
		t.Fatalf("expected *InputGroup, got %T", ctrl)
	}
	if group.Inner() == nil {
		t.Fatalf("expected wrapped control")
	}
	if got := group.Inner().Rule(); got != "required|email" {
		t.Fatalf("rule should live on the wrapped control, got %v", got)
	}
	if got := group.Rule(); got != "required|email" {
		t.Fatalf("rule should delegate, got %v", got)
	}
	if got := group.Default(); got != "me@example.com" {
		t.Fatalf("default should delegate, got %v", got)
	}

	group.SetRule("email")
	if got := group.Inner().Rule(); got != "email" {
		t.Fatalf("SetRule should delegate, got %v", got)
	}

	group.SetContainer(fakeContainer{name: "user"})
	got := render(t, group, "a@b.c")
	want := `<div class="input-group">` +
		`<span class="input-group-addon"><i class="fa fa-envelope-o"></i></span>` +
		`<input type="email" class="form-control" name="user[email]" value="a@b.c">` +
		`</div>`
	if got != want {
		t.Fatalf("unexpected markup\nwant: %s\n got: %s", want, got)
	}
}

func TestInputGroupRejectsRenamedWrap(t *testing.T) {
	_, err := Make("email", map[string]any{
		"control": "input_group",
		"wrap":    map[string]any{"name": "other", "type": "email"},
	})
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected configuration error, got %v", err)
	}

	ctrl := mustMake(t, "email", map[string]any{
		"control": "input_group",
		"wrap":    map[string]any{"name": "email", "type": "email"},
	})
	if got := ctrl.(*InputGroup).Inner().Name(); got != "email" {
		t.Fatalf("wrapped control should keep the group name, got %q", got)
	}
}

func TestInputGroupButtonAfter(t *testing.T) {
	group := NewInputGroup("", NewInput("q"))
	err := group.SetOptions(map[string]any{
		"position": "after",
		"addon":    "button",
		"icon":     "fa-search",
		"classes":  "search",
	})
	if err != nil {
		t.Fatalf("set options: %v", err)
	}
	if group.Name() != "q" {
		t.Fatalf("expected wrapped name, got %q", group.Name())
	}

	got := render(t, group, "")
	want := `<div class="input-group search">` +
		`<input type="text" class="form-control" name="q" value="">` +
		`<span class="input-group-btn"><button class="btn default" type="button"><i class="fa fa-search"></i></button></span>` +
		`</div>`
	if got != want {
		t.Fatalf("unexpected markup\nwant: %s\n got: %s", want, got)
	}
}

func TestInputGroupTextAddonIsSanitised(t *testing.T) {
	group := NewInputGroup("price", NewInput("price"))
	err := group.SetOptions(map[string]any{
		"addon": "text",
		"text":  `<em>$</em><img src=x onerror=alert(1)>`,
	})
	if err != nil {
		t.Fatalf("set options: %v", err)
	}
	got := render(t, group, "")
	if !strings.Contains(got, `<span class="input-group-addon"><em>$</em></span>`) {
		t.Fatalf("expected sanitised addon, got %s", got)
	}
}

func TestInputGroupRejectsBadPosition(t *testing.T) {
	_, err := Make("q", map[string]any{"control": "input_group", "position": "middle"})
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestDefinitionRoundTrip(t *testing.T) {
	cases := map[string]map[string]any{
		"input": {
			"rule":     "required|email",
			"classes":  []any{"a", "b"},
			"value":    "x",
			"label":    "E-mail",
			"messages": map[string]any{"required": "Needed"},
			"hint":     "extra",
		},
		"select": {
			"control": "select",
			"rule":    []any{"required", "in:1,2"},
			"items":   map[string]any{"1": "One", "2": "Two"},
			"value":   []any{"1"},
			"group":   "prefs",
		},
		"password": {
			"control": "password",
			"rule":    "min:8",
			"label":   "Password",
		},
		"input_group": {
			"control":  "input_group",
			"wrap":     map[string]any{"type": "email", "classes": "inner"},
			"rule":     "email",
			"position": "after",
		},
	}

	for name, options := range cases {
		t.Run(name, func(t *testing.T) {
			original := mustMake(t, "field", options)
			def := original.Definition()

			rebuilt, err := Make(original.Name(), def)
			if err != nil {
				t.Fatalf("rebuild: %v", err)
			}
			if rebuilt.Variant() != original.Variant() {
				t.Fatalf("variant changed: %s -> %s", original.Variant(), rebuilt.Variant())
			}
			if diff := cmp.Diff(def, rebuilt.Definition()); diff != "" {
				t.Fatalf("definition mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(original.Classes(), rebuilt.Classes()); diff != "" {
				t.Fatalf("classes mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(original.Messages(), rebuilt.Messages()); diff != "" {
				t.Fatalf("messages mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(original.Rule(), rebuilt.Rule()); diff != "" {
				t.Fatalf("rule mismatch (-want +got):\n%s", diff)
			}
			if original.Label() != rebuilt.Label() {
				t.Fatalf("label changed: %q -> %q", original.Label(), rebuilt.Label())
			}
		})
	}
}

func TestDefinitionCanonicalFieldsWin(t *testing.T) {
	in := NewInput("title")
	in.extras = map[string]any{"label": "stale", "note": "kept"}
	in.label = "Title"

	def := in.Definition()
	if def["label"] != "Title" {
		t.Fatalf("expected structured label, got %v", def["label"])
	}
	if def["note"] != "kept" {
		t.Fatalf("expected extra to be kept, got %v", def["note"])
	}
	if def["control"] != VariantInput {
		t.Fatalf("expected control tag, got %v", def["control"])
	}
}

func TestMakeUnknownVariant(t *testing.T) {
	_, err := Make("x", map[string]any{"control": "slider"})
	if err == nil {
		t.Fatalf("expected error")
	}
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %T", err)
	}
	if cfgErr.Variant != "slider" || cfgErr.Name != "x" {
		t.Fatalf("unexpected error fields: %+v", cfgErr)
	}
	if !errors.Is(err, ErrUnknownVariant) {
		t.Fatalf("expected ErrUnknownVariant in chain")
	}
}

func TestMakeDefaultsToInput(t *testing.T) {
	ctrl := mustMake(t, "title", nil)
	if ctrl.Variant() != VariantInput {
		t.Fatalf("expected input, got %s", ctrl.Variant())
	}

	r := NewRegistry()
	ctrl, err := r.Make("pick", nil, VariantSelect)
	if err != nil {
		t.Fatalf("make: %v", err)
	}
	if ctrl.Variant() != VariantSelect {
		t.Fatalf("expected fallback variant select, got %s", ctrl.Variant())
	}
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("", func(name string) Control { return NewInput(name) }); err == nil {
		t.Fatalf("expected empty tag to be rejected")
	}
	if err := r.Register("color", nil); err == nil {
		t.Fatalf("expected nil factory to be rejected")
	}
	if err := r.Register("Input", func(name string) Control { return NewInput(name) }); err == nil {
		t.Fatalf("expected duplicate to be rejected")
	}
	if err := r.Register("color", func(name string) Control {
		in := NewInput(name)
		in.SetType("color")
		return in
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	want := []string{"color", "input", "input_group", "password", "select"}
	if diff := cmp.Diff(want, r.Variants()); diff != "" {
		t.Fatalf("variants mismatch (-want +got):\n%s", diff)
	}

	ctrl, err := r.Make("shade", map[string]any{"control": "color"})
	if err != nil {
		t.Fatalf("make: %v", err)
	}
	if !strings.Contains(render(t, ctrl, "#fff"), `type="color"`) {
		t.Fatalf("expected color input")
	}
}

func TestRegistryClone(t *testing.T) {
	r := NewRegistry()
	original := NewInput("title")
	original.SetRule("required")
	original.SetContainer(fakeContainer{name: "post"})

	clone, err := r.Clone(original)
	if err != nil {
		t.Fatalf("clone: %v", err)
	}
	if clone.Container() != nil {
		t.Fatalf("clone should be detached")
	}
	clone.SetRule("min:3")
	if original.Rule() != "required" {
		t.Fatalf("clone shares state with original")
	}
}
