package jsondoc_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-forms/pkg/form"
	"github.com/goliatone/go-forms/pkg/render"
	"github.com/goliatone/go-forms/pkg/renderers/jsondoc"
	"github.com/goliatone/go-forms/pkg/testsupport"
)

func TestRenderPayload(t *testing.T) {
	f := testsupport.MustBuildForm(t, "login",
		form.Entry{Name: "user", Options: map[string]any{"rule": "required", "value": "guest"}},
		form.Entry{Name: "pass", Options: map[string]any{"control": "password", "rule": "required"}},
	)

	out, err := jsondoc.New("").Render(testsupport.Context(), f, render.RenderOptions{
		Method: "delete",
		Values: map[string]any{"pass": "secret"},
		Errors: map[string][]string{"user": {"taken"}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var payload jsondoc.Payload
	if err := json.Unmarshal(out, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if payload.Form.Name != "login" || len(payload.Form.Controls) != 2 {
		t.Fatalf("unexpected document %+v", payload.Form)
	}
	if payload.Method != "POST" {
		t.Fatalf("expected POST, got %s", payload.Method)
	}
	if diff := cmp.Diff(map[string]any{"user": "guest", "pass": ""}, payload.Values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string][]string{"user": {"taken"}}, payload.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]render.HiddenField{{Name: "_method", Value: "DELETE"}}, payload.Hidden); diff != "" {
		t.Fatalf("hidden mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"user": "required", "pass": "required"}, payload.Rules); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderRequiresForm(t *testing.T) {
	if _, err := jsondoc.New("  ").Render(testsupport.Context(), nil, render.RenderOptions{}); err == nil {
		t.Fatalf("expected error for nil form")
	}
}
