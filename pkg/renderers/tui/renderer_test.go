package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-forms/pkg/form"
	"github.com/goliatone/go-forms/pkg/render"
	"github.com/goliatone/go-forms/pkg/validation"
)

type stubDriver struct {
	inputs    []string
	passwords []string
	confirms  []bool
	selects   []int
	multi     [][]int
	messages  []string
	prompts   []string
}

func (d *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	d.prompts = append(d.prompts, cfg.Message)
	if len(d.inputs) == 0 {
		return "", errors.New("no scripted input")
	}
	next := d.inputs[0]
	d.inputs = d.inputs[1:]
	return next, nil
}

func (d *stubDriver) Password(_ context.Context, cfg InputConfig) (string, error) {
	d.prompts = append(d.prompts, cfg.Message)
	if len(d.passwords) == 0 {
		return "", errors.New("no scripted password")
	}
	next := d.passwords[0]
	d.passwords = d.passwords[1:]
	return next, nil
}

func (d *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	d.prompts = append(d.prompts, cfg.Message)
	if len(d.confirms) == 0 {
		return cfg.Default, nil
	}
	next := d.confirms[0]
	d.confirms = d.confirms[1:]
	return next, nil
}

func (d *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	d.prompts = append(d.prompts, cfg.Message)
	if len(d.selects) == 0 {
		return cfg.DefaultIndex, nil
	}
	next := d.selects[0]
	d.selects = d.selects[1:]
	return next, nil
}

func (d *stubDriver) MultiSelect(_ context.Context, cfg SelectConfig) ([]int, error) {
	d.prompts = append(d.prompts, cfg.Message)
	if len(d.multi) == 0 {
		return cfg.Defaults, nil
	}
	next := d.multi[0]
	d.multi = d.multi[1:]
	return next, nil
}

func (d *stubDriver) Info(_ context.Context, msg string) error {
	d.messages = append(d.messages, msg)
	return nil
}

func profileForm(t *testing.T) *form.Form {
	t.Helper()
	f := form.New(form.WithName("profile"))
	f.AddGroup("account", "Account", 5)
	err := f.AddEntries(
		form.Entry{Name: "email", Options: map[string]any{"rule": "required|email", "label": "E-mail", "group": "account"}},
		form.Entry{Name: "password", Options: map[string]any{"control": "password", "rule": "required|min:4", "group": "account"}},
		form.Entry{Name: "plan", Options: map[string]any{"control": "select", "items": []any{"free", "pro"}, "label": "Plan"}},
		form.Entry{Name: "tags", Options: map[string]any{"control": "select", "attributes": map[string]any{"multiple": true}, "items": map[string]any{"a": "Alpha", "b": "Beta", "c": "Gamma"}}},
		form.Entry{Name: "newsletter", Options: map[string]any{"type": "checkbox", "label": "Newsletter"}},
	)
	if err != nil {
		t.Fatalf("AddEntries: %v", err)
	}
	return f
}

func TestCollectPromptsInGroupOrder(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"ada@example.com"},
		passwords: []string{"secret"},
		selects:   []int{1},
		multi:     [][]int{{0, 2}},
		confirms:  []bool{true},
	}
	r := New(WithPromptDriver(driver), WithTheme(Theme{PromptPrefix: "> ", InfoPrefix: "# "}))

	values, err := r.Collect(context.Background(), profileForm(t), render.RenderOptions{})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	want := map[string]any{
		"email":      "ada@example.com",
		"password":   "secret",
		"plan":       "pro",
		"tags":       []any{"a", "c"},
		"newsletter": true,
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	wantPrompts := []string{"> E-mail", "> password", "> Plan", "> tags", "> Newsletter"}
	if diff := cmp.Diff(wantPrompts, driver.prompts); diff != "" {
		t.Fatalf("prompt order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"# Account"}, driver.messages); diff != "" {
		t.Fatalf("info messages mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectRetriesInvalidAnswers(t *testing.T) {
	f := form.New(form.WithName("contact"))
	if err := f.AddEntries(form.Entry{Name: "email", Options: map[string]any{"rule": "required|email"}}); err != nil {
		t.Fatalf("AddEntries: %v", err)
	}
	driver := &stubDriver{inputs: []string{"nope", "ada@example.com"}}
	r := New(WithPromptDriver(driver), WithTheme(Theme{ErrorPrefix: "! "}))

	values, err := r.Collect(context.Background(), f, render.RenderOptions{})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if values["email"] != "ada@example.com" {
		t.Fatalf("expected second answer to be kept, got %v", values["email"])
	}
	if len(driver.messages) != 1 || !strings.HasPrefix(driver.messages[0], "! ") {
		t.Fatalf("expected one error notice, got %v", driver.messages)
	}
}

func TestCollectGivesUpAfterMaxAttempts(t *testing.T) {
	f := form.New(form.WithName("contact"))
	if err := f.AddEntries(form.Entry{Name: "email", Options: map[string]any{"rule": "required|email"}}); err != nil {
		t.Fatalf("AddEntries: %v", err)
	}
	driver := &stubDriver{inputs: []string{"a", "b"}}
	r := New(WithPromptDriver(driver), WithMaxAttempts(2))

	_, err := r.Collect(context.Background(), f, render.RenderOptions{})
	var verrs *validation.Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if !verrs.Has() || verrs.First("email") == "" {
		t.Fatalf("expected email failure, got %v", verrs.Bag)
	}
}

func TestCollectKeepsPreviousPasswordWhenBlank(t *testing.T) {
	f := form.New(form.WithName("account"))
	if err := f.AddEntries(form.Entry{Name: "password", Options: map[string]any{"control": "password"}}); err != nil {
		t.Fatalf("AddEntries: %v", err)
	}
	driver := &stubDriver{passwords: []string{""}}
	r := New(WithPromptDriver(driver))

	values, err := r.Collect(context.Background(), f, render.RenderOptions{Values: map[string]any{"password": "old-hash"}})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if values["password"] != "old-hash" {
		t.Fatalf("expected previous password, got %v", values["password"])
	}
}

func TestRenderOutputFormats(t *testing.T) {
	newForm := func() *form.Form {
		f := form.New(form.WithName("search"))
		err := f.AddEntries(
			form.Entry{Name: "q", Options: map[string]any{"label": "Query"}},
			form.Entry{Name: "secret", Options: map[string]any{"control": "password"}},
		)
		if err != nil {
			t.Fatalf("AddEntries: %v", err)
		}
		return f
	}

	cases := []struct {
		format      OutputFormat
		contentType string
		want        string
	}{
		{OutputFormatJSON, "application/json", `{"q":"go","secret":"pw"}`},
		{OutputFormatFormURLEncoded, "application/x-www-form-urlencoded", "q=go&secret=pw"},
		{OutputFormatPrettyText, "text/plain; charset=utf-8", "Query: go\nsecret: ********\n"},
	}
	for _, tc := range cases {
		t.Run(string(tc.format), func(t *testing.T) {
			driver := &stubDriver{inputs: []string{"go"}, passwords: []string{"pw"}}
			r := New(WithPromptDriver(driver), WithOutputFormat(tc.format))
			if r.ContentType() != tc.contentType {
				t.Fatalf("content type: got %q want %q", r.ContentType(), tc.contentType)
			}
			out, err := r.Render(context.Background(), newForm(), render.RenderOptions{})
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if string(out) != tc.want {
				t.Fatalf("output: got %q want %q", out, tc.want)
			}
		})
	}
}

func TestSubmitTransformer(t *testing.T) {
	f := form.New(form.WithName("note"))
	if err := f.AddEntries(form.Entry{Name: "body"}); err != nil {
		t.Fatalf("AddEntries: %v", err)
	}
	driver := &stubDriver{inputs: []string{"hello"}}
	r := New(WithPromptDriver(driver), WithSubmitTransformer(func(values map[string]any) (map[string]any, error) {
		values["source"] = "tui"
		return values, nil
	}))

	out, err := r.Render(context.Background(), f, render.RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"body": "hello", "source": "tui"}, decoded); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectWithoutItems(t *testing.T) {
	f := form.New(form.WithName("empty"))
	if err := f.AddEntries(form.Entry{Name: "choice", Options: map[string]any{"control": "select"}}); err != nil {
		t.Fatalf("AddEntries: %v", err)
	}
	r := New(WithPromptDriver(&stubDriver{}))
	_, err := r.Collect(context.Background(), f, render.RenderOptions{})
	if !errors.Is(err, ErrNoOptions) {
		t.Fatalf("expected ErrNoOptions, got %v", err)
	}
}

func TestCollectRequiresForm(t *testing.T) {
	r := New(WithPromptDriver(&stubDriver{}))
	if _, err := r.Collect(context.Background(), nil, render.RenderOptions{}); err == nil {
		t.Fatal("expected error for nil form")
	}
}
