package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-forms/pkg/definition"
	"github.com/goliatone/go-forms/pkg/renderers/tui"
)

const contactDefinition = `
name: contact
action: /contact
groups:
  - name: main
    label: Main
    priority: 5
controls:
  - name: email
    options:
      rule: required|email
      label: E-mail
      group: main
  - name: topic
    options:
      control: select
      items:
        sales: Sales
        support: Support
`

const petstore = `
openapi: 3.0.3
info:
  title: Pets
  version: 1.0.0
paths:
  /pets:
    post:
      operationId: createPet
      summary: Add a pet
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [name]
              properties:
                name:
                  type: string
                species:
                  type: string
                  enum: [cat, dog]
      responses:
        "201":
          description: created
`

type scriptedDriver struct {
	inputs []string
}

func (d *scriptedDriver) Input(context.Context, tui.InputConfig) (string, error) {
	next := d.inputs[0]
	d.inputs = d.inputs[1:]
	return next, nil
}

func (d *scriptedDriver) Password(context.Context, tui.InputConfig) (string, error) {
	return "", nil
}

func (d *scriptedDriver) Confirm(_ context.Context, cfg tui.ConfirmConfig) (bool, error) {
	return cfg.Default, nil
}

func (d *scriptedDriver) Select(context.Context, tui.SelectConfig) (int, error) {
	return 1, nil
}

func (d *scriptedDriver) MultiSelect(context.Context, tui.SelectConfig) ([]int, error) {
	return nil, nil
}

func (d *scriptedDriver) Info(context.Context, string) error {
	return nil
}

func formsDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "contact.yaml"), []byte(contactDefinition), 0o644))
	return dir
}

func newTestApp() (*app, *bytes.Buffer) {
	var out bytes.Buffer
	return &app{stdout: &out, stderr: &bytes.Buffer{}}, &out
}

func TestUsage(t *testing.T) {
	a, out := newTestApp()
	require.NoError(t, a.run(context.Background(), nil))
	assert.Contains(t, out.String(), "import-openapi")

	require.Error(t, a.run(context.Background(), []string{"bogus"}))
}

func TestRenderHTML(t *testing.T) {
	a, out := newTestApp()
	err := a.run(context.Background(), []string{"render", "--forms.dir", formsDir(t), "--forms.theme", "plain", "contact"})
	require.NoError(t, err)

	html := out.String()
	assert.Contains(t, html, `<form class="form" id="contact" action="/contact"`)
	assert.Contains(t, html, `<legend>Main</legend>`)
	assert.Contains(t, html, `>Send</button>`)
}

func TestRenderJSONWithValues(t *testing.T) {
	dir := formsDir(t)
	valuesPath := filepath.Join(dir, "values.json")
	require.NoError(t, os.WriteFile(valuesPath, []byte(`{"email":"ada@example.com"}`), 0o644))

	a, out := newTestApp()
	err := a.run(context.Background(), []string{"render", "--forms.dir", dir, "--renderer", "json", "--values", valuesPath, "--method", "patch", "contact"})
	require.NoError(t, err)

	var payload struct {
		Method string         `json:"method"`
		Values map[string]any `json:"values"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &payload))
	assert.Equal(t, "POST", payload.Method)
	assert.Equal(t, "ada@example.com", payload.Values["email"])
}

func TestRenderTimezoneControl(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "profile.json"), []byte(`{
  "name": "profile",
  "controls": [{"name": "tz", "options": {"control": "timezone", "value": "Europe/Paris"}}]
}`), 0o644))

	a, out := newTestApp()
	err := a.run(context.Background(), []string{"render", "--forms.dir", dir, "profile"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), `<option value="Europe/Paris" selected>Europe/Paris</option>`)
	assert.Contains(t, out.String(), `<option value="UTC">UTC</option>`)
}

func TestRenderUnknownForm(t *testing.T) {
	a, _ := newTestApp()
	err := a.run(context.Background(), []string{"render", "--forms.dir", formsDir(t), "missing"})
	require.Error(t, err)
}

func TestFillWithScriptedDriver(t *testing.T) {
	a, out := newTestApp()
	a.driver = &scriptedDriver{inputs: []string{"ada@example.com"}}

	err := a.run(context.Background(), []string{"fill", "--forms.dir", formsDir(t), "contact"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"ada@example.com","topic":"support"}`, out.String())
}

func TestConvertRoundTrip(t *testing.T) {
	dir := formsDir(t)
	target := filepath.Join(dir, "contact.msgpack")

	a, _ := newTestApp()
	require.NoError(t, a.run(context.Background(), []string{"convert", filepath.Join(dir, "contact.yaml"), target}))

	f, err := definition.LoadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "contact", f.Name())
	assert.Equal(t, 2, f.Len())
}

func TestImportOpenAPI(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "petstore.yaml")
	require.NoError(t, os.WriteFile(source, []byte(petstore), 0o644))

	a, out := newTestApp()
	require.NoError(t, a.run(context.Background(), []string{"import-openapi", source}))
	assert.True(t, strings.HasPrefix(out.String(), "createPet\tPOST /pets\tAdd a pet"), out.String())

	target := filepath.Join(dir, "pet.yaml")
	a, _ = newTestApp()
	require.NoError(t, a.run(context.Background(), []string{"import-openapi", "--operation", "createPet", "--name", "pet", "-o", target, source}))

	f, err := definition.LoadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "pet", f.Name())
	assert.Equal(t, map[string]any{"name": []string{"required", "string"}, "species": []string{"string", "in:cat,dog"}}, f.ValidationRules())
}
