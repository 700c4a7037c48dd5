package httpform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-forms/pkg/form"
	"github.com/goliatone/go-forms/pkg/render"
	"github.com/goliatone/go-forms/pkg/renderers/jsondoc"
	"github.com/goliatone/go-forms/pkg/renderers/layout"
)

func signupForm(t *testing.T) *form.Form {
	t.Helper()
	f := form.New(form.WithName("signup"), form.WithAction("/forms/signup"))
	require.NoError(t, f.AddEntries(
		form.Entry{Name: "email", Options: map[string]any{"rule": "required|email", "label": "E-mail"}},
		form.Entry{Name: "password", Options: map[string]any{"control": "password", "rule": "required"}},
		form.Entry{Name: "plan", Options: map[string]any{"control": "select", "items": []any{"free", "pro"}}},
	))
	return f
}

func newTestHandler(t *testing.T) (*Handler, *MemoryStore) {
	t.Helper()
	html, err := layout.New()
	require.NoError(t, err)

	registry := render.NewRegistry()
	registry.MustRegister(html)
	registry.MustRegister(jsondoc.New(""))

	store := NewMemoryStore()
	h, err := New(Forms{"signup": signupForm(t)}, registry, WithStore(store))
	require.NoError(t, err)
	return h, store
}

func postForm(t *testing.T, h http.Handler, target string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewRequiresCatalogAndRenderer(t *testing.T) {
	_, err := New(nil, render.NewRegistry())
	require.Error(t, err)

	_, err = New(Forms{}, render.NewRegistry())
	require.Error(t, err)
}

func TestListForms(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"forms":["signup"]}`, rec.Body.String())
}

func TestShowRendersHTML(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/signup", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `<form`)
	assert.Contains(t, rec.Body.String(), `name="signup[email]"`)
}

func TestShowNegotiatesJSON(t *testing.T) {
	h, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/signup", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var payload jsondoc.Payload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "signup", payload.Form.Name)
	assert.Equal(t, http.MethodPost, payload.Method)
}

func TestUnknownFormIsNotFound(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitInvalidRerendersWithErrors(t *testing.T) {
	h, store := newTestHandler(t)
	rec := postForm(t, h.Routes(), "/signup", url.Values{
		"signup[email]":    {"nope"},
		"signup[password]": {"secret"},
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "has-error")
	assert.Contains(t, body, `value="nope"`)
	assert.NotContains(t, body, "secret")
	assert.Empty(t, store.Records("signup"))
}

func TestSubmitValidSavesAndRedirects(t *testing.T) {
	h, store := newTestHandler(t)
	routes := h.Routes()

	rec := postForm(t, routes, "/signup", url.Values{
		"signup[email]":    {"ada@example.com"},
		"signup[password]": {"secret"},
		"signup[plan]":     {"pro"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/signup/1", rec.Header().Get("Location"))

	saved, err := store.Load(context.Background(), "signup", "1")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"email": "ada@example.com", "password": "secret", "plan": "pro"}, saved)

	// A blank password on update keeps the stored one.
	rec = postForm(t, routes, "/signup/1", url.Values{
		render.MethodFieldName: {http.MethodPut},
		"signup[email]":        {"grace@example.com"},
		"signup[password]":     {""},
		"signup[plan]":         {"free"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/signup/1", rec.Header().Get("Location"))

	saved, err = store.Load(context.Background(), "signup", "1")
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", saved["email"])
	assert.Equal(t, "secret", saved["password"])
}

func TestShowRecordUsesStoredValues(t *testing.T) {
	h, store := newTestHandler(t)
	_, err := store.Save(context.Background(), "signup", "7", map[string]any{"email": "ada@example.com", "password": "secret"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/signup/7", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `value="ada@example.com"`)
	assert.Contains(t, body, `name="_method" value="PUT"`)
	assert.NotContains(t, body, "secret")
}

func TestSubmitJSON(t *testing.T) {
	h, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"signup":{"email":"ada@example.com","password":"pw"}}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"record":"1","values":{"email":"ada@example.com","password":""}}`, rec.Body.String())
}

func TestSubmitJSONInvalid(t *testing.T) {
	h, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"email":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var payload jsondoc.Payload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.NotEmpty(t, payload.Errors["email"])
	assert.NotEmpty(t, payload.Errors["password"])
}

func TestSubmittedReadsMultipleSelect(t *testing.T) {
	f := form.New(form.WithName("prefs"))
	require.NoError(t, f.AddEntries(
		form.Entry{Name: "tags", Options: map[string]any{"control": "select", "attributes": map[string]any{"multiple": true}, "items": []any{"a", "b"}}},
		form.Entry{Name: "agree", Options: map[string]any{"type": "checkbox"}},
	))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("prefs%5Btags%5D%5B%5D=a&prefs%5Btags%5D%5B%5D=b"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	values, err := Submitted(req, f)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"tags": []any{"a", "b"}, "agree": ""}, values)
}

func TestCheckboxRoundTrip(t *testing.T) {
	f := form.New(form.WithName("terms"), form.WithAction("/forms/terms"))
	require.NoError(t, f.AddEntries(
		form.Entry{Name: "agree", Options: map[string]any{"type": "checkbox", "rule": "accepted"}},
	))
	html, err := layout.New()
	require.NoError(t, err)
	registry := render.NewRegistry()
	registry.MustRegister(html)
	h, err := New(Forms{"terms": f}, registry, WithStore(NewMemoryStore()))
	require.NoError(t, err)
	routes := h.Routes()

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/terms", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="terms[agree]" value="1">`)

	rec = postForm(t, routes, "/terms", url.Values{})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = postForm(t, routes, "/terms", url.Values{"terms[agree]": {"1"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/terms/1", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/terms/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="terms[agree]" value="1" checked>`)
}
