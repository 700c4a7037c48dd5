package render_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-forms/pkg/form"
	"github.com/goliatone/go-forms/pkg/render"
)

type stubTranslator map[string]string

func (t stubTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if msg, ok := t[key]; ok {
		return msg, nil
	}
	return "", errors.New("missing translation")
}

func TestControlLabelTranslation(t *testing.T) {
	f := form.New()
	if err := f.AddEntries(
		form.Entry{Name: "email", Options: map[string]any{"label": "E-mail", "label_key": "fields.email"}},
		form.Entry{Name: "city", Options: map[string]any{"label": "City"}},
		form.Entry{Name: "zip", Options: map[string]any{"label": "Zip", "label_key": "fields.zip"}},
	); err != nil {
		t.Fatalf("add entries: %v", err)
	}

	opts := render.RenderOptions{
		Locale:     "es",
		Translator: stubTranslator{"fields.email": "Correo", "City": "Ciudad"},
	}

	email, _ := f.ControlByName("email")
	city, _ := f.ControlByName("city")
	zip, _ := f.ControlByName("zip")

	if got := opts.ControlLabel(email); got != "Correo" {
		t.Fatalf("expected label_key translation, got %q", got)
	}
	if got := opts.ControlLabel(city); got != "Ciudad" {
		t.Fatalf("expected label used as key, got %q", got)
	}
	if got := opts.ControlLabel(zip); got != "Zip" {
		t.Fatalf("expected fallback label, got %q", got)
	}
}

func TestTranslateOnMissing(t *testing.T) {
	var gotErr error
	opts := render.RenderOptions{
		Locale: "fr",
		OnMissing: func(locale, key string, _ []any, err error) string {
			gotErr = err
			return "[" + locale + ":" + key + "]"
		},
	}
	if got := opts.Translate("groups.account", "Account"); got != "[fr:groups.account]" {
		t.Fatalf("unexpected missing translation output %q", got)
	}
	if !errors.Is(gotErr, render.ErrMissingTranslator) {
		t.Fatalf("expected ErrMissingTranslator, got %v", gotErr)
	}

	if got := (render.RenderOptions{}).Translate("groups.account", "Account"); got != "Account" {
		t.Fatalf("expected fallback without translator, got %q", got)
	}
}

func TestGroupLabelAndTemplateFuncs(t *testing.T) {
	opts := render.RenderOptions{
		Locale:     "pt",
		Translator: render.TranslatorFunc(stubTranslator{"groups.account": "Conta"}.Translate),
	}
	if got := opts.GroupLabel(form.Group{Name: "account", Label: "Account"}); got != "Conta" {
		t.Fatalf("expected translated group label, got %q", got)
	}
	if got := opts.GroupLabel(form.Group{Name: "other", Label: "Other"}); got != "Other" {
		t.Fatalf("expected fallback group label, got %q", got)
	}

	funcs := opts.TemplateFuncs()
	translate := funcs["translate"].(func(string, ...string) string)
	if got := translate("groups.account"); got != "Conta" {
		t.Fatalf("template translate mismatch: %q", got)
	}
	if got := translate("missing", "Fallback"); got != "Fallback" {
		t.Fatalf("template translate fallback mismatch: %q", got)
	}
	if got := funcs["current_locale"].(func() string)(); got != "pt" {
		t.Fatalf("current_locale mismatch: %q", got)
	}
}
