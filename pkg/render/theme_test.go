package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-forms/pkg/render"
)

func acmeManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":      "#123456",
			"form.class": "acme-form",
		},
		Templates: map[string]string{
			"forms.layout": "acme/form.tpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets/acme",
			Files:  map[string]string{"stylesheet": "theme.css"},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens:    map[string]string{"brand": "#654321"},
				Templates: map[string]string{"forms.section": "acme/dark/section.tpl"},
			},
		},
	}
}

func TestThemeFromSelectionMergesVariant(t *testing.T) {
	set, err := render.NewThemeSet(acmeManifest())
	if err != nil {
		t.Fatalf("new theme set: %v", err)
	}

	selection, err := set.Select("", "dark")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	cfg := render.ThemeFromSelection(selection)

	want := &render.ThemeConfig{
		Name:    "acme",
		Variant: "dark",
		Tokens:  map[string]string{"brand": "#654321", "form.class": "acme-form"},
		Templates: map[string]string{
			"forms.layout":  "acme/form.tpl",
			"forms.section": "acme/dark/section.tpl",
		},
		CSSVars:     map[string]string{"--brand": "#654321", "--form-class": "acme-form"},
		AssetPrefix: "/assets/acme",
		Assets:      map[string]string{"stylesheet": "theme.css"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("theme config mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.AssetURL("stylesheet"); got != "/assets/acme/theme.css" {
		t.Fatalf("asset url mismatch: %q", got)
	}
	if got := cfg.Token("missing", "fallback"); got != "fallback" {
		t.Fatalf("token fallback mismatch: %q", got)
	}
}

func TestThemeSetSelectErrors(t *testing.T) {
	set, err := render.NewThemeSet(acmeManifest())
	if err != nil {
		t.Fatalf("new theme set: %v", err)
	}
	if _, err := set.Select("other", ""); err == nil {
		t.Fatalf("expected unknown theme error")
	}
	if _, err := set.Select("acme", "neon"); err == nil {
		t.Fatalf("expected unknown variant error")
	}
	if _, err := render.NewThemeSet(&theme.Manifest{}); err == nil {
		t.Fatalf("expected error for unnamed manifest")
	}
	if diff := cmp.Diff([]string{"acme"}, set.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestNilThemeConfig(t *testing.T) {
	var cfg *render.ThemeConfig
	if cfg.Token("brand", "x") != "x" || cfg.Template("forms.layout") != "" || cfg.AssetURL("a") != "" {
		t.Fatalf("nil config should return fallbacks")
	}
	if render.ThemeFromSelection(nil) != nil {
		t.Fatalf("expected nil config for nil selection")
	}
}
