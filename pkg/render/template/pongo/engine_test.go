package pongo_test

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-forms/pkg/render/template/pongo"
	"github.com/goliatone/go-forms/pkg/testsupport"
)

//go:embed testdata/templates
var embeddedTemplates embed.FS

func newEngine(t *testing.T, opts ...pongo.Option) *pongo.Engine {
	t.Helper()

	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	engine, err := pongo.New(append([]pongo.Option{pongo.WithFS(templatesFS)}, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func assertRendered(t *testing.T, golden string, render func(io.Writer) (string, error)) {
	t.Helper()
	result, written := testsupport.CaptureTemplateOutput(t, render)
	path := filepath.Join("testdata", golden)
	if testsupport.WriteMaybeGolden(t, path, []byte(result)) {
		return
	}
	want := testsupport.MustReadGoldenString(t, path)
	if diff := testsupport.CompareGolden(want, result); diff != "" {
		t.Fatalf("render mismatch result (-want +got):\n%s", diff)
	}
	if written != want {
		t.Fatalf("render mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func TestEngineRenderTemplate(t *testing.T) {
	engine := newEngine(t)
	assertRendered(t, "hello.golden", func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})
}

func TestEngineGlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}
	assertRendered(t, "use-global.golden", func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-global.tpl", nil, w)
	})
}

func TestEngineRegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) {
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if err := engine.RegisterFilter("shout", func(any, any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected duplicate filter error")
	}
	assertRendered(t, "use-filter.golden", func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"}, w)
	})
}

func TestEngineEscapesAndIncludes(t *testing.T) {
	engine := newEngine(t)
	assertRendered(t, "with-include.golden", func(w io.Writer) (string, error) {
		return engine.RenderTemplate("with-include", map[string]any{
			"label": "Name & Co",
			"html":  "<i>x</i>",
		}, w)
	})
}

func TestEngineRenderStringWithFuncsAndStructs(t *testing.T) {
	engine := newEngine(t, pongo.WithTemplateFunc(map[string]any{
		"greet": func(name string) string { return "hi " + name },
	}))

	type view struct {
		Title string `json:"title"`
	}
	got, err := engine.Render(`{{ greet(page.title) }}`, map[string]any{"page": view{Title: "Forms"}})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if got != "hi Forms" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngineBaseDirOverridesFS(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hello.tpl"), []byte("Howdy, {{ name }}"), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	engine := newEngine(t, pongo.WithBaseDir(dir))

	got, err := engine.RenderTemplate("hello", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "Howdy, Ada" {
		t.Fatalf("expected base dir template to win, got %q", got)
	}
	if !engine.Has("use-filter") || engine.Has("absent") {
		t.Fatalf("Has mismatch")
	}
}

func TestNewRequiresSource(t *testing.T) {
	if _, err := pongo.New(); err == nil {
		t.Fatalf("expected error without template source")
	}
}
