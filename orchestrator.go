package forms

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-forms/pkg/orchestrator"
	"github.com/goliatone/go-forms/pkg/render"
)

// RenderOptions describes per-request overrides that renderers use to
// prefill values or surface server-side validation errors.
type RenderOptions = render.RenderOptions

// FieldSubset aliases render.FieldSubset for callers rendering only some
// groups or controls.
type FieldSubset = render.FieldSubset

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML loads a definition file and renders it with the named
// renderer ("" for the HTML layout). It is the simplest entry point for
// callers that just want HTML output.
func GenerateHTML(ctx context.Context, path, rendererName string, opts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Source:        orchestrator.DefinitionFile(path),
		Renderer:      rendererName,
		RenderOptions: opts,
	})
}

// GenerateHTMLFromForm renders an already built form.
func GenerateHTMLFromForm(ctx context.Context, f *Form, rendererName string, opts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Source:        orchestrator.FormSource(f),
		Renderer:      rendererName,
		RenderOptions: opts,
	})
}

// WithThemeSelector passes a go-theme selector through to the orchestrator.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}
