// Package render holds the contract shared by form renderers together with
// the per-request data they consume: reconciled values, validation errors,
// hidden fields, theme selection and translations.
package render

import (
	"context"

	"github.com/goliatone/go-forms/pkg/form"
)

// Renderer converts a form into a byte representation (HTML, JSON, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, f *form.Form, options RenderOptions) ([]byte, error)
}
