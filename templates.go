package forms

import (
	"io/fs"

	"github.com/goliatone/go-forms/pkg/renderers/layout"
)

// EmbeddedTemplates exposes the built-in layout templates so callers can
// copy or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return layout.TemplatesFS()
}
