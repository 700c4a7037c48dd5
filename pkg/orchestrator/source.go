package orchestrator

import (
	"context"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-forms/pkg/definition"
	"github.com/goliatone/go-forms/pkg/form"
	"github.com/goliatone/go-forms/pkg/openapi"
)

// Source produces the form to render. Method is the submission method the
// source implies, or "" to keep the form's own.
type Source interface {
	Load(ctx context.Context, opts ...form.Option) (f *form.Form, method string, err error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, opts ...form.Option) (*form.Form, string, error)

func (fn SourceFunc) Load(ctx context.Context, opts ...form.Option) (*form.Form, string, error) {
	return fn(ctx, opts...)
}

// FormSource serves an already built form. Form options are ignored.
func FormSource(f *form.Form) Source {
	return SourceFunc(func(context.Context, ...form.Option) (*form.Form, string, error) {
		if f == nil {
			return nil, "", errors.New("form is required", errors.CategoryBadInput).
				WithTextCode("ORCHESTRATOR_FORM_REQUIRED")
		}
		return f, "", nil
	})
}

// DefinitionFile loads a definition with definition.LoadFile.
func DefinitionFile(path string) Source {
	return SourceFunc(func(ctx context.Context, opts ...form.Option) (*form.Form, string, error) {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		f, err := definition.LoadFile(path, opts...)
		return f, "", err
	})
}

// DefinitionData decodes an encoded definition.
func DefinitionData(data []byte, format definition.Format) Source {
	return SourceFunc(func(ctx context.Context, opts ...form.Option) (*form.Form, string, error) {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		f, err := definition.Decode(data, format, opts...)
		return f, "", err
	})
}

// OpenAPIOperation imports the request body of an operation. The operation's
// HTTP method is reported so PUT and PATCH render with a method override.
func OpenAPIOperation(spec *openapi3.T, operationID string) Source {
	return SourceFunc(func(ctx context.Context, opts ...form.Option) (*form.Form, string, error) {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		if spec == nil {
			return nil, "", errors.New("openapi document is required", errors.CategoryBadInput).
				WithTextCode("ORCHESTRATOR_SPEC_REQUIRED")
		}
		f, op, err := openapi.Import(spec, operationID, opts...)
		if err != nil {
			return nil, "", err
		}
		return f, op.Method, nil
	})
}

// OpenAPIFile loads a document from a path or http(s) URL and imports an
// operation from it.
func OpenAPIFile(location, operationID string) Source {
	return SourceFunc(func(ctx context.Context, opts ...form.Option) (*form.Form, string, error) {
		var (
			spec *openapi3.T
			err  error
		)
		if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
			spec, err = openapi.LoadURL(ctx, location)
		} else {
			spec, err = openapi.LoadFile(ctx, location)
		}
		if err != nil {
			return nil, "", err
		}
		return OpenAPIOperation(spec, operationID).Load(ctx, opts...)
	})
}
