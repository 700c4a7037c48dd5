package openapi

import (
	"context"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goliatone/go-errors"
)

// Operation summarises an operation that carries a request body.
type Operation struct {
	ID      string `json:"id"`
	Method  string `json:"method"`
	Path    string `json:"path"`
	Summary string `json:"summary,omitempty"`
}

// LoadData parses and validates a JSON or YAML OpenAPI document.
func LoadData(ctx context.Context, data []byte) (*openapi3.T, error) {
	if len(data) == 0 {
		return nil, errors.New("openapi document is empty", errors.CategoryBadInput).
			WithTextCode("OPENAPI_EMPTY")
	}
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "failed to parse openapi document").
			WithTextCode("OPENAPI_PARSE_FAILED")
	}
	return validate(ctx, spec)
}

// LoadFile parses a document from disk. Relative $refs resolve against the
// file location.
func LoadFile(ctx context.Context, path string) (*openapi3.T, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to read openapi document").
			WithTextCode("OPENAPI_READ_FAILED").
			WithMetadata(map[string]any{"filepath": path})
	}
	loader := &openapi3.Loader{Context: ctx, IsExternalRefsAllowed: true}
	spec, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "failed to parse openapi document").
			WithTextCode("OPENAPI_PARSE_FAILED").
			WithMetadata(map[string]any{"filepath": path})
	}
	return validate(ctx, spec)
}

// LoadURL fetches a remote document.
func LoadURL(ctx context.Context, rawURL string) (*openapi3.T, error) {
	location, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "invalid openapi url").
			WithTextCode("OPENAPI_URL_INVALID").
			WithMetadata(map[string]any{"url": rawURL})
	}
	loader := &openapi3.Loader{Context: ctx, IsExternalRefsAllowed: true}
	spec, err := loader.LoadFromURI(location)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to load openapi document").
			WithTextCode("OPENAPI_FETCH_FAILED").
			WithMetadata(map[string]any{"url": rawURL})
	}
	return validate(ctx, spec)
}

func validate(ctx context.Context, spec *openapi3.T) (*openapi3.T, error) {
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "openapi document is invalid").
			WithTextCode("OPENAPI_INVALID")
	}
	return spec, nil
}

// Operations lists the operations that accept a request body, sorted by
// path then method. Operations without an operationId get "method:path".
func Operations(spec *openapi3.T) []Operation {
	if spec == nil || spec.Paths == nil {
		return nil
	}
	var out []Operation
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil || op.RequestBody == nil {
				continue
			}
			out = append(out, Operation{
				ID:      operationID(method, path, op),
				Method:  strings.ToUpper(method),
				Path:    path,
				Summary: op.Summary,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

func operationID(method, path string, op *openapi3.Operation) string {
	if op.OperationID != "" {
		return op.OperationID
	}
	return strings.ToLower(method) + ":" + path
}

func findOperation(spec *openapi3.T, id string) (*openapi3.Operation, Operation, bool) {
	if spec == nil || spec.Paths == nil {
		return nil, Operation{}, false
	}
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op != nil && operationID(method, path, op) == id {
				return op, Operation{ID: id, Method: strings.ToUpper(method), Path: path, Summary: op.Summary}, true
			}
		}
	}
	return nil, Operation{}, false
}
