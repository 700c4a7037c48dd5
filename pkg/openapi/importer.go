package openapi

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-forms/pkg/control"
	"github.com/goliatone/go-forms/pkg/form"
)

// Schema extensions read by the importer.
const (
	ExtControl = "x-control"
	ExtGroup   = "x-group"
	ExtOrder   = "x-order"
)

var mediaTypes = []string{
	"application/x-www-form-urlencoded",
	"multipart/form-data",
	"application/json",
}

type importer struct {
	basePath string
}

// Option configures Document.
type Option func(*importer)

// WithBasePath prefixes the operation path to form the form action.
func WithBasePath(base string) Option {
	return func(i *importer) {
		i.basePath = strings.TrimRight(strings.TrimSpace(base), "/")
	}
}

// Document builds the form definition for the operation's request body.
func Document(spec *openapi3.T, operationID string, opts ...Option) (form.Document, Operation, error) {
	imp := &importer{}
	for _, opt := range opts {
		if opt != nil {
			opt(imp)
		}
	}

	op, info, ok := findOperation(spec, operationID)
	if !ok {
		return form.Document{}, Operation{}, errors.New("operation not found", errors.CategoryBadInput).
			WithTextCode("OPENAPI_OPERATION_NOT_FOUND").
			WithMetadata(map[string]any{"operation": operationID})
	}
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return form.Document{}, info, errors.New("operation has no request body", errors.CategoryBadInput).
			WithTextCode("OPENAPI_NO_REQUEST_BODY").
			WithMetadata(map[string]any{"operation": operationID})
	}

	mediaType, schema := requestSchema(op.RequestBody.Value)
	if schema == nil {
		return form.Document{}, info, errors.New("request body has no schema", errors.CategoryBadInput).
			WithTextCode("OPENAPI_NO_SCHEMA").
			WithMetadata(map[string]any{"operation": operationID})
	}

	doc := form.Document{
		Name:    info.ID,
		Action:  imp.basePath + info.Path,
		Method:  info.Method,
		EncType: string(form.EncTypeURLEncoded),
	}
	if mediaType == "multipart/form-data" {
		doc.EncType = string(form.EncTypeMultipart)
	}

	b := &builder{visited: make(map[*openapi3.Schema]bool)}
	b.object(schema, "", "", &doc)
	doc.Groups = b.groups
	if len(doc.Controls) == 0 {
		return form.Document{}, info, errors.New("request body schema has no usable properties", errors.CategoryBadInput).
			WithTextCode("OPENAPI_NO_PROPERTIES").
			WithMetadata(map[string]any{"operation": operationID})
	}
	return doc, info, nil
}

// Import builds the form for an operation.
func Import(spec *openapi3.T, operationID string, formOpts ...form.Option) (*form.Form, Operation, error) {
	doc, info, err := Document(spec, operationID)
	if err != nil {
		return nil, info, err
	}
	f, err := form.FromDocument(doc, formOpts...)
	if err != nil {
		return nil, info, errors.Wrap(err, errors.CategoryValidation, "failed to build form from openapi schema").
			WithTextCode("OPENAPI_FORM_FAILED").
			WithMetadata(map[string]any{"operation": operationID})
	}
	return f, info, nil
}

func requestSchema(body *openapi3.RequestBody) (string, *openapi3.Schema) {
	for _, mediaType := range mediaTypes {
		if mt, ok := body.Content[mediaType]; ok && mt.Schema != nil && mt.Schema.Value != nil {
			return mediaType, mt.Schema.Value
		}
	}
	names := make([]string, 0, len(body.Content))
	for name := range body.Content {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if mt := body.Content[name]; mt != nil && mt.Schema != nil && mt.Schema.Value != nil {
			return name, mt.Schema.Value
		}
	}
	return "", nil
}

type builder struct {
	visited map[*openapi3.Schema]bool
	groups  []form.Group
}

type property struct {
	name   string
	schema *openapi3.Schema
	order  float64
}

// object appends the controls of an object schema. prefix is the bracketed
// field name of the parent, group the group controls belong to.
func (b *builder) object(schema *openapi3.Schema, prefix, group string, doc *form.Document) {
	if schema == nil || b.visited[schema] {
		return
	}
	b.visited[schema] = true
	defer delete(b.visited, schema)

	properties, required := flatten(schema)
	for _, prop := range properties {
		s := prop.schema
		if s.ReadOnly {
			continue
		}
		name := prop.name
		if prefix != "" {
			name = prefix + "[" + prop.name + "]"
		}

		if schemaType(s) == "object" && len(s.Properties) > 0 {
			childGroup := group
			if childGroup == "" {
				childGroup = prop.name
				b.groups = append(b.groups, form.Group{
					Name:     childGroup,
					Label:    labelFor(prop.name, s),
					Priority: form.DefaultGroupPriority - 1 - len(b.groups),
				})
			}
			b.object(s, name, childGroup, doc)
			continue
		}

		options := b.options(s, required[prop.name])
		if g := stringExtension(s, ExtGroup); g != "" {
			options["group"] = g
		} else if group != "" {
			options["group"] = group
		}
		if _, ok := options["label"]; !ok {
			options["label"] = labelFor(prop.name, s)
		}
		doc.Controls = append(doc.Controls, form.Entry{Name: name, Options: options})
	}
}

// flatten merges allOf members into one property list sorted by x-order then
// name.
func flatten(schema *openapi3.Schema) ([]property, map[string]bool) {
	required := make(map[string]bool)
	byName := make(map[string]*openapi3.Schema)

	var collect func(s *openapi3.Schema, depth int)
	collect = func(s *openapi3.Schema, depth int) {
		if s == nil || depth > 8 {
			return
		}
		for _, member := range s.AllOf {
			if member != nil {
				collect(member.Value, depth+1)
			}
		}
		for name, ref := range s.Properties {
			if ref != nil && ref.Value != nil {
				byName[name] = ref.Value
			}
		}
		for _, name := range s.Required {
			required[name] = true
		}
	}
	collect(schema, 0)

	out := make([]property, 0, len(byName))
	for name, s := range byName {
		out = append(out, property{name: name, schema: s, order: orderOf(s)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].order != out[j].order {
			return out[i].order < out[j].order
		}
		return out[i].name < out[j].name
	})
	return out, required
}

func (b *builder) options(s *openapi3.Schema, required bool) map[string]any {
	options := make(map[string]any)
	var rules []any
	if required {
		rules = append(rules, "required")
	}

	typ := schemaType(s)
	enum := s.Enum
	multiple := false
	if typ == "array" && s.Items != nil && s.Items.Value != nil && len(s.Items.Value.Enum) > 0 {
		enum = s.Items.Value.Enum
		multiple = true
	}

	switch {
	case stringExtension(s, ExtControl) != "":
		options["control"] = stringExtension(s, ExtControl)
	case len(enum) > 0:
		options["control"] = control.VariantSelect
		items := make([]any, 0, len(enum))
		for _, value := range enum {
			items = append(items, scalar(value))
		}
		options[control.KeyItems] = items
		if multiple {
			options["attributes"] = map[string]any{"multiple": true}
		}
	case s.Format == "password":
		options["control"] = control.VariantPassword
	default:
		if inputType := inputTypeFor(typ, s.Format); inputType != "" {
			options[control.KeyType] = inputType
		}
	}

	switch typ {
	case "string":
		rules = append(rules, "string")
		if s.MinLength > 0 {
			rules = append(rules, fmt.Sprintf("min:%d", s.MinLength))
		}
		if s.MaxLength != nil {
			rules = append(rules, fmt.Sprintf("max:%d", *s.MaxLength))
		}
		switch s.Format {
		case "email":
			rules = append(rules, "email")
		case "uri", "url":
			rules = append(rules, "url")
		}
		if s.Pattern != "" {
			rules = append(rules, "regex:/"+s.Pattern+"/")
		}
	case "integer", "number":
		if typ == "integer" {
			rules = append(rules, "integer")
		} else {
			rules = append(rules, "numeric")
		}
		if s.Min != nil {
			rules = append(rules, "min:"+formatNumber(*s.Min))
		}
		if s.Max != nil {
			rules = append(rules, "max:"+formatNumber(*s.Max))
		}
	case "boolean":
		rules = append(rules, "boolean")
	case "array":
		rules = append(rules, "array")
		if s.MinItems > 0 {
			rules = append(rules, fmt.Sprintf("min:%d", s.MinItems))
		}
		if s.MaxItems != nil {
			rules = append(rules, fmt.Sprintf("max:%d", *s.MaxItems))
		}
	}
	if len(s.Enum) > 0 && typ != "array" {
		values := make([]string, 0, len(s.Enum))
		for _, value := range s.Enum {
			values = append(values, fmt.Sprint(scalar(value)))
		}
		rules = append(rules, "in:"+strings.Join(values, ","))
	}
	if len(rules) > 0 {
		options["rule"] = rules
	}

	if s.Default != nil {
		options["value"] = scalar(s.Default)
	}
	if s.Title != "" {
		options["label"] = s.Title
	}
	if s.Description != "" {
		options["help"] = s.Description
	}
	if example, ok := s.Example.(string); ok && example != "" {
		options["attributes"] = mergeAttributes(options["attributes"], "placeholder", example)
	}
	return options
}

func mergeAttributes(existing any, key string, value any) map[string]any {
	attrs, _ := existing.(map[string]any)
	if attrs == nil {
		attrs = make(map[string]any)
	}
	attrs[key] = value
	return attrs
}

func inputTypeFor(typ, format string) string {
	switch typ {
	case "boolean":
		return control.TypeCheckbox
	case "integer", "number":
		return "number"
	}
	switch format {
	case "email":
		return "email"
	case "date":
		return "date"
	case "date-time":
		return "datetime-local"
	case "uri", "url":
		return "url"
	}
	return ""
}

func schemaType(s *openapi3.Schema) string {
	if s == nil || s.Type == nil {
		return ""
	}
	for _, typ := range s.Type.Slice() {
		if typ != "null" {
			return typ
		}
	}
	return ""
}

func stringExtension(s *openapi3.Schema, key string) string {
	raw, ok := s.Extensions[key]
	if !ok {
		return ""
	}
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v)
	case json.RawMessage:
		var out string
		if err := json.Unmarshal(v, &out); err == nil {
			return strings.TrimSpace(out)
		}
	}
	return ""
}

func orderOf(s *openapi3.Schema) float64 {
	raw, ok := s.Extensions[ExtOrder]
	if !ok {
		return 0
	}
	switch v := raw.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	case json.RawMessage:
		f, _ := strconv.ParseFloat(string(v), 64)
		return f
	}
	return 0
}

// scalar keeps integral JSON numbers as int64 so they print without a
// decimal point.
func scalar(value any) any {
	switch v := value.(type) {
	case float64:
		if v == float64(int64(v)) {
			return int64(v)
		}
	case int:
		return int64(v)
	}
	return value
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func labelFor(name string, s *openapi3.Schema) string {
	if s != nil && s.Title != "" {
		return s.Title
	}
	return humanize(name)
}

// humanize turns snake_case and camelCase names into "Sentence case".
func humanize(name string) string {
	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, strings.ToLower(string(current)))
			current = current[:0]
		}
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '-' || r == ' ':
			flush()
		case unicode.IsUpper(r) && i > 0:
			flush()
			current = append(current, r)
		default:
			current = append(current, r)
		}
	}
	flush()
	if len(words) == 0 {
		return name
	}
	sentence := strings.Join(words, " ")
	runes := []rune(sentence)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
