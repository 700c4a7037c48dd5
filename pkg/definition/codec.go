// Package definition reads and writes form definitions. A definition is a
// form.Document encoded as JSON, YAML, TOML (read only) or MessagePack.
package definition

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-forms/pkg/form"
)

// Format names a definition encoding.
type Format string

// Supported formats.
const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatTOML    Format = "toml"
	FormatMsgpack Format = "msgpack"
)

func (f Format) String() string {
	return string(f)
}

// Codec encodes and decodes form documents.
type Codec interface {
	Format() Format
	Marshal(doc form.Document) ([]byte, error)
	Unmarshal(data []byte) (form.Document, error)
}

// FormatFromPath infers the format from a file extension. Unknown extensions
// default to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".msgpack", ".mp":
		return FormatMsgpack
	default:
		return FormatJSON
	}
}

// CodecFor returns the codec for format. TOML has no codec: it is only
// readable through LoadFile.
func CodecFor(format Format) (Codec, error) {
	switch Format(strings.ToLower(string(format))) {
	case FormatJSON, "":
		return jsonCodec{}, nil
	case FormatYAML, "yml":
		return yamlCodec{}, nil
	case FormatMsgpack:
		return msgpackCodec{}, nil
	default:
		return nil, errors.New("unsupported definition format", errors.CategoryValidation).
			WithTextCode("DEFINITION_FORMAT_UNSUPPORTED").
			WithMetadata(map[string]any{
				"format":      string(format),
				"valid_types": []string{string(FormatJSON), string(FormatYAML), string(FormatMsgpack)},
			})
	}
}

// Encode writes the form as a definition document.
func Encode(f *form.Form, format Format) ([]byte, error) {
	codec, err := CodecFor(format)
	if err != nil {
		return nil, err
	}
	data, err := codec.Marshal(f.Document())
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to encode form definition").
			WithTextCode("DEFINITION_ENCODE_FAILED").
			WithMetadata(map[string]any{"format": string(codec.Format())})
	}
	return data, nil
}

// Decode builds a form from an encoded definition document.
func Decode(data []byte, format Format, opts ...form.Option) (*form.Form, error) {
	codec, err := CodecFor(format)
	if err != nil {
		return nil, err
	}
	doc, err := codec.Unmarshal(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "failed to decode form definition").
			WithTextCode("DEFINITION_DECODE_FAILED").
			WithMetadata(map[string]any{"format": string(codec.Format())})
	}
	return build(doc, opts...)
}

func build(doc form.Document, opts ...form.Option) (*form.Form, error) {
	f, err := form.FromDocument(doc, opts...)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid form definition").
			WithTextCode("DEFINITION_INVALID").
			WithMetadata(map[string]any{"form": doc.Name, "controls": len(doc.Controls)})
	}
	return f, nil
}

type jsonCodec struct{}

func (jsonCodec) Format() Format { return FormatJSON }

func (jsonCodec) Marshal(doc form.Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

func (jsonCodec) Unmarshal(data []byte) (form.Document, error) {
	var doc form.Document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return form.Document{}, err
	}
	normalizeDocument(&doc)
	return doc, nil
}

type yamlCodec struct{}

func (yamlCodec) Format() Format { return FormatYAML }

func (yamlCodec) Marshal(doc form.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (yamlCodec) Unmarshal(data []byte) (form.Document, error) {
	var doc form.Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return form.Document{}, err
	}
	normalizeDocument(&doc)
	return doc, nil
}

type msgpackCodec struct{}

func (msgpackCodec) Format() Format { return FormatMsgpack }

func (msgpackCodec) Marshal(doc form.Document) ([]byte, error) {
	return msgpack.Marshal(doc)
}

func (msgpackCodec) Unmarshal(data []byte) (form.Document, error) {
	var doc form.Document
	if err := msgpack.Unmarshal(data, &doc); err != nil {
		return form.Document{}, err
	}
	normalizeDocument(&doc)
	return doc, nil
}
