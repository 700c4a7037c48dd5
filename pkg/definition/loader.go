package definition

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/goliatone/go-forms/pkg/form"
)

func parserFor(format Format) (koanf.Parser, error) {
	switch format {
	case FormatJSON:
		return json.Parser(), nil
	case FormatYAML:
		return yaml.Parser(), nil
	case FormatTOML:
		return toml.Parser(), nil
	default:
		return nil, errors.New("definition format cannot be loaded from a file", errors.CategoryValidation).
			WithTextCode("DEFINITION_FORMAT_UNSUPPORTED").
			WithMetadata(map[string]any{"format": string(format)})
	}
}

// LoadFile reads a JSON, YAML or TOML definition through koanf and builds the
// form. MessagePack files are decoded directly.
func LoadFile(path string, opts ...form.Option) (*form.Form, error) {
	format := FormatFromPath(path)
	if format == FormatMsgpack {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryOperation, "failed to read form definition").
				WithTextCode("DEFINITION_READ_FAILED").
				WithMetadata(map[string]any{"filepath": path})
		}
		return Decode(data, format, opts...)
	}

	doc, err := readDocument(path, format)
	if err != nil {
		return nil, err
	}
	return build(doc, opts...)
}

func readDocument(path string, format Format) (form.Document, error) {
	parser, err := parserFor(format)
	if err != nil {
		return form.Document{}, err
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return form.Document{}, errors.Wrap(err, errors.CategoryOperation, "failed to load form definition").
			WithTextCode("DEFINITION_LOAD_FAILED").
			WithMetadata(map[string]any{"filepath": path, "file_type": string(format)})
	}

	var doc form.Document
	if err := k.UnmarshalWithConf("", &doc, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return form.Document{}, errors.Wrap(err, errors.CategoryOperation, "failed to unmarshal form definition").
			WithTextCode("DEFINITION_UNMARSHAL_FAILED").
			WithMetadata(map[string]any{"filepath": path, "file_type": string(format)})
	}
	normalizeDocument(&doc)
	return doc, nil
}

// LoadDir loads every definition file in dir, keyed by file name without
// extension. Files with unknown extensions are skipped.
func LoadDir(dir string, opts ...form.Option) (map[string]*form.Form, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to read definition directory").
			WithTextCode("DEFINITION_DIR_READ_FAILED").
			WithMetadata(map[string]any{"dir": dir})
	}

	known := []string{".json", ".yaml", ".yml", ".toml", ".msgpack", ".mp"}
	forms := make(map[string]*form.Form)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !slices.Contains(known, ext) {
			continue
		}
		key := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		f, err := LoadFile(filepath.Join(dir, entry.Name()), opts...)
		if err != nil {
			return nil, err
		}
		forms[key] = f
	}
	return forms, nil
}

// SaveFile encodes the form with the format inferred from path.
func SaveFile(path string, f *form.Form) error {
	format := FormatFromPath(path)
	data, err := Encode(f, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to write form definition").
			WithTextCode("DEFINITION_WRITE_FAILED").
			WithMetadata(map[string]any{"filepath": path})
	}
	return nil
}
