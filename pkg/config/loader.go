package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// DefaultEnvPrefix scopes the environment variables read by Load.
const DefaultEnvPrefix = "FORMS_"

// envDelimiter separates nesting levels in variable names, so
// FORMS_RENDER__TEMPLATES_DIR maps to render.templates_dir.
const envDelimiter = "__"

type loader struct {
	file      string
	envFiles  []string
	envPrefix string
	environ   func() []string
	flags     *pflag.FlagSet
}

// Option configures Load.
type Option func(*loader)

// WithFile loads a JSON, YAML or TOML file picked by extension. A missing
// file is not an error.
func WithFile(path string) Option {
	return func(l *loader) {
		l.file = strings.TrimSpace(path)
	}
}

// WithEnvFiles reads .env style files. Missing files are skipped.
func WithEnvFiles(paths ...string) Option {
	return func(l *loader) {
		l.envFiles = append(l.envFiles, paths...)
	}
}

// WithEnvPrefix changes the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *loader) {
		l.envPrefix = prefix
	}
}

// WithEnviron replaces os.Environ, mostly for tests.
func WithEnviron(environ func() []string) Option {
	return func(l *loader) {
		if environ != nil {
			l.environ = environ
		}
	}
}

// WithFlags applies flags registered with RegisterFlags.
func WithFlags(fs *pflag.FlagSet) Option {
	return func(l *loader) {
		l.flags = fs
	}
}

// RegisterFlags adds the configuration flags to fs. Flag names use the
// koanf key paths.
func RegisterFlags(fs *pflag.FlagSet) {
	defaults := Defaults()
	fs.String("server.addr", defaults.Server.Addr, "HTTP listen address")
	fs.String("forms.dir", defaults.Forms.Dir, "directory with form definitions")
	fs.String("forms.theme", defaults.Forms.Theme, "theme name")
	fs.String("forms.variant", defaults.Forms.Variant, "theme variant")
	fs.String("render.templates_dir", defaults.Render.TemplatesDir, "directory overriding the layout templates")
	fs.String("log.level", defaults.Log.Level, "log level (debug, info, warn, error)")
	fs.Bool("log.json", defaults.Log.JSON, "log as JSON")
}

// Load layers the configured sources and validates the result.
func Load(opts ...Option) (Config, error) {
	l := &loader{envPrefix: DefaultEnvPrefix, environ: os.Environ}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return Config{}, errors.Wrap(err, errors.CategoryOperation, "failed to load default values").
			WithTextCode("DEFAULT_VALUES_LOAD_FAILED")
	}

	if l.file != "" {
		if err := l.loadFile(k); err != nil {
			return Config{}, err
		}
	}

	env, err := l.readEnv()
	if err != nil {
		return Config{}, err
	}
	if len(env) > 0 {
		if err := k.Load(confmap.Provider(env, "."), nil); err != nil {
			return Config{}, errors.Wrap(err, errors.CategoryOperation, "failed to load environment variables").
				WithTextCode("ENV_LOAD_FAILED").
				WithMetadata(map[string]any{"prefix": l.envPrefix, "delimiter": envDelimiter})
		}
	}

	if l.flags != nil {
		if err := k.Load(posflag.Provider(l.flags, ".", k), nil); err != nil {
			return Config{}, errors.Wrap(err, errors.CategoryOperation, "failed to load configuration from posix flags").
				WithTextCode("FLAGS_LOAD_FAILED")
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, errors.Wrap(err, errors.CategoryOperation, "failed to unmarshal configuration data").
			WithTextCode("CONFIG_UNMARSHAL_FAILED")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (l *loader) loadFile(k *koanf.Koanf) error {
	if _, err := os.Stat(l.file); os.IsNotExist(err) {
		return nil
	}

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(l.file)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".toml":
		parser = toml.Parser()
	default:
		parser = json.Parser()
	}

	if err := k.Load(file.Provider(l.file), parser); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to load configuration from file").
			WithTextCode("FILE_LOAD_FAILED").
			WithMetadata(map[string]any{"filepath": l.file})
	}
	return nil
}

// readEnv merges .env files and the environment, the latter winning, and
// keeps only prefixed variables as koanf keys.
func (l *loader) readEnv() (map[string]any, error) {
	raw := make(map[string]string)
	for _, path := range l.envFiles {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		values, err := godotenv.Read(path)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryOperation, "failed to read env file").
				WithTextCode("ENV_FILE_READ_FAILED").
				WithMetadata(map[string]any{"filepath": path})
		}
		for key, value := range values {
			raw[key] = value
		}
	}
	for _, pair := range l.environ() {
		key, value, ok := strings.Cut(pair, "=")
		if ok {
			raw[key] = value
		}
	}

	out := make(map[string]any)
	for key, value := range raw {
		if l.envPrefix != "" && !strings.HasPrefix(key, l.envPrefix) {
			continue
		}
		path := strings.ToLower(strings.TrimPrefix(key, l.envPrefix))
		path = strings.ReplaceAll(path, envDelimiter, ".")
		if path == "" {
			continue
		}
		out[path] = value
	}
	return out, nil
}
