package form

import (
	"strings"

	"github.com/goliatone/go-forms/pkg/control"
	"github.com/goliatone/go-forms/pkg/logging"
)

type config struct {
	name     string
	registry *control.Registry
	logger   logging.Logger
	action   string
	method   Method
	encType  EncType
}

func defaultConfig() config {
	return config{
		registry: control.DefaultRegistry(),
		logger:   logging.Nop(),
		method:   MethodPost,
		encType:  EncTypeURLEncoded,
	}
}

// Option customises a Collection or a Form. Form-only options are ignored by
// NewCollection.
type Option func(*config)

// WithName sets the collection name used as the field name prefix.
func WithName(name string) Option {
	return func(cfg *config) {
		cfg.name = strings.TrimSpace(name)
	}
}

// WithRegistry overrides the control registry used to build controls from
// definitions.
func WithRegistry(registry *control.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithLogger wires a logger. Nil keeps the no-op logger.
func WithLogger(logger logging.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithAction sets the form action URL.
func WithAction(action string) Option {
	return func(cfg *config) {
		cfg.action = strings.TrimSpace(action)
	}
}

// WithMethod sets the form method. Unknown methods fall back to POST.
func WithMethod(method Method) Option {
	return func(cfg *config) {
		cfg.method = ParseMethod(string(method))
	}
}

// WithEncType sets the form encoding type. Unknown values fall back to
// urlencoded.
func WithEncType(encType EncType) Option {
	return func(cfg *config) {
		cfg.encType = ParseEncType(string(encType))
	}
}
