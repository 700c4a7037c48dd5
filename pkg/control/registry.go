package control

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Built-in variant tags.
const (
	VariantInput      = "input"
	VariantSelect     = "select"
	VariantPassword   = "password"
	VariantInputGroup = "input_group"
)

// Factory constructs an unconfigured control of one variant. Make applies the
// option bag afterwards.
type Factory func(name string) Control

// Registry maps variant tags to factories. Registration validates the entry
// up front so Make only has to look it up.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns a registry with the built-in variants registered.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	r.MustRegister(VariantInput, func(name string) Control { return NewInput(name) })
	r.MustRegister(VariantSelect, func(name string) Control { return NewSelect(name) })
	r.MustRegister(VariantPassword, func(name string) Control { return NewPassword(name) })
	r.MustRegister(VariantInputGroup, func(name string) Control { return newInputGroup(r, name) })
	return r
}

// NewEmptyRegistry returns a registry without any variants.
func NewEmptyRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the package level registry used by Make.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds a factory. Empty tags, nil factories and duplicates are
// rejected.
func (r *Registry) Register(variant string, factory Factory) error {
	variant = normalizeVariant(variant)
	if variant == "" {
		return fmt.Errorf("control: variant tag is required")
	}
	if factory == nil {
		return fmt.Errorf("control: factory for %q is nil", variant)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[variant]; exists {
		return fmt.Errorf("control: variant %q already registered", variant)
	}
	r.factories[variant] = factory
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(variant string, factory Factory) {
	if err := r.Register(variant, factory); err != nil {
		panic(err)
	}
}

// Has reports whether a variant is registered.
func (r *Registry) Has(variant string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[normalizeVariant(variant)]
	return ok
}

// Variants returns the sorted list of registered tags.
func (r *Registry) Variants() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Make builds a control from an option bag. The variant comes from the
// "control" key, then from fallback, then defaults to input. Unknown variants
// and undecodable options return a *ConfigurationError.
func (r *Registry) Make(name string, options map[string]any, fallback ...string) (Control, error) {
	variant := VariantInput
	if len(fallback) > 0 && strings.TrimSpace(fallback[0]) != "" {
		variant = fallback[0]
	}
	if tag, ok := optionString(options, KeyControl); ok && tag != "" {
		variant = tag
	}
	variant = normalizeVariant(variant)

	r.mu.RLock()
	factory, ok := r.factories[variant]
	r.mu.RUnlock()
	if !ok {
		return nil, &ConfigurationError{Name: name, Variant: variant, Err: ErrUnknownVariant}
	}

	ctrl := factory(name)
	if err := ctrl.SetOptions(options); err != nil {
		return nil, &ConfigurationError{Name: name, Variant: variant, Err: err}
	}
	return ctrl, nil
}

// Make builds a control with the default registry.
func Make(name string, options map[string]any) (Control, error) {
	return defaultRegistry.Make(name, options)
}

// Clone rebuilds a control from its definition, detached from any container.
func (r *Registry) Clone(ctrl Control) (Control, error) {
	if ctrl == nil {
		return nil, fmt.Errorf("control: cannot clone nil control")
	}
	return r.Make(ctrl.Name(), ctrl.Definition(), ctrl.Variant())
}

func normalizeVariant(variant string) string {
	return strings.ToLower(strings.TrimSpace(variant))
}
