package render

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-errors"
)

// Registry stores renderers by name.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
	fallback  string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{renderers: make(map[string]Renderer)}
}

// Register adds a renderer by its Name(). Duplicate names are rejected. The
// first registered renderer becomes the default.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil || renderer.Name() == "" {
		return errors.New("renderer with a name is required", errors.CategoryValidation).
			WithTextCode("RENDERER_INVALID")
	}
	name := renderer.Name()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.renderers[name]; exists {
		return errors.New("renderer already registered", errors.CategoryValidation).
			WithTextCode("RENDERER_DUPLICATE").
			WithMetadata(map[string]any{"renderer": name})
	}
	r.renderers[name] = renderer
	if r.fallback == "" {
		r.fallback = name
	}
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Get retrieves a renderer by name. An empty name returns the default.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name == "" {
		name = r.fallback
	}
	renderer, ok := r.renderers[name]
	if !ok {
		return nil, errors.New("renderer not found", errors.CategoryBadInput).
			WithTextCode("RENDERER_NOT_FOUND").
			WithMetadata(map[string]any{"renderer": name, "available": r.listLocked()})
	}
	return renderer, nil
}

// ForContentType returns the first renderer, by name, whose content type
// starts with mime.
func (r *Registry) ForContentType(mime string) (Renderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range r.listLocked() {
		if renderer := r.renderers[name]; strings.HasPrefix(renderer.ContentType(), mime) {
			return renderer, true
		}
	}
	return nil, false
}

// List returns the sorted renderer names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listLocked()
}

func (r *Registry) listLocked() []string {
	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a renderer is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.renderers[name]
	return ok
}
