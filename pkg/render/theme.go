package render

import (
	"maps"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-errors"
	theme "github.com/goliatone/go-theme"
)

// ThemeConfig is a theme selection flattened for renderers: variant tokens
// and templates already override the base manifest.
type ThemeConfig struct {
	Name        string            `json:"name"`
	Variant     string            `json:"variant,omitempty"`
	Tokens      map[string]string `json:"tokens,omitempty"`
	Templates   map[string]string `json:"templates,omitempty"`
	CSSVars     map[string]string `json:"css_vars,omitempty"`
	AssetPrefix string            `json:"asset_prefix,omitempty"`
	Assets      map[string]string `json:"assets,omitempty"`
}

// Token returns a token value or fallback when unset.
func (c *ThemeConfig) Token(name, fallback string) string {
	if c == nil {
		return fallback
	}
	if value := strings.TrimSpace(c.Tokens[name]); value != "" {
		return value
	}
	return fallback
}

// Template returns the template override registered under key.
func (c *ThemeConfig) Template(key string) string {
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Templates[key])
}

// AssetURL resolves an asset key against the manifest prefix.
func (c *ThemeConfig) AssetURL(key string) string {
	if c == nil {
		return ""
	}
	file := c.Assets[key]
	if file == "" {
		return ""
	}
	if c.AssetPrefix == "" || strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
		return file
	}
	return path.Join(c.AssetPrefix, file)
}

// ThemeFromSelection merges the selected variant over its manifest.
func ThemeFromSelection(selection *theme.Selection) *ThemeConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest
	cfg := &ThemeConfig{
		Name:        selection.Theme,
		Variant:     selection.Variant,
		Tokens:      maps.Clone(manifest.Tokens),
		Templates:   maps.Clone(manifest.Templates),
		AssetPrefix: manifest.Assets.Prefix,
		Assets:      maps.Clone(manifest.Assets.Files),
	}
	if cfg.Name == "" {
		cfg.Name = manifest.Name
	}
	if variant, ok := manifest.Variants[selection.Variant]; ok {
		cfg.Tokens = overlay(cfg.Tokens, variant.Tokens)
		cfg.Templates = overlay(cfg.Templates, variant.Templates)
		cfg.Assets = overlay(cfg.Assets, variant.Assets.Files)
		if variant.Assets.Prefix != "" {
			cfg.AssetPrefix = variant.Assets.Prefix
		}
	}
	if len(cfg.Tokens) > 0 {
		cfg.CSSVars = make(map[string]string, len(cfg.Tokens))
		for name, value := range cfg.Tokens {
			cfg.CSSVars["--"+strings.ReplaceAll(name, ".", "-")] = value
		}
	}
	return cfg
}

func overlay(base, extra map[string]string) map[string]string {
	if len(extra) == 0 {
		return base
	}
	if base == nil {
		base = make(map[string]string, len(extra))
	}
	maps.Copy(base, extra)
	return base
}

// ThemeSet is an in-memory theme.ThemeSelector over a fixed list of
// manifests.
type ThemeSet struct {
	mu        sync.RWMutex
	manifests map[string]*theme.Manifest
	fallback  string
}

var _ theme.ThemeSelector = (*ThemeSet)(nil)

// NewThemeSet registers the manifests. The first one becomes the fallback
// used when Select is called without a name.
func NewThemeSet(manifests ...*theme.Manifest) (*ThemeSet, error) {
	set := &ThemeSet{manifests: make(map[string]*theme.Manifest)}
	for _, manifest := range manifests {
		if err := set.Add(manifest); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// Add registers a manifest, replacing one with the same name.
func (s *ThemeSet) Add(manifest *theme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return errors.New("theme manifest name is required", errors.CategoryValidation).
			WithTextCode("THEME_NAME_REQUIRED")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manifests[manifest.Name] = manifest
	if s.fallback == "" {
		s.fallback = manifest.Name
	}
	return nil
}

// Names lists the registered themes.
func (s *ThemeSet) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.manifests))
	for name := range s.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select returns the named theme. Unknown variants are an error; an empty
// variant selects the base manifest.
func (s *ThemeSet) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if strings.TrimSpace(name) == "" {
		name = s.fallback
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, errors.New("theme not found", errors.CategoryBadInput).
			WithTextCode("THEME_NOT_FOUND").
			WithMetadata(map[string]any{"theme": name})
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, errors.New("theme variant not found", errors.CategoryBadInput).
				WithTextCode("THEME_VARIANT_NOT_FOUND").
				WithMetadata(map[string]any{"theme": name, "variant": variant})
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}
