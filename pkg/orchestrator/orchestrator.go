package orchestrator

import (
	"context"
	"errors"
	"fmt"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-forms/pkg/form"
	"github.com/goliatone/go-forms/pkg/logging"
	"github.com/goliatone/go-forms/pkg/render"
	"github.com/goliatone/go-forms/pkg/renderers/jsondoc"
	"github.com/goliatone/go-forms/pkg/renderers/layout"
)

const defaultRendererName = "layout"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformers registers transformers that run, in order, on every form
// before it is rendered.
func WithTransformers(transformers ...Transformer) Option {
	return func(o *Orchestrator) {
		o.transformers = append(o.transformers, transformers...)
	}
}

// WithThemeSelector resolves Request.ThemeName and ThemeVariant into the
// theme handed to renderers.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithDefaultTheme is used when a request names no theme.
func WithDefaultTheme(name, variant string) Option {
	return func(o *Orchestrator) {
		o.defaultTheme = name
		o.defaultVariant = variant
	}
}

// WithFormOptions are passed to sources that build forms.
func WithFormOptions(opts ...form.Option) Option {
	return func(o *Orchestrator) {
		o.formOptions = append(o.formOptions, opts...)
	}
}

func WithLogger(logger logging.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator coordinates the pipeline from a form source to rendered
// output. Without options it renders HTML with the layout renderer and also
// registers the JSON renderer.
type Orchestrator struct {
	registry        *render.Registry
	defaultRenderer string
	transformers    []Transformer
	themeSelector   theme.ThemeSelector
	defaultTheme    string
	defaultVariant  string
	formOptions     []form.Option
	logger          logging.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		logger:          logging.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one generation.
type Request struct {
	// Source produces the form.
	Source Source

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// ThemeName and ThemeVariant are resolved through the theme selector.
	// RenderOptions.Theme, when set, wins.
	ThemeName    string
	ThemeVariant string

	// RenderOptions carries per-request values, errors and hidden inputs.
	RenderOptions render.RenderOptions
}

// Generate loads the form, runs the transformers and renders it.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	f, renderer, opts, err := o.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	output, err := renderer.Render(ctx, f, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	o.logger.Debug("orchestrator: rendered %q with %s", f.Name(), renderer.Name())
	return output, nil
}

// Form loads and transforms the form without rendering it.
func (o *Orchestrator) Form(ctx context.Context, source Source) (*form.Form, string, error) {
	if ctx == nil {
		return nil, "", errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	if source == nil {
		return nil, "", errors.New("orchestrator: source is required")
	}

	f, method, err := source.Load(ctx, o.formOptions...)
	if err != nil {
		return nil, "", fmt.Errorf("orchestrator: load form: %w", err)
	}
	for _, transformer := range o.transformers {
		if transformer == nil {
			continue
		}
		if err := transformer.Transform(ctx, f); err != nil {
			return nil, "", fmt.Errorf("orchestrator: transform form: %w", err)
		}
	}
	return f, method, nil
}

func (o *Orchestrator) prepare(ctx context.Context, req Request) (*form.Form, render.Renderer, render.RenderOptions, error) {
	opts := req.RenderOptions
	if err := o.initialiseErr; err != nil {
		return nil, nil, opts, err
	}

	f, method, err := o.Form(ctx, req.Source)
	if err != nil {
		return nil, nil, opts, err
	}
	if opts.Method == "" {
		opts.Method = method
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, nil, opts, err
	}

	if opts.Theme == nil {
		cfg, err := o.resolveTheme(req)
		if err != nil {
			return nil, nil, opts, err
		}
		opts.Theme = cfg
	}
	return f, renderer, opts, nil
}

func (o *Orchestrator) resolveTheme(req Request) (*render.ThemeConfig, error) {
	if o.themeSelector == nil {
		return nil, nil
	}
	name, variant := req.ThemeName, req.ThemeVariant
	if name == "" {
		name, variant = o.defaultTheme, o.defaultVariant
	}
	selection, err := o.themeSelector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme: %w", err)
	}
	return render.ThemeFromSelection(selection), nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.registry != nil {
		return
	}
	o.registry = render.NewRegistry()
	renderer, err := layout.New(layout.WithLogger(o.logger))
	if err != nil {
		o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		return
	}
	o.registry.MustRegister(renderer)
	o.registry.MustRegister(jsondoc.New(""))
}
