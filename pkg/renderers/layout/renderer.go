// Package layout renders a whole form as HTML: the <form> element, hidden
// inputs, form-level errors and one fieldset per group holding the control
// markup, labels and field errors. Templates run on pongo2 and can be
// replaced from a directory or through a theme.
package layout

import (
	"context"
	"io/fs"
	"slices"
	"sort"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-forms/pkg/control"
	"github.com/goliatone/go-forms/pkg/form"
	"github.com/goliatone/go-forms/pkg/logging"
	"github.com/goliatone/go-forms/pkg/render"
	rendertemplate "github.com/goliatone/go-forms/pkg/render/template"
	"github.com/goliatone/go-forms/pkg/render/template/pongo"
	"github.com/goliatone/go-forms/pkg/validation"
)

// Name is the registry name of the renderer.
const Name = "layout"

const (
	defaultTemplate    = "form"
	defaultSubmitLabel = "Submit"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templatesDir     string
	templateRenderer rendertemplate.TemplateRenderer
	logger           logging.Logger
	submitLabel      string
	labelPolicy      *bluemonday.Policy
}

// WithTemplatesFS replaces the embedded template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir searches a directory before the embedded bundle.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templatesDir = strings.TrimSpace(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

func WithLogger(logger logging.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithSubmitLabel sets the submit button text. A theme submit.label token
// takes precedence.
func WithSubmitLabel(label string) Option {
	return func(cfg *config) {
		if label = strings.TrimSpace(label); label != "" {
			cfg.submitLabel = label
		}
	}
}

// WithLabelPolicy replaces the sanitizer applied to labels and legends.
func WithLabelPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.labelPolicy = policy
		}
	}
}

// DefaultLabelPolicy allows light inline markup in labels.
func DefaultLabelPolicy() *bluemonday.Policy {
	policy := bluemonday.NewPolicy()
	policy.AllowElements("b", "strong", "i", "em", "small", "span", "abbr")
	policy.AllowAttrs("class").OnElements("span", "i")
	policy.AllowAttrs("title").OnElements("abbr")
	return policy
}

// Renderer is the HTML form renderer.
type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	logger      logging.Logger
	submitLabel string
	labels      *bluemonday.Policy
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:  TemplatesFS(),
		logger:      logging.Nop(),
		submitLabel: defaultSubmitLabel,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.labelPolicy == nil {
		cfg.labelPolicy = DefaultLabelPolicy()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engineOpts := []pongo.Option{pongo.WithName("forms-layout"), pongo.WithFS(cfg.templateFS)}
		if cfg.templatesDir != "" {
			engineOpts = append(engineOpts, pongo.WithBaseDir(cfg.templatesDir))
		}
		engine, err := pongo.New(engineOpts...)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryOperation, "failed to configure layout templates").
				WithTextCode("LAYOUT_TEMPLATES_FAILED")
		}
		renderer = engine
	}

	return &Renderer{
		templates:   renderer,
		logger:      cfg.logger,
		submitLabel: cfg.submitLabel,
		labels:      cfg.labelPolicy,
	}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render writes the form using the values, errors and theme in opts.
func (r *Renderer) Render(ctx context.Context, f *form.Form, opts render.RenderOptions) ([]byte, error) {
	if f == nil {
		return nil, errors.New("form is required", errors.CategoryBadInput).
			WithTextCode("LAYOUT_FORM_REQUIRED")
	}

	view, err := r.view(ctx, f, opts)
	if err != nil {
		return nil, err
	}

	name := defaultTemplate
	if override := opts.Theme.Template(TemplateKey); override != "" {
		name = override
	}

	out, err := r.templates.RenderTemplate(name, view)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to render form layout").
			WithTextCode("LAYOUT_RENDER_FAILED").
			WithMetadata(map[string]any{"form": f.Name(), "template": name})
	}
	r.logger.Debug("rendered form %q with template %s", f.Name(), name)
	return []byte(out), nil
}

func (r *Renderer) view(ctx context.Context, f *form.Form, opts render.RenderOptions) (map[string]any, error) {
	method, _ := opts.ResolveMethod(f)

	hidden := make([]any, 0)
	for _, field := range opts.HiddenFields(f) {
		hidden = append(hidden, map[string]any{"name": field.Name, "value": field.Value})
	}
	formErrors := make([]any, 0)
	for _, message := range render.MergeFormErrors(opts.FormErrors) {
		formErrors = append(formErrors, message)
	}

	sections := make([]any, 0)
	for _, section := range render.ApplySubset(f.Sections(), opts.Subset) {
		if len(section.Controls) == 0 {
			continue
		}
		controls := make([]any, 0, len(section.Controls))
		for _, ctrl := range section.Controls {
			field, err := r.field(ctx, ctrl, opts)
			if err != nil {
				return nil, err
			}
			controls = append(controls, field)
		}
		sections = append(sections, map[string]any{
			"name":     section.Group.Name,
			"label":    r.labels.Sanitize(opts.GroupLabel(section.Group)),
			"controls": controls,
		})
	}

	submit := opts.Translate("actions.submit", opts.Theme.Token(TokenSubmitLabel, r.submitLabel))

	view := map[string]any{
		"form": map[string]any{
			"name":    f.Name(),
			"action":  f.Action(),
			"method":  method,
			"enctype": string(f.EncType()),
		},
		"hidden":       hidden,
		"form_errors":  formErrors,
		"sections":     sections,
		"classes":      chromeClasses(opts.Theme),
		"submit_label": submit,
		"style":        inlineStyle(opts.Theme),
		"stylesheet":   opts.Theme.AssetURL("stylesheet"),
		"locale":       opts.Locale,
	}
	for name, fn := range opts.TemplateFuncs() {
		view[name] = fn
	}
	return view, nil
}

func (r *Renderer) field(ctx context.Context, ctrl control.Control, opts render.RenderOptions) (map[string]any, error) {
	html, err := control.RenderString(ctx, ctrl.Render(opts.ValueFor(ctrl)))
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to render control").
			WithTextCode("CONTROL_RENDER_FAILED").
			WithMetadata(map[string]any{"control": ctrl.Name(), "variant": ctrl.Variant()})
	}

	messages := make([]any, 0)
	for _, message := range opts.FieldErrors(ctrl) {
		messages = append(messages, message)
	}

	return map[string]any{
		"name":     ctrl.Name(),
		"variant":  ctrl.Variant(),
		"id":       ctrl.Attributes()["id"],
		"label":    r.labels.Sanitize(opts.ControlLabel(ctrl)),
		"required": isRequired(ctrl.Rule()),
		"html":     html,
		"errors":   messages,
	}, nil
}

func isRequired(rule any) bool {
	return slices.Contains(validation.SplitRules(rule), "required")
}

// inlineStyle renders theme CSS variables as a style attribute value.
func inlineStyle(theme *render.ThemeConfig) string {
	if theme == nil || len(theme.CSSVars) == 0 {
		return ""
	}
	names := make([]string, 0, len(theme.CSSVars))
	for name := range theme.CSSVars {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+theme.CSSVars[name])
	}
	return strings.Join(parts, "; ")
}
