// Package tui fills a form interactively on the terminal. Each control
// becomes a survey prompt: selects pick from their items, passwords hide
// input, checkboxes become yes/no questions. Answers are validated with the
// control's rules as they are given and the reconciled values are returned
// serialized as JSON, form encoding or plain text.
package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-forms/pkg/control"
	"github.com/goliatone/go-forms/pkg/form"
	"github.com/goliatone/go-forms/pkg/logging"
	"github.com/goliatone/go-forms/pkg/render"
	"github.com/goliatone/go-forms/pkg/validation"
)

const defaultMaxAttempts = 3

// Renderer implements render.Renderer for terminal sessions.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	validator         *validation.Validator
	maxAttempts       int
	logger            logging.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) *Renderer {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		validator:    validation.Default(),
		maxAttempts:  defaultMaxAttempts,
		logger:       logging.Nop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render prompts for every control and serializes the collected values.
func (r *Renderer) Render(ctx context.Context, f *form.Form, opts render.RenderOptions) ([]byte, error) {
	values, err := r.Collect(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	return r.serialize(f, values, opts)
}

// Collect prompts for every control in group order and returns the
// reconciled values. A control that keeps failing validation ends the
// session with the *validation.Errors of that control.
func (r *Renderer) Collect(ctx context.Context, f *form.Form, opts render.RenderOptions) (map[string]any, error) {
	if f == nil {
		return nil, errors.New("form is required", errors.CategoryBadInput).
			WithTextCode("TUI_FORM_REQUIRED")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, message := range render.MergeFormErrors(opts.FormErrors) {
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+message); err != nil {
			return nil, err
		}
	}

	submitted := make(map[string]any)
	for _, section := range render.ApplySubset(f.Sections(), opts.Subset) {
		if len(section.Controls) == 0 {
			continue
		}
		if label := opts.GroupLabel(section.Group); label != "" {
			if err := r.driver.Info(ctx, r.theme.InfoPrefix+label); err != nil {
				return nil, err
			}
		}
		for _, ctrl := range section.Controls {
			value, err := r.promptUntilValid(ctx, f, ctrl, submitted, opts)
			if err != nil {
				return nil, err
			}
			submitted[ctrl.Name()] = value
		}
	}

	values := f.Values(submitted, opts.Values)
	if r.submitTransformer != nil {
		transformed, err := r.submitTransformer(values)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryOperation, "submit transformer failed").
				WithTextCode("TUI_TRANSFORM_FAILED")
		}
		values = transformed
	}
	r.logger.Debug("collected %d values for form %q", len(submitted), f.Name())
	return values, nil
}

func (r *Renderer) promptUntilValid(ctx context.Context, f *form.Form, ctrl control.Control, submitted map[string]any, opts render.RenderOptions) (any, error) {
	for _, message := range opts.FieldErrors(ctrl) {
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+message); err != nil {
			return nil, err
		}
	}

	var lastErrs *validation.Errors
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		value, err := r.prompt(ctx, ctrl, opts)
		if err != nil {
			return nil, err
		}
		errs, err := r.check(f, ctrl, value, submitted, opts)
		if err != nil {
			return nil, err
		}
		if !errs.Has() {
			return value, nil
		}
		lastErrs = errs
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+errs.First(ctrl.Name())); err != nil {
			return nil, err
		}
	}
	return nil, lastErrs
}

// check validates one answer against the control rule. Other answers given so
// far are visible to rules such as same or confirmed.
func (r *Renderer) check(f *form.Form, ctrl control.Control, value any, submitted map[string]any, opts render.RenderOptions) (*validation.Errors, error) {
	if control.IsEmptyRule(ctrl.Rule()) {
		return &validation.Errors{}, nil
	}
	data := make(map[string]any, len(opts.Values)+len(submitted)+1)
	for key, v := range opts.Values {
		data[key] = v
	}
	for key, v := range submitted {
		data[key] = v
	}
	previous, ok := opts.Values[ctrl.Name()]
	if !ok {
		previous = ""
	}
	data[ctrl.Name()] = ctrl.Reconcile(value, previous)

	return r.validator.Validate(validation.Request{
		Data:       data,
		Rules:      map[string]any{ctrl.Name(): ctrl.Rule()},
		Messages:   f.ValidationMessages(),
		Attributes: f.ValidationAttributes(),
	})
}

func (r *Renderer) prompt(ctx context.Context, ctrl control.Control, opts render.RenderOptions) (any, error) {
	message := r.theme.PromptPrefix + displayLabel(ctrl, opts)
	help := displayHelp(ctrl)
	current := opts.ValueFor(ctrl)

	target := ctrl
	if group, ok := ctrl.(*control.InputGroup); ok && group.Inner() != nil {
		target = group.Inner()
	}

	switch c := target.(type) {
	case control.Chooser:
		return r.promptSelect(ctx, c, message, help, current)
	case *control.Password:
		return r.driver.Password(ctx, InputConfig{Message: message, Help: help})
	case *control.Input:
		if c.Type() == control.TypeCheckbox {
			return r.driver.Confirm(ctx, ConfirmConfig{Message: message, Help: help, Default: truthy(current)})
		}
	}
	return r.driver.Input(ctx, InputConfig{Message: message, Help: help, Default: stringify(current)})
}

func (r *Renderer) promptSelect(ctx context.Context, s control.Chooser, message, help string, current any) (any, error) {
	items := s.Items()
	if len(items) == 0 {
		return nil, ErrNoOptions
	}
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Label
	}

	if s.Multiple() {
		selected := make(map[string]bool)
		for _, v := range toSlice(current) {
			selected[stringify(v)] = true
		}
		var defaults []int
		for i, item := range items {
			if selected[item.Value] {
				defaults = append(defaults, i)
			}
		}
		indices, err := r.driver.MultiSelect(ctx, SelectConfig{Message: message, Help: help, Options: labels, Defaults: defaults})
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(items) {
				out = append(out, items[idx].Value)
			}
		}
		return out, nil
	}

	defaultIndex := -1
	for i, item := range items {
		if item.Value == stringify(current) {
			defaultIndex = i
			break
		}
	}
	idx, err := r.driver.Select(ctx, SelectConfig{Message: message, Help: help, Options: labels, DefaultIndex: defaultIndex})
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(items) {
		return "", nil
	}
	return items[idx].Value, nil
}

func (r *Renderer) serialize(f *form.Form, values map[string]any, opts render.RenderOptions) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		form := url.Values{}
		for name, value := range values {
			for _, v := range toSlice(value) {
				form.Add(name, stringify(v))
			}
		}
		return []byte(form.Encode()), nil
	case OutputFormatPrettyText:
		var b strings.Builder
		for _, ctrl := range f.Controls() {
			value, ok := values[ctrl.Name()]
			if !ok {
				continue
			}
			if ctrl.Variant() == control.VariantPassword {
				value = "********"
			}
			fmt.Fprintf(&b, "%s: %s\n", displayLabel(ctrl, opts), prettyValue(value))
		}
		return []byte(b.String()), nil
	default:
		out, err := json.Marshal(values)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryOperation, "failed to encode values").
				WithTextCode("TUI_ENCODE_FAILED")
		}
		return out, nil
	}
}

func displayLabel(ctrl control.Control, opts render.RenderOptions) string {
	if label := opts.ControlLabel(ctrl); label != "" {
		return label
	}
	return ctrl.Name()
}

func displayHelp(ctrl control.Control) string {
	if raw, ok := ctrl.Option("help"); ok {
		if help, ok := raw.(string); ok {
			return help
		}
	}
	return ""
}

func prettyValue(value any) string {
	if list, ok := value.([]any); ok {
		parts := make([]string, len(list))
		for i, v := range list {
			parts[i] = stringify(v)
		}
		return strings.Join(parts, ", ")
	}
	return stringify(value)
}

func toSlice(value any) []any {
	switch v := value.(type) {
	case nil:
		return nil
	case []any:
		return v
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	default:
		return []any{v}
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprint(v)
	}
}

func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case nil:
		return false
	default:
		switch strings.ToLower(stringify(v)) {
		case "", "0", "false", "no", "off":
			return false
		}
		return true
	}
}
