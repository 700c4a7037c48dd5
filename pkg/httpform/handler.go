// Package httpform serves forms over HTTP with chi. GET renders a form with
// the stored values of a record, POST reconciles the submission against
// them, validates and either re-renders with the messages (422) or saves and
// redirects (303). Clients asking for JSON get the JSON renderer instead of
// HTML.
package httpform

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-forms/pkg/form"
	"github.com/goliatone/go-forms/pkg/logging"
	"github.com/goliatone/go-forms/pkg/render"
	"github.com/goliatone/go-forms/pkg/validation"
)

// Catalog resolves forms by name.
type Catalog interface {
	Form(name string) (*form.Form, bool)
	Names() []string
}

// Forms is a Catalog over a plain map.
type Forms map[string]*form.Form

func (f Forms) Form(name string) (*form.Form, bool) {
	found, ok := f[name]
	return found, ok && found != nil
}

func (f Forms) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// RequestOptions builds per-request render options, for example to add a
// CSRF token or pick a locale. The handler fills Values and Errors itself.
type RequestOptions func(r *http.Request, f *form.Form) render.RenderOptions

// Handler serves the forms of a Catalog.
type Handler struct {
	catalog   Catalog
	renderers *render.Registry
	store     Store
	validator *validation.Validator
	logger    logging.Logger
	theme     *render.ThemeConfig
	options   RequestOptions
}

// Option configures a Handler.
type Option func(*Handler)

// WithStore replaces the default in-memory store.
func WithStore(store Store) Option {
	return func(h *Handler) {
		if store != nil {
			h.store = store
		}
	}
}

// WithValidator replaces the default validator.
func WithValidator(v *validation.Validator) Option {
	return func(h *Handler) {
		if v != nil {
			h.validator = v
		}
	}
}

func WithLogger(logger logging.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithTheme applies a theme to every rendered form.
func WithTheme(theme *render.ThemeConfig) Option {
	return func(h *Handler) {
		h.theme = theme
	}
}

// WithRequestOptions sets the per-request render options hook.
func WithRequestOptions(fn RequestOptions) Option {
	return func(h *Handler) {
		h.options = fn
	}
}

// New builds a handler. The registry's default renderer serves HTML
// requests.
func New(catalog Catalog, renderers *render.Registry, opts ...Option) (*Handler, error) {
	if catalog == nil {
		return nil, errors.New("form catalog is required", errors.CategoryValidation).
			WithTextCode("HTTPFORM_CATALOG_REQUIRED")
	}
	if renderers == nil || len(renderers.List()) == 0 {
		return nil, errors.New("at least one renderer is required", errors.CategoryValidation).
			WithTextCode("HTTPFORM_RENDERER_REQUIRED")
	}
	h := &Handler{
		catalog:   catalog,
		renderers: renderers,
		store:     NewMemoryStore(),
		validator: validation.Default(),
		logger:    logging.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h, nil
}

// Routes returns a router exposing:
//
//	GET  /                  form names
//	GET  /{form}            blank form
//	POST /{form}            new record
//	GET  /{form}/{record}   form with stored values
//	POST /{form}/{record}   update record (PUT and PATCH too)
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(MethodOverride)
	r.Use(h.logRequests)

	r.Get("/", h.list)
	r.Route("/{form}", func(r chi.Router) {
		r.Get("/", h.show)
		r.Post("/", h.submit)
		r.Get("/{record}", h.show)
		r.Post("/{record}", h.submit)
		r.Put("/{record}", h.submit)
		r.Patch("/{record}", h.submit)
	})
	return r
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Debug("%s %s -> %d", r.Method, r.URL.Path, ww.Status())
	})
}

// MethodOverride turns a POST carrying a _method field into that method so
// forms can target PUT and PATCH routes.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && !isJSON(r.Header.Get("Content-Type")) {
			switch override := strings.ToUpper(r.PostFormValue(render.MethodFieldName)); override {
			case http.MethodPut, http.MethodPatch, http.MethodDelete:
				r.Method = override
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) list(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"forms": h.catalog.Names()})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	f, ok := h.form(w, r)
	if !ok {
		return
	}
	record := chi.URLParam(r, "record")

	values, err := h.store.Load(r.Context(), f.Name(), record)
	if err != nil {
		h.fail(w, http.StatusInternalServerError, err)
		return
	}
	opts := h.renderOptions(r, f, record)
	opts.Values = values
	h.respond(w, r, f, opts, http.StatusOK)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	f, ok := h.form(w, r)
	if !ok {
		return
	}
	record := chi.URLParam(r, "record")

	previous, err := h.store.Load(r.Context(), f.Name(), record)
	if err != nil {
		h.fail(w, http.StatusInternalServerError, err)
		return
	}
	submitted, err := Submitted(r, f)
	if err != nil {
		h.fail(w, http.StatusBadRequest, err)
		return
	}
	values := f.Values(submitted, previous)

	errs, err := h.validator.Validate(validation.Request{
		Data:       values,
		Rules:      f.ValidationRules(),
		Messages:   f.ValidationMessages(),
		Attributes: f.ValidationAttributes(),
	})
	if err != nil {
		h.fail(w, http.StatusInternalServerError, errors.Wrap(err, errors.CategoryOperation, "validation failed to run").
			WithTextCode("HTTPFORM_VALIDATION_FAILED"))
		return
	}
	if errs.Has() {
		mapping := render.MapErrorPayload(f, errs.Bag)
		opts := h.renderOptions(r, f, record)
		opts.Values = values
		opts.Errors = mapping.Fields
		opts.FormErrors = render.MergeFormErrors(opts.FormErrors, mapping.Form...)
		h.logger.Info("form %q rejected: %v", f.Name(), errs)
		h.respond(w, r, f, opts, http.StatusUnprocessableEntity)
		return
	}

	saved, err := h.store.Save(r.Context(), f.Name(), record, values)
	if err != nil {
		h.fail(w, http.StatusInternalServerError, err)
		return
	}
	h.logger.Info("form %q saved record %q", f.Name(), saved)

	if wantsJSON(r) {
		status := http.StatusOK
		if record == "" {
			status = http.StatusCreated
		}
		writeJSON(w, status, map[string]any{"record": saved, "values": redact(f, values)})
		return
	}
	http.Redirect(w, r, recordURL(r, record, saved), http.StatusSeeOther)
}

func (h *Handler) form(w http.ResponseWriter, r *http.Request) (*form.Form, bool) {
	name := chi.URLParam(r, "form")
	f, ok := h.catalog.Form(name)
	if !ok {
		h.fail(w, http.StatusNotFound, errors.New("form not found", errors.CategoryBadInput).
			WithTextCode("HTTPFORM_FORM_NOT_FOUND").
			WithMetadata(map[string]any{"form": name}))
		return nil, false
	}
	return f, true
}

func (h *Handler) renderOptions(r *http.Request, f *form.Form, record string) render.RenderOptions {
	var opts render.RenderOptions
	if h.options != nil {
		opts = h.options(r, f)
	}
	if opts.Theme == nil {
		opts.Theme = h.theme
	}
	if opts.Method == "" && record != "" {
		opts.Method = http.MethodPut
	}
	return opts
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, f *form.Form, opts render.RenderOptions, status int) {
	renderer, err := h.pickRenderer(r)
	if err != nil {
		h.fail(w, http.StatusNotAcceptable, err)
		return
	}
	out, err := renderer.Render(r.Context(), f, opts)
	if err != nil {
		h.fail(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(status)
	if _, err := w.Write(out); err != nil {
		h.logger.Error("write response: %v", err)
	}
}

// pickRenderer honours ?renderer= first, then a JSON Accept header.
func (h *Handler) pickRenderer(r *http.Request) (render.Renderer, error) {
	if name := strings.TrimSpace(r.URL.Query().Get("renderer")); name != "" {
		return h.renderers.Get(name)
	}
	if wantsJSON(r) {
		if renderer, ok := h.renderers.ForContentType("application/json"); ok {
			return renderer, nil
		}
	}
	return h.renderers.Get("")
}

func (h *Handler) fail(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed: %v", err)
	} else {
		h.logger.Debug("request rejected: %v", err)
	}
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func wantsJSON(r *http.Request) bool {
	accept := strings.ToLower(r.Header.Get("Accept"))
	return strings.Contains(accept, "application/json") || isJSON(r.Header.Get("Content-Type"))
}

// redact blanks password values before they leave the server.
func redact(f *form.Form, values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for key, value := range values {
		out[key] = value
	}
	for _, ctrl := range f.Controls() {
		if _, ok := out[ctrl.Name()]; ok && isPassword(ctrl) {
			out[ctrl.Name()] = ""
		}
	}
	return out
}

func recordURL(r *http.Request, record, saved string) string {
	path := strings.TrimSuffix(r.URL.Path, "/")
	if record == "" {
		return path + "/" + saved
	}
	return path
}
