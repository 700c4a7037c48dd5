package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-forms/components/timezones"
	"github.com/goliatone/go-forms/pkg/definition"
	"github.com/goliatone/go-forms/pkg/form"
	"github.com/goliatone/go-forms/pkg/httpform"
	"github.com/goliatone/go-forms/pkg/openapi"
	"github.com/goliatone/go-forms/pkg/render"
	"github.com/goliatone/go-forms/pkg/renderers/jsondoc"
	"github.com/goliatone/go-forms/pkg/renderers/layout"
	"github.com/goliatone/go-forms/pkg/renderers/tui"
)

func (a *app) registry() (*render.Registry, error) {
	html, err := layout.New(
		layout.WithTemplatesDir(a.cfg.Render.TemplatesDir),
		layout.WithLogger(a.logger),
	)
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	if err := registry.Register(html); err != nil {
		return nil, err
	}
	if err := registry.Register(jsondoc.New("  ")); err != nil {
		return nil, err
	}
	return registry, nil
}

func readValues(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to read values file").
			WithTextCode("CLI_VALUES_READ_FAILED").
			WithMetadata(map[string]any{"filepath": path})
	}
	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "values file is not a JSON object").
			WithTextCode("CLI_VALUES_INVALID").
			WithMetadata(map[string]any{"filepath": path})
	}
	return values, nil
}

func runRender(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("render")
	rendererName := fs.String("renderer", "", "renderer name (layout or json)")
	valuesPath := fs.String("values", "", "JSON file with current values")
	method := fs.String("method", "", "submission method override (GET, POST, PUT, PATCH, DELETE)")
	locale := fs.String("locale", "", "locale passed to the renderer")
	groups := fs.StringSlice("group", nil, "render only these groups")
	fields := fs.StringSlice("field", nil, "render only these controls")
	outputPath := fs.StringP("output", "o", "", "output file (stdout if empty)")
	if err := a.setup(fs, args); err != nil {
		return err
	}
	name, err := requireArg(fs, "form name")
	if err != nil {
		return err
	}

	f, err := a.loadForm(name)
	if err != nil {
		return err
	}
	values, err := readValues(*valuesPath)
	if err != nil {
		return err
	}
	theme, err := a.theme()
	if err != nil {
		return err
	}
	registry, err := a.registry()
	if err != nil {
		return err
	}
	renderer, err := registry.Get(*rendererName)
	if err != nil {
		return err
	}

	out, err := renderer.Render(ctx, f, render.RenderOptions{
		Method: *method,
		Values: values,
		Theme:  theme,
		Locale: *locale,
		Subset: render.FieldSubset{Groups: *groups, Names: *fields},
	})
	if err != nil {
		return err
	}

	w, closeOutput, err := a.output(*outputPath)
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		_ = closeOutput()
		return err
	}
	return closeOutput()
}

func runFill(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("fill")
	format := fs.String("format", string(tui.OutputFormatJSON), "output format (json, form, pretty)")
	valuesPath := fs.String("values", "", "JSON file with current values")
	attempts := fs.Int("attempts", 3, "prompts per control before giving up")
	outputPath := fs.StringP("output", "o", "", "output file (stdout if empty)")
	if err := a.setup(fs, args); err != nil {
		return err
	}
	name, err := requireArg(fs, "form name")
	if err != nil {
		return err
	}

	f, err := a.loadForm(name)
	if err != nil {
		return err
	}
	values, err := readValues(*valuesPath)
	if err != nil {
		return err
	}

	opts := []tui.Option{
		tui.WithOutputFormat(tui.OutputFormat(*format)),
		tui.WithMaxAttempts(*attempts),
		tui.WithLogger(a.logger),
		tui.WithTheme(tui.Theme{PromptPrefix: "", InfoPrefix: "== ", ErrorPrefix: "!! "}),
	}
	if a.driver != nil {
		opts = append(opts, tui.WithPromptDriver(a.driver))
	} else {
		opts = append(opts, tui.WithPromptDriver(tui.NewSurveyDriver(a.stderr)))
	}
	out, err := tui.New(opts...).Render(ctx, f, render.RenderOptions{Values: values})
	if err != nil {
		return err
	}

	w, closeOutput, err := a.output(*outputPath)
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		_ = closeOutput()
		return err
	}
	return closeOutput()
}

func runServe(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("serve")
	grace := fs.Duration("grace", 5*time.Second, "shutdown grace period")
	if err := a.setup(fs, args); err != nil {
		return err
	}

	forms, err := a.loadForms()
	if err != nil {
		return err
	}
	theme, err := a.theme()
	if err != nil {
		return err
	}
	registry, err := a.registry()
	if err != nil {
		return err
	}
	handler, err := httpform.New(httpform.Forms(forms), registry,
		httpform.WithLogger(a.logger),
		httpform.WithTheme(theme),
	)
	if err != nil {
		return err
	}

	zones, err := timezones.NewHandler(timezones.WithEmptyQuery(timezones.EmptyQueryTop))
	if err != nil {
		return err
	}

	router := chi.NewRouter()
	router.Use(middleware.RealIP)
	router.Mount("/forms", handler.Routes())
	router.Mount("/api/timezones", zones.Routes())
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: a.cfg.Server.Addr, Handler: router}

	errChan := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()
	a.logger.Info("listening on %s with %d forms", a.cfg.Server.Addr, len(forms))

	select {
	case err := <-errChan:
		return errors.Wrap(err, errors.CategoryOperation, "http server failed").
			WithTextCode("CLI_SERVE_FAILED")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), *grace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("shutdown: %v", err)
		return err
	}
	return nil
}

func runImportOpenAPI(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("import-openapi")
	operationID := fs.String("operation", "", "operation ID to import (lists operations when empty)")
	formName := fs.String("name", "", "form name (defaults to the operation ID)")
	outputPath := fs.StringP("output", "o", "", "definition file; the extension picks the format (stdout JSON if empty)")
	if err := a.setup(fs, args); err != nil {
		return err
	}
	source, err := requireArg(fs, "OpenAPI source")
	if err != nil {
		return err
	}

	spec, err := loadOpenAPI(ctx, source)
	if err != nil {
		return err
	}

	if *operationID == "" {
		for _, op := range openapi.Operations(spec) {
			fmt.Fprintf(a.stdout, "%s\t%s %s\t%s\n", op.ID, op.Method, op.Path, op.Summary)
		}
		return nil
	}

	name := *formName
	if name == "" {
		name = *operationID
	}
	f, op, err := openapi.Import(spec, *operationID, form.WithName(name), form.WithLogger(a.logger))
	if err != nil {
		return err
	}
	a.logger.Info("imported %s %s as form %q with %d controls", op.Method, op.Path, f.Name(), f.Len())

	if *outputPath != "" {
		return definition.SaveFile(*outputPath, f)
	}
	data, err := definition.Encode(f, definition.FormatJSON)
	if err != nil {
		return err
	}
	_, err = a.stdout.Write(append(data, '\n'))
	return err
}

func loadOpenAPI(ctx context.Context, source string) (*openapi3.T, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return openapi.LoadURL(ctx, source)
	}
	return openapi.LoadFile(ctx, source)
}

func runConvert(_ context.Context, a *app, args []string) error {
	fs := a.flagSet("convert")
	if err := a.setup(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errors.New("expected an input and an output path", errors.CategoryBadInput).
			WithTextCode("CLI_ARGUMENT_REQUIRED")
	}
	in, out := fs.Arg(0), fs.Arg(1)

	f, err := definition.LoadFile(in, form.WithLogger(a.logger))
	if err != nil {
		return err
	}
	if err := definition.SaveFile(out, f); err != nil {
		return err
	}
	a.logger.Info("converted %s (%s) to %s (%s)", in, definition.FormatFromPath(in), out, definition.FormatFromPath(out))
	return nil
}
