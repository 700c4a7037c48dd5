// Command formctl renders, fills, serves and converts form definitions.
//
//	formctl render [flags] <form>
//	formctl fill [flags] <form>
//	formctl serve [flags]
//	formctl import-openapi [flags] <source>
//	formctl convert <in> <out>
//
// serve also answers timezone searches under /api/timezones.
//
// Every subcommand accepts the configuration flags (--forms.dir,
// --log.level, ...) plus --config and --env-file.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/goliatone/go-errors"
	"github.com/spf13/pflag"

	"github.com/goliatone/go-forms/components/timezones"
	"github.com/goliatone/go-forms/pkg/config"
	"github.com/goliatone/go-forms/pkg/control"
	"github.com/goliatone/go-forms/pkg/definition"
	"github.com/goliatone/go-forms/pkg/form"
	"github.com/goliatone/go-forms/pkg/logging"
	"github.com/goliatone/go-forms/pkg/render"
	"github.com/goliatone/go-forms/pkg/renderers/tui"
)

type command struct {
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"render":         {"render a form as HTML or JSON", runRender},
	"fill":           {"fill a form on the terminal", runFill},
	"serve":          {"serve the forms over HTTP", runServe},
	"import-openapi": {"build a form definition from an OpenAPI operation", runImportOpenAPI},
	"convert":        {"convert a definition between json, yaml and msgpack", runConvert},
}

// app carries the process wiring so tests can swap the streams and the
// terminal driver.
type app struct {
	stdout io.Writer
	stderr io.Writer
	driver tui.PromptDriver

	cfg    config.Config
	logger logging.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{stdout: os.Stdout, stderr: os.Stderr}
	if err := a.run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "formctl: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		a.usage()
		return nil
	}
	cmd, ok := commands[args[0]]
	if !ok {
		a.usage()
		return errors.New("unknown command "+args[0], errors.CategoryBadInput).
			WithTextCode("CLI_UNKNOWN_COMMAND")
	}
	return cmd.run(ctx, a, args[1:])
}

func (a *app) usage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(a.stdout, "usage: formctl <command> [flags]")
	fmt.Fprintln(a.stdout)
	for _, name := range names {
		fmt.Fprintf(a.stdout, "  %-16s %s\n", name, commands[name].summary)
	}
}

// flagSet returns a flag set with the configuration flags registered.
func (a *app) flagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(a.stderr)
	config.RegisterFlags(fs)
	fs.String("config", "", "configuration file (json, yaml or toml)")
	fs.StringSlice("env-file", []string{".env"}, "dotenv files to read")
	return fs
}

// setup parses args, loads the configuration and builds the logger.
func (a *app) setup(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	configPath, _ := fs.GetString("config")
	envFiles, _ := fs.GetStringSlice("env-file")

	cfg, err := config.Load(
		config.WithFile(configPath),
		config.WithEnvFiles(envFiles...),
		config.WithFlags(fs),
	)
	if err != nil {
		return err
	}
	a.cfg = cfg

	opts := []logging.Option{logging.WithLevel(cfg.Log.Level), logging.WithOutput(a.stderr)}
	if cfg.Log.JSON {
		opts = append(opts, logging.WithJSON())
	}
	a.logger = logging.New("formctl", opts...)

	// definitions may use the timezone select
	return timezones.Register(control.DefaultRegistry())
}

func (a *app) loadForms() (map[string]*form.Form, error) {
	forms, err := definition.LoadDir(a.cfg.Forms.Dir, form.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	a.logger.Debug("loaded %d forms from %s", len(forms), a.cfg.Forms.Dir)
	return forms, nil
}

func (a *app) loadForm(name string) (*form.Form, error) {
	forms, err := a.loadForms()
	if err != nil {
		return nil, err
	}
	f, ok := forms[name]
	if !ok {
		return nil, errors.New("form not found", errors.CategoryBadInput).
			WithTextCode("CLI_FORM_NOT_FOUND").
			WithMetadata(map[string]any{"form": name, "dir": a.cfg.Forms.Dir})
	}
	return f, nil
}

// theme resolves the configured theme. No theme name means no theme.
func (a *app) theme() (*render.ThemeConfig, error) {
	if strings.TrimSpace(a.cfg.Forms.Theme) == "" {
		return nil, nil
	}
	set, err := builtinThemes()
	if err != nil {
		return nil, err
	}
	selection, err := set.Select(a.cfg.Forms.Theme, a.cfg.Forms.Variant)
	if err != nil {
		return nil, err
	}
	return render.ThemeFromSelection(selection), nil
}

func (a *app) output(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return a.stdout, func() error { return nil }, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.CategoryOperation, "failed to create output file").
			WithTextCode("CLI_OUTPUT_FAILED").
			WithMetadata(map[string]any{"filepath": path})
	}
	return file, file.Close, nil
}

func requireArg(fs *pflag.FlagSet, what string) (string, error) {
	if fs.NArg() != 1 {
		return "", errors.New("expected exactly one "+what, errors.CategoryBadInput).
			WithTextCode("CLI_ARGUMENT_REQUIRED")
	}
	return fs.Arg(0), nil
}
