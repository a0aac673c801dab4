// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/flamekit/flamekit/internal/config"
	"github.com/flamekit/flamekit/internal/issue"
	"github.com/flamekit/flamekit/internal/logging"
	"github.com/flamekit/flamekit/pkg/flame"
	"github.com/flamekit/flamekit/pkg/flamestore"
	"github.com/flamekit/flamekit/pkg/flamexml"
)

// stdinPath selects standard input in place of a file argument.
const stdinPath = "-"

type (
	// App wires CLI services and shared state. Command constructors receive it and read
	// configuration, the logger, and the output writers through it.
	App struct {
		Config ConfigProvider
		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer

		// set from persistent flags
		configPath string
		verbose    bool

		cfg    *config.Config
		logger *slog.Logger
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	return &App{
		Config: deps.Config,
		stdin:  deps.Stdin,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
}

// init loads configuration and builds the logger. It runs once per invocation, before any
// subcommand.
func (a *App) init(ctx context.Context) error {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.configPath})
	if err != nil {
		return err
	}
	a.cfg = cfg
	if cfg.UI.Verbose {
		a.verbose = true
	}
	a.logger = logging.New(a.stderr, a.verbose)
	return nil
}

// settings returns the loaded configuration, or the defaults when init has not run.
func (a *App) settings() *config.Config {
	if a.cfg == nil {
		return config.DefaultConfig()
	}
	return a.cfg
}

// log returns the diagnostics logger.
func (a *App) log() *slog.Logger {
	if a.logger == nil {
		a.logger = logging.New(a.stderr, a.verbose)
	}
	return a.logger
}

// storeOptions returns flamestore options from the configuration.
func (a *App) storeOptions() flamestore.Options {
	return a.settings().StoreOptions(a.log())
}

// load reads a flame file, or standard input when path is "-", wrapping failures as
// actionable errors.
func (a *App) load(path string) (*flamexml.Result, error) {
	return a.loadWith(path, a.storeOptions())
}

// read returns the content of path, or all of standard input when path is "-".
func (a *App) read(path string) ([]byte, error) {
	if path == stdinPath {
		return io.ReadAll(a.stdin)
	}
	return os.ReadFile(path)
}

func (a *App) loadWith(path string, opts flamestore.Options) (*flamexml.Result, error) {
	if path == stdinPath {
		data, err := a.read(path)
		if err != nil {
			return nil, fileError("read standard input", path, err)
		}
		res, err := flamestore.LoadText(string(data), opts)
		if err != nil {
			return nil, fileError("load flame text", path, err)
		}
		return res, nil
	}
	res, err := flamestore.Load(path, opts)
	if err != nil {
		return nil, fileError("load flame file", path, err)
	}
	return res, nil
}

// save writes doc to path, wrapping failures as actionable errors.
func (a *App) save(path string, doc *flame.Document, opts flamestore.Options) error {
	if err := flamestore.Save(path, doc, opts); err != nil {
		return fileError("save flame file", path, err)
	}
	return nil
}

// glamourStyle picks the markdown style for out from the configured color scheme.
func (a *App) glamourStyle(out io.Writer) string {
	f, ok := out.(*os.File)
	tty := ok && term.IsTerminal(int(f.Fd()))
	return a.settings().UI.ColorScheme.GlamourStyle(tty)
}

// fileError attaches a suggestion that fits the failure.
func fileError(op, path string, err error) error {
	ctx := issue.NewErrorContext().WithOperation(op).WithResource(path).Wrap(err)
	var dup *flamexml.IncompatibleError
	switch {
	case errors.As(err, &dup):
		for _, target := range dup.Targets() {
			ctx.WithSuggestion("Remove the repeated variation from " + target)
		}
		for _, c := range dup.Conflicts {
			ctx.WithSuggestion(fmt.Sprintf("Fix %s of %s: %s", c.Target, c.Preset, c.Reason))
		}
	case errors.Is(err, flamexml.ErrInvalidDocument), errors.Is(err, flamexml.ErrUnsupportedFormat):
		ctx.WithSuggestion(fmt.Sprintf("Run 'flamekit validate %s --explain' for details", path))
	case errors.Is(err, os.ErrNotExist):
		ctx.WithSuggestion("Check the file path")
	}
	return ctx.BuildError()
}

// formatError renders err for the terminal, with suggestions for actionable errors.
func formatError(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
