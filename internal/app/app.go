package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/agbru/sircompare/internal/cli"
	"github.com/agbru/sircompare/internal/config"
	"github.com/agbru/sircompare/internal/epidemic"
	apperrors "github.com/agbru/sircompare/internal/errors"
	"github.com/agbru/sircompare/internal/logging"
	"github.com/agbru/sircompare/internal/orchestration"
	"github.com/agbru/sircompare/internal/ui"
)

// Application represents the sircompare application instance.
type Application struct {
	Config    config.AppConfig
	Simulate  orchestration.SimulateFunc
	Logger    logging.Logger
	ErrWriter io.Writer
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithSimulator replaces the integrator used for every scenario.
func WithSimulator(f orchestration.SimulateFunc) AppOption {
	return func(a *Application) { a.Simulate = f }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.Logger = l }
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	programName := "sircompare"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}

	app := &Application{Config: cfg, ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.Simulate == nil {
		app.Simulate = epidemic.Simulate
	}
	if app.Logger == nil {
		app.Logger = logging.NewConsoleLogger(errWriter, "sircompare", cfg.NoColor)
	}
	return app, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.ShowVersion {
		PrintVersion(out)
		return apperrors.ExitSuccess
	}
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	zerolog.SetGlobalLevel(logLevel(a.Config))
	ui.InitTheme(a.Config.NoColor)

	return a.runCompare(ctx, out)
}

func logLevel(cfg config.AppConfig) zerolog.Level {
	switch {
	case cfg.Verbose:
		return zerolog.DebugLevel
	case cfg.Quiet:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
