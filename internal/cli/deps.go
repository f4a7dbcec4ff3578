// Package cli provides the Cobra command tree and dependency injection
// wiring for the webgme-setup CLI. This file defines the Dependencies
// struct (Composition Root) that wires all domain modules together.
package cli

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/webgme/webgme-setup-tool/internal/config"
	"github.com/webgme/webgme-setup-tool/internal/core/project"
	"github.com/webgme/webgme-setup-tool/internal/lifecycle"
	"github.com/webgme/webgme-setup-tool/internal/manifest"
	"github.com/webgme/webgme-setup-tool/internal/template"
	"github.com/webgme/webgme-setup-tool/internal/ui"
	"github.com/webgme/webgme-setup-tool/internal/webgmeconfig"
)

// GlobalOptions are the persistent flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	NoColor    bool
	Verbose    bool
}

// Dependencies holds all domain-level services used by CLI commands.
// This is the Composition Root: the only place where concrete types are
// instantiated and wired together.
type Dependencies struct {
	Config      *config.Config
	Theme       *ui.Theme
	Out         ui.Logger
	Logger      *slog.Logger
	Terminal    *ui.Terminal
	Progress    ui.Progress
	Confirmer   ui.Confirmer
	Initializer project.Initializer

	// Executor launches the package manager; nil means lifecycle.ExecExecutor.
	Executor lifecycle.Executor

	// Stdout and Stderr are where the started app's output goes.
	Stdout io.Writer
	Stderr io.Writer
}

// deps is the global dependencies instance, initialized by InitDependencies.
var deps *Dependencies

// InitDependencies loads the tool configuration and wires every service.
func InitDependencies(opts GlobalOptions) error {
	logger := newLogger(opts.Verbose)

	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.NewLoader(logger).Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	noColor := opts.NoColor || cfg.NoColor || !ui.IsTerminal(os.Stdout)
	theme := ui.NewTheme(noColor)
	out := ui.NewConsoleLogger(os.Stdout, os.Stderr, theme)
	term := ui.NewTerminal(os.Stdin)

	res, err := template.Resources()
	if err != nil {
		return fmt.Errorf("load bundled resources: %w", err)
	}

	d, err := NewDependencies(cfg, res, out, logger)
	if err != nil {
		return err
	}
	d.Theme = theme
	d.Terminal = term
	d.Progress = ui.NewProgress(theme, term, os.Stderr)
	d.Confirmer = ui.NewConfirmer(theme, term, true)
	deps = d
	return nil
}

// NewDependencies wires the domain services for cfg. UI-only services
// (progress, prompts) are left nil and are optional for every command.
func NewDependencies(cfg *config.Config, res fs.FS, out ui.Logger, logger *slog.Logger) (*Dependencies, error) {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	merger := manifest.NewMerger(template.NewRenderer(res), cfg.WebGMEVersion, out, logger)
	updater := webgmeconfig.NewUpdater(out, logger)

	return &Dependencies{
		Config:      cfg,
		Out:         out,
		Logger:      logger,
		Initializer: project.NewInitializer(res, merger, updater, out, logger),
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
	}, nil
}

// SetDeps replaces the global dependencies (used for testing).
func SetDeps(d *Dependencies) {
	deps = d
}

// NewRunner creates a lifecycle runner for the project in dir.
func (d *Dependencies) NewRunner(dir string, legacyOutputCheck bool) *lifecycle.Runner {
	return lifecycle.NewRunner(lifecycle.Options{
		PackageManager:    d.Config.PackageManager,
		Dir:               dir,
		LegacyOutputCheck: legacyOutputCheck,
		Stdout:            d.Stdout,
		Stderr:            d.Stderr,
		Executor:          d.Executor,
		Progress:          d.Progress,
	}, d.Out, d.Logger)
}

// newLogger returns a discarding logger, or a debug-level stderr logger
// when verbose is set.
func newLogger(verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
