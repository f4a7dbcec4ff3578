package lifecycle

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/webgme/webgme-setup-tool/internal/defs"
	"github.com/webgme/webgme-setup-tool/internal/ui"
)

// Options configures a Runner.
type Options struct {
	PackageManager string // Binary name; defaults to defs.DefaultPackageManager.
	Dir            string // Project directory; defaults to the working directory.

	// Stdout and Stderr receive the started app's output; default os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer

	// LegacyOutputCheck treats any install output as failure, regardless
	// of exit code.
	LegacyOutputCheck bool

	Executor Executor    // Defaults to ExecExecutor.
	Progress ui.Progress // Optional spinner shown during install.
}

// Runner installs dependencies and starts the application.
type Runner struct {
	opts   Options
	out    ui.Logger
	logger *slog.Logger
}

// NewRunner creates a Runner.
func NewRunner(opts Options, out ui.Logger, logger *slog.Logger) *Runner {
	if opts.PackageManager == "" {
		opts.PackageManager = defs.DefaultPackageManager
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Executor == nil {
		opts.Executor = ExecExecutor{}
	}
	if out == nil {
		out = ui.Discard{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{opts: opts, out: out, logger: logger}
}

// Start installs dependencies and, only if that succeeds, runs the app's
// start script until it exits. It returns *InstallError when installation
// fails and *ExitError when the app exits non-zero. Cancelling ctx stops
// the child and returns ctx.Err() without logging a failure.
func (r *Runner) Start(ctx context.Context) error {
	if err := r.Install(ctx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.run(ctx)
}

// Install runs "<pm> install" to completion.
func (r *Runner) Install(ctx context.Context) error {
	r.out.Write("Installing dependencies...")

	var spin ui.Spinner
	if r.opts.Progress != nil {
		spin = r.opts.Progress.Spinner(r.opts.PackageManager + " install")
	}
	output, code, err := r.opts.Executor.Output(ctx, r.opts.Dir, r.opts.PackageManager, "install")
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		if ctx.Err() != nil {
			r.logger.Debug("install interrupted", "error", err)
			return err
		}
		r.out.Error("Installation failed: " + err.Error())
		return fmt.Errorf("install dependencies: %w", err)
	}

	r.logger.Debug("install finished", "exitCode", code, "outputBytes", len(output))
	if !r.installFailed(output, code) {
		return nil
	}

	r.out.Error("Installation failed: " + string(output))
	return &InstallError{Output: string(output), ExitCode: code}
}

func (r *Runner) installFailed(output []byte, code int) bool {
	if code != 0 {
		return true
	}
	return r.opts.LegacyOutputCheck && strings.TrimSpace(string(output)) != ""
}

func (r *Runner) run(ctx context.Context) error {
	r.out.Write("Starting app...")

	code, err := r.opts.Executor.Stream(ctx, r.opts.Dir, r.opts.Stdout, r.opts.Stderr, r.opts.PackageManager, "start")
	if err != nil {
		if ctx.Err() != nil {
			r.logger.Debug("app stopped", "error", err)
			return err
		}
		r.out.Error("Could not start app: " + err.Error())
		return fmt.Errorf("start app: %w", err)
	}
	r.logger.Debug("app exited", "exitCode", code)
	if code != 0 {
		r.out.Error("App exited with code " + strconv.Itoa(code))
		return &ExitError{ExitCode: code}
	}
	return nil
}
