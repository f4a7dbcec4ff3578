package lifecycle

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"
)

// stopGrace is how long a cancelled child may take to exit after the
// stop signal before its pipes are closed and it is killed.
const stopGrace = 5 * time.Second

// Executor launches package manager processes. Exit codes are returned as
// values; err is reserved for failures to run the process at all.
type Executor interface {
	// Output runs name with args in dir and returns its combined output.
	Output(ctx context.Context, dir, name string, args ...string) (output []byte, exitCode int, err error)

	// Stream runs name with args in dir, connecting its output to stdout
	// and stderr, and blocks until it exits.
	Stream(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) (exitCode int, err error)
}

// ExecExecutor runs commands with os/exec. Cancelling the context stops
// the child together with the processes it spawned, and the call returns
// the context's error instead of an exit code.
type ExecExecutor struct{}

// Output implements Executor.
func (ExecExecutor) Output(ctx context.Context, dir, name string, args ...string) ([]byte, int, error) {
	cmd, err := command(ctx, dir, name, args)
	if err != nil {
		return nil, -1, err
	}

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	code, err := exitCode(ctx, cmd.Run())
	return buf.Bytes(), code, err
}

// Stream implements Executor.
func (ExecExecutor) Stream(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) (int, error) {
	cmd, err := command(ctx, dir, name, args)
	if err != nil {
		return -1, err
	}

	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return exitCode(ctx, cmd.Run())
}

func command(ctx context.Context, dir, name string, args []string) (*exec.Cmd, error) {
	bin, err := exec.LookPath(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPackageManagerNotFound, name, err)
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	cmd.WaitDelay = stopGrace
	stopProcessTree(cmd)
	return cmd, nil
}

// exitCode separates a non-zero exit from a failure to run. A child that
// ended because ctx was cancelled reports ctx.Err().
func exitCode(ctx context.Context, err error) (int, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, ctxErr
	}
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("run process: %w", err)
}
