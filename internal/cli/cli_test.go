package cli

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/webgme/webgme-setup-tool/internal/config"
	"github.com/webgme/webgme-setup-tool/internal/template"
	"github.com/webgme/webgme-setup-tool/internal/ui"
)

// --- Test doubles ---

type fakeExecutor struct {
	commands    []string
	installCode int
	installOut  string
	streamErr   error
}

func (f *fakeExecutor) Output(_ context.Context, _, name string, args ...string) ([]byte, int, error) {
	f.commands = append(f.commands, name+" "+args[0])
	return []byte(f.installOut), f.installCode, nil
}

func (f *fakeExecutor) Stream(_ context.Context, _ string, stdout, _ io.Writer, name string, args ...string) (int, error) {
	f.commands = append(f.commands, name+" "+args[0])
	_, _ = io.WriteString(stdout, "listening\n")
	if f.streamErr != nil {
		return -1, f.streamErr
	}
	return 0, nil
}

type fakeConfirmer struct {
	answer bool
	asked  int
}

func (c *fakeConfirmer) Confirm(string, string) (bool, error) {
	c.asked++
	return c.answer, nil
}

// setupTestDeps installs dependencies that log to memory and never spawn
// processes. The returned buffer receives the started app's stdout.
func setupTestDeps(t *testing.T) (*ui.CaptureLogger, *fakeExecutor, *bytes.Buffer) {
	t.Helper()
	res, err := template.Resources()
	if err != nil {
		t.Fatalf("Resources() error = %v", err)
	}

	out := ui.NewCaptureLogger()
	d, err := NewDependencies(config.NewDefaultConfig(), res, out, nil)
	if err != nil {
		t.Fatalf("NewDependencies() error = %v", err)
	}
	exec := &fakeExecutor{}
	stdout := &bytes.Buffer{}
	d.Executor = exec
	d.Stdout = stdout
	d.Stderr = io.Discard

	SetDeps(d)
	t.Cleanup(func() { SetDeps(nil) })
	return out, exec, stdout
}

// executeCommand runs the root command with args and returns cobra's output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		_ = initCmd.Flags().Set("yes", "false")
		_ = startCmd.Flags().Set("legacy-output-check", "false")
	})

	err := Execute()
	return buf.String(), err
}
