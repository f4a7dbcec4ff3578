//go:build unix

package lifecycle

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// stopProcessTree starts cmd in its own process group and makes
// cancellation send SIGTERM to the whole group, so a dev server spawned
// by the package manager stops with it.
func stopProcessTree(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return unix.Kill(-cmd.Process.Pid, unix.SIGTERM)
	}
}
