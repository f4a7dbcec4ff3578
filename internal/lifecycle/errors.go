// Package lifecycle installs a generated project's dependencies and starts
// the application through the package manager.
package lifecycle

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPackageManagerNotFound indicates the package manager binary is not on PATH.
var ErrPackageManagerNotFound = errors.New("package manager not found")

// InstallError reports a failed dependency installation. The application
// is never started after an InstallError.
type InstallError struct {
	Output   string // Combined install output.
	ExitCode int
}

// Error implements the error interface.
func (e *InstallError) Error() string {
	msg := fmt.Sprintf("dependency installation failed (exit code %d)", e.ExitCode)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

// ExitError reports that the started application exited with a non-zero code.
type ExitError struct {
	ExitCode int
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("app exited with code %d", e.ExitCode)
}
