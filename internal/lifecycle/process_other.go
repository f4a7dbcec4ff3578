//go:build !unix

package lifecycle

import "os/exec"

// stopProcessTree keeps the default cancellation, which kills the child.
func stopProcessTree(*exec.Cmd) {}
