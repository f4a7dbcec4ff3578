package ui

import (
	"os"

	"github.com/mattn/go-isatty"
)

// Terminal decides whether prompts and animated progress may be used.
// They need an interactive stdin; CI environments are never interactive.
type Terminal struct {
	in     *os.File
	forced *bool
}

// NewTerminal inspects in (os.Stdin when nil).
func NewTerminal(in *os.File) *Terminal {
	if in == nil {
		in = os.Stdin
	}
	return &Terminal{in: in}
}

// Interactive reports whether the user can answer prompts. A nil Terminal
// is not interactive.
func (t *Terminal) Interactive() bool {
	if t == nil {
		return false
	}
	if t.forced != nil {
		return *t.forced
	}
	if os.Getenv("CI") != "" {
		return false
	}
	fd := t.in.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// SetInteractive overrides detection.
func (t *Terminal) SetInteractive(interactive bool) {
	t.forced = &interactive
}
