package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ThemeColors holds the hex colors used for styled output.
type ThemeColors struct {
	Primary   string
	Secondary string
	Success   string
	Error     string
	Muted     string
}

// Theme controls how terminal output is styled.
type Theme struct {
	NoColor bool
	Colors  ThemeColors
}

// NewTheme returns the default theme. When noColor is true every style
// renders as plain text.
func NewTheme(noColor bool) *Theme {
	return &Theme{
		NoColor: noColor,
		Colors: ThemeColors{
			Primary:   "#2C7BB6",
			Secondary: "#7B3294",
			Success:   "#10B981",
			Error:     "#EF4444",
			Muted:     "#6B7280",
		},
	}
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Style returns a foreground style for the given color, or a plain style
// when color output is disabled.
func (t *Theme) Style(color string) lipgloss.Style {
	if t == nil || t.NoColor {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}
