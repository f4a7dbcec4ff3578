package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
)

// ErrCancelled is returned when the user aborts an interactive prompt.
var ErrCancelled = errors.New("cancelled by user")

// Confirmer asks yes/no questions.
type Confirmer interface {
	Confirm(title, description string) (bool, error)
}

type confirmImpl struct {
	theme    *Theme
	term     *Terminal
	fallback bool
}

// NewConfirmer creates a Confirmer. On a non-interactive terminal every
// question is answered with fallback without prompting.
func NewConfirmer(theme *Theme, term *Terminal, fallback bool) Confirmer {
	return &confirmImpl{theme: theme, term: term, fallback: fallback}
}

// Confirm shows a huh confirmation prompt and returns the answer.
func (c *confirmImpl) Confirm(title, description string) (bool, error) {
	if !c.term.Interactive() {
		return c.fallback, nil
	}

	answer := c.fallback
	field := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&answer)

	form := huh.NewForm(huh.NewGroup(field))
	if c.theme == nil || c.theme.NoColor {
		form = form.WithTheme(huh.ThemeBase())
	} else {
		form = form.WithTheme(huh.ThemeCharm())
	}

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, ErrCancelled
		}
		return false, fmt.Errorf("confirm prompt: %w", err)
	}
	return answer, nil
}
