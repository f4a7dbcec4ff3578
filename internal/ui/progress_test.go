package ui

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/goleak"
)

func nonInteractive() *Terminal {
	term := NewTerminal(nil)
	term.SetInteractive(false)
	return term
}

func TestAnimatedSpinner_SetTitleThenStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := &animatedSpinner{
		program: tea.NewProgram(newSpinnerModel(NewTheme(false), "npm install"),
			tea.WithInput(strings.NewReader("")),
			tea.WithOutput(io.Discard),
			tea.WithoutRenderer(),
		),
		done: make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		_, _ = s.program.Run()
	}()

	s.SetTitle("npm install (retrying)")

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		s.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop() did not return within 2 seconds")
	}
}

func TestSpinnerModel_Update(t *testing.T) {
	m := newSpinnerModel(NewTheme(true), "npm install")
	if !strings.Contains(m.View(), "npm install (0s)") {
		t.Errorf("initial view = %q, want title with elapsed time", m.View())
	}

	updated, _ := m.Update(titleMsg("yarn install"))
	if got := updated.(spinnerModel).title; got != "yarn install" {
		t.Errorf("title = %q, want yarn install", got)
	}

	updated, cmd := updated.Update(stopMsg{})
	if !updated.(spinnerModel).finished {
		t.Error("stop message should finish the spinner")
	}
	if cmd == nil {
		t.Error("stop message should quit the program")
	}
	if view := updated.View(); view != "" {
		t.Errorf("finished view = %q, want empty", view)
	}
}

func TestProgress_NonInteractivePrintsLines(t *testing.T) {
	var buf bytes.Buffer
	s := NewProgress(NewTheme(false), nonInteractive(), &buf).Spinner("npm install")
	s.SetTitle("npm install")
	s.SetTitle("npm install (slow network)")
	s.Stop()

	if got, want := buf.String(), "npm install\nnpm install (slow network)\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if _, ok := s.(*lineSpinner); !ok {
		t.Errorf("Spinner() returned %T, want *lineSpinner", s)
	}
}

func TestProgress_NoColorPrintsLines(t *testing.T) {
	term := NewTerminal(nil)
	term.SetInteractive(true)

	var buf bytes.Buffer
	if _, ok := NewProgress(NewTheme(true), term, &buf).Spinner("x").(*lineSpinner); !ok {
		t.Error("a no-color theme should print plain lines")
	}
}

func TestTerminal_Interactive(t *testing.T) {
	var nilTerm *Terminal
	if nilTerm.Interactive() {
		t.Error("nil terminal should not be interactive")
	}

	term := NewTerminal(os.Stdin)
	term.SetInteractive(true)
	if !term.Interactive() {
		t.Error("forced interactive terminal reported non-interactive")
	}

	t.Setenv("CI", "true")
	if NewTerminal(nil).Interactive() {
		t.Error("CI environment should not be interactive")
	}
}

func TestConfirmer_NonInteractiveUsesFallback(t *testing.T) {
	for _, fallback := range []bool{true, false} {
		got, err := NewConfirmer(NewTheme(true), nonInteractive(), fallback).Confirm("Proceed?", "")
		if err != nil {
			t.Fatalf("Confirm() error: %v", err)
		}
		if got != fallback {
			t.Errorf("Confirm() = %v, want %v", got, fallback)
		}
	}
}

func TestTheme_StyleNoColor(t *testing.T) {
	th := NewTheme(true)
	if got := th.Style(th.Colors.Error).Render("plain"); got != "plain" {
		t.Errorf("no-color render = %q, want plain", got)
	}
	if IsTerminal(&bytes.Buffer{}) {
		t.Error("a buffer is never a terminal")
	}
}
