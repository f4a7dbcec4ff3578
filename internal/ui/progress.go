package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Spinner is shown while a long-running step, such as dependency
// installation, is in progress.
type Spinner interface {
	SetTitle(title string)
	Stop()
}

// Progress creates spinners.
type Progress interface {
	Spinner(title string) Spinner
}

type terminalProgress struct {
	theme *Theme
	term  *Terminal
	w     io.Writer
}

// NewProgress returns a Progress that animates on an interactive color
// terminal and prints plain lines otherwise. Output goes to w (os.Stderr
// when nil) so it never interleaves with the child process's stdout.
func NewProgress(theme *Theme, term *Terminal, w io.Writer) Progress {
	if w == nil {
		w = os.Stderr
	}
	return &terminalProgress{theme: theme, term: term, w: w}
}

// Spinner starts a spinner with the given title.
func (p *terminalProgress) Spinner(title string) Spinner {
	if !p.term.Interactive() || p.theme == nil || p.theme.NoColor {
		return newLineSpinner(p.w, title)
	}
	return startAnimatedSpinner(p.theme, p.w, title)
}

type titleMsg string

type stopMsg struct{}

// spinnerModel renders "<frame> <title> (<elapsed>)".
type spinnerModel struct {
	frame    spinner.Model
	title    string
	started  time.Time
	finished bool
}

func newSpinnerModel(theme *Theme, title string) spinnerModel {
	frame := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	frame.Style = theme.Style(theme.Colors.Primary)
	return spinnerModel{frame: frame, title: title, started: time.Now()}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.frame.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case titleMsg:
		m.title = string(msg)
	case stopMsg:
		m.finished = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.frame, cmd = m.frame.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.finished {
		return ""
	}
	elapsed := time.Since(m.started).Truncate(time.Second)
	return fmt.Sprintf("%s %s (%s)\n", m.frame.View(), m.title, elapsed)
}

// animatedSpinner runs spinnerModel in its own bubbletea program. The
// program does not read stdin, which stays with the child process.
type animatedSpinner struct {
	program *tea.Program
	done    chan struct{}
	once    sync.Once
}

func startAnimatedSpinner(theme *Theme, w io.Writer, title string) *animatedSpinner {
	s := &animatedSpinner{
		program: tea.NewProgram(newSpinnerModel(theme, title), tea.WithOutput(w), tea.WithInput(nil)),
		done:    make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		_, _ = s.program.Run()
	}()
	return s
}

func (s *animatedSpinner) SetTitle(title string) {
	s.program.Send(titleMsg(title))
}

// Stop clears the spinner and returns once the program has exited.
func (s *animatedSpinner) Stop() {
	s.once.Do(func() {
		s.program.Send(stopMsg{})
		<-s.done
	})
}

// lineSpinner prints each distinct title on its own line.
type lineSpinner struct {
	mu   sync.Mutex
	w    io.Writer
	last string
}

func newLineSpinner(w io.Writer, title string) *lineSpinner {
	s := &lineSpinner{w: w}
	s.SetTitle(title)
	return s
}

func (s *lineSpinner) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if title == s.last {
		return
	}
	s.last = title
	_, _ = fmt.Fprintln(s.w, title)
}

func (s *lineSpinner) Stop() {}
