package ui

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"
)

// Level classifies a logger message.
type Level int

const (
	// LevelInfo is diagnostic detail ("Writing package.json to ...").
	LevelInfo Level = iota
	// LevelWrite is user-facing progress text.
	LevelWrite
	// LevelError is failure text, written to stderr.
	LevelError
)

// String returns the lower-case level name.
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWrite:
		return "write"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Event is published once per logger call.
type Event struct {
	Level   Level
	Message string
}

// Logger is the user-facing message sink shared by the initializer and the
// lifecycle runner. Calls never fail and never block on observers.
type Logger interface {
	Info(msg string)
	Write(msg string)
	Error(msg string)
}

// ConsoleLogger writes messages to stdout/stderr and fans each one out as
// an Event to subscribers.
type ConsoleLogger struct {
	out    io.Writer
	errOut io.Writer
	theme  *Theme

	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
}

// NewConsoleLogger creates a ConsoleLogger. Nil writers default to
// os.Stdout and os.Stderr; a nil theme disables color.
func NewConsoleLogger(stdout, stderr io.Writer, theme *Theme) *ConsoleLogger {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	if theme == nil {
		theme = NewTheme(true)
	}
	return &ConsoleLogger{
		out:    stdout,
		errOut: stderr,
		theme:  theme,
		subs:   make(map[int]chan Event),
	}
}

// Info writes muted diagnostic text to stdout.
func (l *ConsoleLogger) Info(msg string) {
	l.emit(LevelInfo, msg)
	_, _ = fmt.Fprintln(l.out, l.theme.Style(l.theme.Colors.Muted).Render(msg))
}

// Write writes progress text to stdout.
func (l *ConsoleLogger) Write(msg string) {
	l.emit(LevelWrite, msg)
	_, _ = fmt.Fprintln(l.out, msg)
}

// Error writes failure text to stderr.
func (l *ConsoleLogger) Error(msg string) {
	l.emit(LevelError, msg)
	_, _ = fmt.Fprintln(l.errOut, l.theme.Style(l.theme.Colors.Error).Render(msg))
}

// Subscribe registers an observer. Events are dropped for the observer
// while its buffer is full. The returned function unsubscribes and closes
// the channel; it is safe to call more than once.
func (l *ConsoleLogger) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.subs[id] = ch
	l.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.subs, id)
			l.mu.Unlock()
			close(ch)
		})
	}
}

func (l *ConsoleLogger) emit(level Level, msg string) {
	ev := Event{Level: level, Message: msg}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ch := range l.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// CaptureLogger records events in memory. It is used by tests and by
// callers that want to inspect output after the fact.
type CaptureLogger struct {
	mu     sync.Mutex
	events []Event
}

// NewCaptureLogger creates an empty CaptureLogger.
func NewCaptureLogger() *CaptureLogger {
	return &CaptureLogger{}
}

func (c *CaptureLogger) Info(msg string)  { c.record(LevelInfo, msg) }
func (c *CaptureLogger) Write(msg string) { c.record(LevelWrite, msg) }
func (c *CaptureLogger) Error(msg string) { c.record(LevelError, msg) }

func (c *CaptureLogger) record(level Level, msg string) {
	c.mu.Lock()
	c.events = append(c.events, Event{Level: level, Message: msg})
	c.mu.Unlock()
}

// Events returns a copy of every recorded event in call order.
func (c *CaptureLogger) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.events)
}

// Messages returns the messages recorded at the given level.
func (c *CaptureLogger) Messages(level Level) []string {
	var out []string
	for _, ev := range c.Events() {
		if ev.Level == level {
			out = append(out, ev.Message)
		}
	}
	return out
}

// Contains reports whether any message at level contains substr.
func (c *CaptureLogger) Contains(level Level, substr string) bool {
	for _, msg := range c.Messages(level) {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

// Discard is a Logger that drops every message.
type Discard struct{}

func (Discard) Info(string)  {}
func (Discard) Write(string) {}
func (Discard) Error(string) {}
