package ui

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/term"
)

// Spinner indicates that a request is in flight. It only animates when
// its output is a terminal. The zero value and a nil *Spinner are no-ops.
type Spinner struct {
	s    *spinner.Spinner
	once sync.Once
}

// NewSpinner returns a spinner that draws message on f, or an inert one
// when f is not a terminal.
func NewSpinner(f *os.File, message string) *Spinner {
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return &Spinner{}
	}
	return &Spinner{s: spinner.New(
		spinner.CharSets[14],
		100*time.Millisecond,
		spinner.WithWriterFile(f),
		spinner.WithColor("cyan"),
		spinner.WithSuffix(" "+message),
		spinner.WithHiddenCursor(true),
	)}
}

// Active reports whether the spinner draws anything.
func (s *Spinner) Active() bool { return s != nil && s.s != nil }

// Start begins animating.
func (s *Spinner) Start() {
	if s.Active() {
		s.s.Start()
	}
}

// Stop erases the spinner. Later calls do nothing.
func (s *Spinner) Stop() {
	if !s.Active() {
		return
	}
	s.once.Do(s.s.Stop)
}

// FirstWriteWriter calls before once, just ahead of the first write to W.
// It lets the spinner be cleared the moment answer text starts arriving.
type FirstWriteWriter struct {
	W      io.Writer
	before func()
	wrote  atomic.Bool
}

// NewFirstWriteWriter wraps w. before may be nil.
func NewFirstWriteWriter(w io.Writer, before func()) *FirstWriteWriter {
	return &FirstWriteWriter{W: w, before: before}
}

func (f *FirstWriteWriter) Write(p []byte) (int, error) {
	if !f.wrote.Swap(true) && f.before != nil {
		f.before()
	}
	return f.W.Write(p)
}

// Wrote reports whether any write has happened.
func (f *FirstWriteWriter) Wrote() bool { return f.wrote.Load() }
