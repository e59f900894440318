// Package notify delivers user-visible messages: the "login required" prompt,
// failure details nobody else handled, and transport errors.
package notify

import (
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/kochabx/apiclient/log"
)

// Notifier shows a message to the user
type Notifier interface {
	Notify(message string)
}

// Func adapts a function to Notifier
type Func func(message string)

// Notify calls f(message)
func (f Func) Notify(message string) { f(message) }

// Log writes notifications as warn-level log entries
type Log struct {
	logger *log.Logger
}

// NewLog returns a Notifier backed by logger, the global logger when nil
func NewLog(logger *log.Logger) *Log {
	if logger == nil {
		logger = log.G
	}
	return &Log{logger: logger}
}

// Notify logs the message
func (l *Log) Notify(message string) {
	l.logger.Warn().Str("notification", message).Msg("user notification")
}

// Writer prints one line per notification
type Writer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewWriter returns a Notifier printing to out
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Notify writes message followed by a newline
func (w *Writer) Notify(message string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, _ = fmt.Fprintln(w.out, message)
}

// Recorder keeps every message, for headless runs and tests
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

// NewRecorder returns an empty Recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Notify records message
func (r *Recorder) Notify(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

// Messages returns a copy of the recorded messages
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.messages)
}

// Reset drops recorded messages
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = nil
}

// Multi fans a notification out to several notifiers in order
type Multi []Notifier

// Notify forwards message to every notifier
func (m Multi) Notify(message string) {
	for _, n := range m {
		if n != nil {
			n.Notify(message)
		}
	}
}
