package loggate

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strconv"
)

// ConsoleBackend writes records directly to a writer, standard error by default.
// It is the backend used when no delegated logging library is configured.
type ConsoleBackend struct {
	writer    io.Writer
	terminate func()
}

// ConsoleOption configures a ConsoleBackend.
type ConsoleOption func(*ConsoleBackend)

// NewConsoleBackend creates a console backend writing to w.
// A nil writer selects os.Stderr.
func NewConsoleBackend(w io.Writer, opts ...ConsoleOption) *ConsoleBackend {
	if w == nil {
		w = os.Stderr
	}
	b := &ConsoleBackend{
		writer:    w,
		terminate: abort,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// WithTerminator returns a ConsoleOption replacing the function that ends the
// process after a FATAL record. The default raises SIGABRT where available.
func WithTerminator(fn func()) ConsoleOption {
	return func(b *ConsoleBackend) {
		if fn != nil {
			b.terminate = fn
		}
	}
}

// Name implements Backend.
func (b *ConsoleBackend) Name() string {
	return "console"
}

// Start implements Backend. The console backend has nothing to configure:
// it has no file output, so the log directory is ignored.
func (b *ConsoleBackend) Start(Settings) error {
	return nil
}

// Shutdown implements Backend.
func (b *ConsoleBackend) Shutdown() error {
	return nil
}

// InstallFailureSignalHandler implements Backend. The console backend has no
// crash reporter; the call does nothing.
func (b *ConsoleBackend) InstallFailureSignalHandler() {}

// Open implements Backend. The record starts with the "<file>:<line>: " prefix.
func (b *ConsoleBackend) Open(origin Origin) Sink {
	s := &consoleSink{
		backend:  b,
		severity: origin.Severity,
	}
	s.Write(origin.File, ":", strconv.Itoa(origin.Line), ": ")
	return s
}

// consoleSink buffers one record and writes it to the backend in one piece.
type consoleSink struct {
	backend  *ConsoleBackend
	severity Severity
	buf      bytes.Buffer
	logged   bool // Set once non-DEBUG content has been written.
}

// Write renders every value on its own; DEBUG content is discarded.
func (s *consoleSink) Write(v ...interface{}) {
	if s.severity == DebugSeverity {
		return
	}
	s.logged = true
	for _, x := range v {
		fmt.Fprint(&s.buf, x)
	}
}

// Close terminates the line and, for FATAL, dumps the stack and ends the process.
func (s *consoleSink) Close() {
	if s.logged {
		s.buf.WriteByte('\n')
	}
	if s.severity == FatalSeverity {
		s.buf.Write(debug.Stack())
	}
	if s.buf.Len() > 0 {
		_ = writeLocked(s.backend.writer, s.buf.Bytes())
	}
	if s.severity == FatalSeverity {
		s.backend.terminate()
	}
}
