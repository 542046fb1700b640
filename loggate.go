// Package loggate provides a minimal leveled logging facade with a pluggable backend.
//
// A call site opens a Record at a Severity, streams content into it and closes it.
// Whether the record is emitted is decided once, when it is created, by comparing
// its severity with the process-wide threshold held by a State. Enabled records are
// rendered by the Backend chosen when the State was built:
//
//   - the console backend writes "<file>:<line>: <content>" lines to standard error,
//     drops DEBUG content, and on FATAL prints a backtrace and aborts the process;
//   - the delegated backend forwards records to logrus, prefixed with
//     "(<app_name>): ", optionally duplicating them into a rotating log file.
//
// FATAL records are always enabled and always terminate the process once closed.
//
// Key features:
//   - Five ordered severities (DEBUG < INFO < WARNING < ERROR < FATAL)
//   - Caller source location tracking with stack depth control
//   - Explicit Start/Shutdown lifecycle on a State, plus a package-level Default
//   - CHECK-style assertions that abort with a FATAL record
//   - Optional Prometheus counters for emitted and suppressed records
package loggate

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"
)

// New creates a State configured with the provided options.
// Without WithBackend the State writes to os.Stderr through the console backend.
// The threshold is InfoSeverity until Start sets another one.
//
// Parameters:
//   - opts: a variadic slice of Option functions (e.g., WithBackend, WithRegisterer).
//
// Example:
//
//	state := loggate.New(
//	    loggate.WithBackend(loggate.NewConsoleBackend(os.Stderr)),
//	    loggate.WithRegisterer(prometheus.DefaultRegisterer),
//	)
func New(opts ...Option) *State {
	s := &State{
		threshold: InfoSeverity,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.backend == nil {
		s.backend = NewConsoleBackend(os.Stderr)
	}
	return s
}

// WithBackend returns an Option that selects the backend rendering the records.
// The choice is fixed for the lifetime of the State.
//
// Example:
//
//	state := loggate.New(loggate.WithBackend(loggate.NewDelegatedBackend()))
func WithBackend(b Backend) Option {
	return func(s *State) {
		if b != nil {
			s.backend = b
		}
	}
}

// Start configures the State: it starts the backend (which enables file output
// under logDir when the backend supports it and logDir is not empty), then records
// the severity threshold and the application name and captures the current
// working directory. When the backend fails to start, the State is left exactly
// as it was.
//
// Start must be called once, before any concurrent logging begins.
//
// Parameters:
//   - appName: the application name, shown in the delegated prefix "(<appName>): ".
//     Its last path element tags the log file; an empty name uses DefaultAppName.
//   - threshold: the minimum Severity emitted; FatalSeverity is emitted regardless.
//   - logDir: directory for file output; empty disables it. A trailing "/" is added if missing.
//
// Returns:
//   - an error if the State is already started or the backend could not be started.
//
// Example:
//
//	state := loggate.New(loggate.WithBackend(loggate.NewDelegatedBackend()))
//	if err := state.Start(os.Args[0], loggate.WarningSeverity, "/var/log/myapp"); err != nil {
//	    return err
//	}
//	defer state.Shutdown()
func (s *State) Start(appName string, threshold Severity, logDir string) error {
	if s.started {
		return errors.New("loggate: already started")
	}
	err := s.backend.Start(Settings{
		AppName:   appName,
		Threshold: threshold,
		LogDir:    logDir,
	})
	if err != nil {
		return errors.Wrapf(err, "loggate: start %s backend", s.backend.Name())
	}
	s.threshold = threshold
	s.appName = appName
	if wd, err := os.Getwd(); err == nil {
		s.workingDir = wd
	}
	s.started = true
	return nil
}

// Shutdown releases the resources acquired by Start. It is a no-op when the
// State was not started.
func (s *State) Shutdown() error {
	if !s.started {
		return nil
	}
	s.started = false
	return errors.Wrapf(s.backend.Shutdown(), "loggate: shut down %s backend", s.backend.Name())
}

// InstallFailureSignalHandler asks the backend to report crashes caused by fatal
// signals. The console backend has no such facility and ignores the call.
func (s *State) InstallFailureSignalHandler() {
	s.backend.InstallFailureSignalHandler()
}

// Threshold returns the minimum severity that is emitted.
func (s *State) Threshold() Severity {
	return s.threshold
}

// AppName returns the application name given to Start.
func (s *State) AppName() string {
	return s.appName
}

// WorkingDir returns the working directory captured by Start.
func (s *State) WorkingDir() string {
	return s.workingDir
}

// Started reports whether Start succeeded and Shutdown has not been called since.
func (s *State) Started() bool {
	return s.started
}

// Backend returns the backend selected for the State.
func (s *State) Backend() Backend {
	return s.backend
}

// Log opens a record at the given severity for the caller's source location.
// Whether the record is enabled is decided here, once, against the threshold.
// The caller must Close the record; for FatalSeverity, Close ends the process.
//
// Parameters:
//   - severity: the Severity of the record.
//
// Returns:
//   - the open Record. A disabled Record accepts Append and Close as no-ops.
//
// Example:
//
//	rec := state.Log(loggate.ErrorSeverity)
//	rec.Append("open ", path, ": ", err)
//	rec.Close()
func (s *State) Log(severity Severity) *Record {
	return s.newRecord(0, severity)
}

// LogDepth is like Log but reports the source location skip frames above the caller.
// Wrappers around the facade use it to attribute records to their own callers.
//
// Parameters:
//   - skip: number of stack frames to skip above the caller; negative values count as 0.
//   - severity: the Severity of the record.
//
// Example:
//
//	func warn(msg string) {
//	    rec := state.LogDepth(1, loggate.WarningSeverity) // reports warn's caller
//	    rec.Append(msg)
//	    rec.Close()
//	}
func (s *State) LogDepth(skip int, severity Severity) *Record {
	if skip < 0 {
		skip = 0
	}
	return s.newRecord(skip, severity)
}

// newRecord must be called directly by the exported entry point so that
// skip 0 designates the entry point's caller.
func (s *State) newRecord(skip int, severity Severity) *Record {
	origin := Origin{Severity: severity}
	if _, file, line, ok := runtime.Caller(skip + 2); ok {
		origin.File = filepath.Base(file)
		origin.Line = line
	}
	r := &Record{
		origin:  origin,
		enabled: isEnabled(severity, s.threshold),
	}
	s.metrics.observe(r.enabled, severity, s.backend.Name())
	if r.enabled {
		r.sink = s.backend.Open(origin)
	}
	return r
}

// Debug logs a debug-level record built from the values.
func (s *State) Debug(v ...interface{}) {
	s.newRecord(0, DebugSeverity).Append(v...).Close()
}

// Debugf logs a formatted debug-level record.
func (s *State) Debugf(format string, args ...interface{}) {
	s.newRecord(0, DebugSeverity).Appendf(format, args...).Close()
}

// Info logs an informational record built from the values.
func (s *State) Info(v ...interface{}) {
	s.newRecord(0, InfoSeverity).Append(v...).Close()
}

// Infof logs a formatted informational record.
func (s *State) Infof(format string, args ...interface{}) {
	s.newRecord(0, InfoSeverity).Appendf(format, args...).Close()
}

// Warning logs a warning record built from the values.
func (s *State) Warning(v ...interface{}) {
	s.newRecord(0, WarningSeverity).Append(v...).Close()
}

// Warningf logs a formatted warning record.
func (s *State) Warningf(format string, args ...interface{}) {
	s.newRecord(0, WarningSeverity).Appendf(format, args...).Close()
}

// Error logs an error record built from the values.
func (s *State) Error(v ...interface{}) {
	s.newRecord(0, ErrorSeverity).Append(v...).Close()
}

// Errorf logs a formatted error record.
func (s *State) Errorf(format string, args ...interface{}) {
	s.newRecord(0, ErrorSeverity).Appendf(format, args...).Close()
}

// Fatal logs a fatal record built from the values and terminates the process.
func (s *State) Fatal(v ...interface{}) {
	s.newRecord(0, FatalSeverity).Append(v...).Close()
}

// Fatalf logs a formatted fatal record and terminates the process.
func (s *State) Fatalf(format string, args ...interface{}) {
	s.newRecord(0, FatalSeverity).Appendf(format, args...).Close()
}

// Check returns a FATAL record carrying "Check failed: <expr>" when condition is
// false, so the caller can add context before closing it. When condition holds the
// returned record is disabled and closing it does nothing.
//
// Parameters:
//   - condition: the asserted condition.
//   - expr: the source text of the condition, reported on failure.
//
// Returns:
//   - a FATAL Record to be closed by the caller, disabled when condition is true.
//
// Example:
//
//	state.Check(n >= 0, "n >= 0").Append("n=", n).Close()
func (s *State) Check(condition bool, expr string) *Record {
	if condition {
		return &Record{origin: Origin{Severity: FatalSeverity}}
	}
	return s.newRecord(0, FatalSeverity).Append(" Check failed: ", expr, " ")
}

// CheckOK terminates the process with "<msg>: <err>" when err is not nil.
func (s *State) CheckOK(err error, msg string) {
	if err == nil {
		return
	}
	s.newRecord(0, FatalSeverity).Append(msg, ": ", err).Close()
}

// Start configures the package-level Default state.
func Start(appName string, threshold Severity, logDir string) error {
	return Default.Start(appName, threshold, logDir)
}

// Shutdown releases the resources of the package-level Default state.
func Shutdown() error {
	return Default.Shutdown()
}

// InstallFailureSignalHandler installs the crash reporter of the Default state's backend.
func InstallFailureSignalHandler() {
	Default.InstallFailureSignalHandler()
}

// Log opens a record at the given severity on the Default state.
func Log(severity Severity) *Record {
	return Default.newRecord(0, severity)
}

// LogDepth opens a record on the Default state, attributed skip frames above the caller.
func LogDepth(skip int, severity Severity) *Record {
	if skip < 0 {
		skip = 0
	}
	return Default.newRecord(skip, severity)
}

// Debug logs a debug-level record using the Default state.
func Debug(v ...interface{}) {
	Default.newRecord(0, DebugSeverity).Append(v...).Close()
}

// Debugf logs a formatted debug-level record using the Default state.
func Debugf(format string, args ...interface{}) {
	Default.newRecord(0, DebugSeverity).Appendf(format, args...).Close()
}

// Info logs an informational record using the Default state.
func Info(v ...interface{}) {
	Default.newRecord(0, InfoSeverity).Append(v...).Close()
}

// Infof logs a formatted informational record using the Default state.
func Infof(format string, args ...interface{}) {
	Default.newRecord(0, InfoSeverity).Appendf(format, args...).Close()
}

// Warning logs a warning record using the Default state.
func Warning(v ...interface{}) {
	Default.newRecord(0, WarningSeverity).Append(v...).Close()
}

// Warningf logs a formatted warning record using the Default state.
func Warningf(format string, args ...interface{}) {
	Default.newRecord(0, WarningSeverity).Appendf(format, args...).Close()
}

// Error logs an error record using the Default state.
func Error(v ...interface{}) {
	Default.newRecord(0, ErrorSeverity).Append(v...).Close()
}

// Errorf logs a formatted error record using the Default state.
func Errorf(format string, args ...interface{}) {
	Default.newRecord(0, ErrorSeverity).Appendf(format, args...).Close()
}

// Fatal logs a fatal record using the Default state and terminates the process.
func Fatal(v ...interface{}) {
	Default.newRecord(0, FatalSeverity).Append(v...).Close()
}

// Fatalf logs a formatted fatal record using the Default state and terminates the process.
func Fatalf(format string, args ...interface{}) {
	Default.newRecord(0, FatalSeverity).Appendf(format, args...).Close()
}

// Check is State.Check on the Default state.
func Check(condition bool, expr string) *Record {
	if condition {
		return &Record{origin: Origin{Severity: FatalSeverity}}
	}
	return Default.newRecord(0, FatalSeverity).Append(" Check failed: ", expr, " ")
}

// CheckOK is State.CheckOK on the Default state.
func CheckOK(err error, msg string) {
	if err == nil {
		return
	}
	Default.newRecord(0, FatalSeverity).Append(msg, ": ", err).Close()
}
