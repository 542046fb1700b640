package loggate

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
)

// Severity defines the criticality of a log record.
// Higher values indicate more critical messages; the zero value is InfoSeverity.
type Severity int

// State is the process-wide logging context. It holds the severity threshold,
// the application name, the working directory captured at start-up and the
// backend selected when the State was created.
//
// A State is started once with Start and torn down with Shutdown. Neither call
// is safe for concurrent use; the fields they set are read without locking on
// every record construction.
type State struct {
	threshold  Severity       // Minimum severity that is emitted; FatalSeverity always is.
	appName    string         // Application name as passed to Start.
	workingDir string         // Working directory captured at Start (informational).
	backend    Backend        // Backend chosen at construction time.
	started    bool           // True between Start and Shutdown.
	metrics    *recordMetrics // Optional Prometheus counters; nil when disabled.
}

// Option defines a functional option for configuring a State during creation.
type Option func(*State)

// Settings carries the process-wide parameters passed to a Backend on Start.
type Settings struct {
	AppName   string   // Application name, possibly including a path prefix.
	Threshold Severity // Severity threshold configured on the State.
	LogDir    string   // Directory for file output; empty disables file output.
}

// Origin identifies the call site and severity of a single record.
type Origin struct {
	File     string
	Line     int
	Severity Severity
}

// Backend produces the sinks that render records. A State talks to exactly one
// Backend for its whole lifetime.
type Backend interface {
	// Name returns a short identifier of the backend, e.g. "console".
	Name() string
	// Start configures the backend for the given process settings.
	Start(settings Settings) error
	// Shutdown releases any resource acquired by Start.
	Shutdown() error
	// InstallFailureSignalHandler installs a crash reporter if the backend has one.
	InstallFailureSignalHandler()
	// Open returns the sink for a new enabled record.
	Open(origin Origin) Sink
}

// Sink receives the content of a single record.
type Sink interface {
	// Write appends the rendered values to the record.
	Write(v ...interface{})
	// Close finalizes the record. For FatalSeverity it does not return.
	Close()
}

// Record is one log line under construction. It is owned by the goroutine that
// created it and must not be shared.
type Record struct {
	origin  Origin
	enabled bool
	sink    Sink // nil when the record is disabled.
	closed  bool
}

// recordMetrics groups the optional Prometheus counters maintained by a State.
type recordMetrics struct {
	emitted    *prometheus.CounterVec
	suppressed *prometheus.CounterVec
}

// locker is an interface that defines basic locking operations.
// If an io.Writer implements this interface, it is locked while a record is written.
type locker interface {
	Lock()
	Unlock()
}

// writeLocked writes p to w in one call, holding the lock of w when it has one.
func writeLocked(w io.Writer, p []byte) error {
	if lock, ok := w.(locker); ok {
		lock.Lock()
		defer lock.Unlock()
	}
	_, err := w.Write(p)
	return err
}
