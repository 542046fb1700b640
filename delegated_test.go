package loggate

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

// newTestDelegated returns a delegated backend writing JSON to a buffer and a
// pointer to the last exit code requested by logrus (-1 when none).
func newTestDelegated(t *testing.T) (*DelegatedBackend, *bytes.Buffer, *int) {
	t.Helper()
	buf := new(bytes.Buffer)
	exitCode := -1
	logger := logrus.New()
	logger.SetOutput(buf)
	logger.ExitFunc = func(code int) { exitCode = code }
	b := NewDelegatedBackend(
		WithLogrusLogger(logger),
		WithFormatter(&logrus.JSONFormatter{DisableTimestamp: true}),
	)
	return b, buf, &exitCode
}

func decodeEntries(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		entry := map[string]interface{}{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestMapSeverity(t *testing.T) {
	tests := []struct {
		severity Severity
		expected logrus.Level
		wantErr  bool
	}{
		{DebugSeverity, logrus.InfoLevel, false},
		{InfoSeverity, logrus.InfoLevel, false},
		{WarningSeverity, logrus.WarnLevel, false},
		{ErrorSeverity, logrus.ErrorLevel, false},
		{FatalSeverity, logrus.FatalLevel, false},
		{Severity(7), logrus.FatalLevel, true},
		{Severity(-2), logrus.FatalLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.severity.String(), func(t *testing.T) {
			got, err := mapSeverity(tt.severity)
			if (err != nil) != tt.wantErr {
				t.Fatalf("mapSeverity(%v) error = %v, wantErr %v", tt.severity, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("mapSeverity(%v) = %v, want %v", tt.severity, got, tt.expected)
			}
		})
	}
}

func TestLogFileTag(t *testing.T) {
	tests := []struct {
		appName  string
		expected string
	}{
		{"/usr/bin/myapp", "myapp"},
		{"myapp", "myapp"},
		{"", DefaultAppName},
		{"bin/", "bin/"},
		{"./tools/worker", "worker"},
	}
	for _, tt := range tests {
		t.Run(tt.appName, func(t *testing.T) {
			if got := logFileTag(tt.appName); got != tt.expected {
				t.Errorf("logFileTag(%q) = %q, want %q", tt.appName, got, tt.expected)
			}
		})
	}
}

func TestWithTrailingSeparator(t *testing.T) {
	if got := withTrailingSeparator("/var/log"); got != "/var/log/" {
		t.Errorf("Expected separator to be appended, got %q", got)
	}
	if got := withTrailingSeparator("/var/log/"); got != "/var/log/" {
		t.Errorf("Expected path to be unchanged, got %q", got)
	}
}

// TestDelegatedRecord checks prefix, call site fields and level mapping of a forwarded record.
func TestDelegatedRecord(t *testing.T) {
	b, buf, exitCode := newTestDelegated(t)
	if err := b.Start(Settings{AppName: "myapp", Threshold: InfoSeverity}); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	sink := b.Open(Origin{File: "file.cc", Line: 10, Severity: WarningSeverity})
	sink.Write("hello", " ", 42)
	sink.Close()

	entries := decodeEntries(t, buf)
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d: %s", len(entries), buf.String())
	}
	e := entries[0]
	if e["msg"] != "(myapp): hello 42" {
		t.Errorf("Unexpected msg %v", e["msg"])
	}
	if e["level"] != "warning" {
		t.Errorf("Unexpected level %v", e["level"])
	}
	if e["file"] != "file.cc" || e["line"] != float64(10) {
		t.Errorf("Unexpected call site %v:%v", e["file"], e["line"])
	}
	if *exitCode != -1 {
		t.Errorf("Expected no exit, got %d", *exitCode)
	}
}

// TestDelegatedDebugIsInfo checks DEBUG records reach logrus at the info level.
func TestDelegatedDebugIsInfo(t *testing.T) {
	b, buf, _ := newTestDelegated(t)
	s := New(WithBackend(b))
	if err := s.Start("myapp", DebugSeverity, ""); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer s.Shutdown()
	s.Debug("debug detail")
	entries := decodeEntries(t, buf)
	if len(entries) != 1 || entries[0]["level"] != "info" || entries[0]["msg"] != "(myapp): debug detail" {
		t.Errorf("Unexpected entries: %s", buf.String())
	}
	if b.Logger().GetLevel() != logrus.InfoLevel {
		t.Errorf("Expected logger level info, got %v", b.Logger().GetLevel())
	}
}

// TestDelegatedFatal checks FATAL termination is left to logrus' exit path.
func TestDelegatedFatal(t *testing.T) {
	b, buf, exitCode := newTestDelegated(t)
	s := New(WithBackend(b))
	if err := s.Start("myapp", ErrorSeverity, ""); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer s.Shutdown()
	s.Info("dropped")
	s.Fatal("giving up")
	if *exitCode != 1 {
		t.Errorf("Expected logrus exit code 1, got %d", *exitCode)
	}
	entries := decodeEntries(t, buf)
	if len(entries) != 1 || entries[0]["level"] != "fatal" || entries[0]["msg"] != "(myapp): giving up" {
		t.Errorf("Unexpected entries: %s", buf.String())
	}
}

// TestDelegatedUnsupportedSeverity checks an unknown severity is a fatal configuration error.
func TestDelegatedUnsupportedSeverity(t *testing.T) {
	b, buf, exitCode := newTestDelegated(t)
	b.Open(Origin{File: "x.go", Line: 1, Severity: Severity(9)})
	if *exitCode != 1 {
		t.Errorf("Expected exit on unsupported severity, got %d", *exitCode)
	}
	if !strings.Contains(buf.String(), "Unsupported logging level: 9") {
		t.Errorf("Expected configuration error, got: %s", buf.String())
	}
}

// TestDelegatedFileOutput checks the rotating log file is named after the
// application name without its path and is released on Shutdown.
func TestDelegatedFileOutput(t *testing.T) {
	b, buf, _ := newTestDelegated(t)
	dir := filepath.Join(t.TempDir(), "logs")
	s := New(WithBackend(b))
	if err := s.Start("/usr/bin/myapp", InfoSeverity, dir); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	want := dir + "/myapp.log"
	if b.LogFile() != want {
		t.Errorf("Expected log file %q, got %q", want, b.LogFile())
	}
	s.Warning("to file")
	if err := s.Shutdown(); err != nil {
		t.Fatalf("Shutdown returned error: %v", err)
	}
	if b.LogFile() != "" {
		t.Errorf("Expected file output to be off after Shutdown, got %q", b.LogFile())
	}

	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "(/usr/bin/myapp): to file") {
		t.Errorf("Expected record in log file, got: %s", data)
	}
	if !strings.Contains(buf.String(), "to file") {
		t.Errorf("Expected record on console too, got: %s", buf.String())
	}

	buf.Reset()
	s.Warning("after shutdown")
	data, _ = os.ReadFile(want)
	if strings.Contains(string(data), "after shutdown") {
		t.Error("Expected no file output after Shutdown")
	}
	if !strings.Contains(buf.String(), "after shutdown") {
		t.Errorf("Expected console output after Shutdown, got: %s", buf.String())
	}
}

// TestDelegatedDefaultAppTag checks an empty application name yields DefaultApp.log.
func TestDelegatedDefaultAppTag(t *testing.T) {
	b, _, _ := newTestDelegated(t)
	dir := t.TempDir()
	if err := b.Start(Settings{Threshold: InfoSeverity, LogDir: dir}); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer b.Shutdown()
	if want := dir + "/" + DefaultAppName + ".log"; b.LogFile() != want {
		t.Errorf("Expected log file %q, got %q", want, b.LogFile())
	}
}

// TestDelegatedStartFailureKeepsState checks that a log directory which cannot
// be created leaves both the State and the backend as they were.
func TestDelegatedStartFailureKeepsState(t *testing.T) {
	b, buf, exitCode := newTestDelegated(t)
	b.Logger().SetLevel(logrus.DebugLevel)
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	s := New(WithBackend(b))
	if err := s.Start("worker", ErrorSeverity, filepath.Join(blocker, "logs")); err == nil {
		t.Fatal("Expected Start to fail when the log directory is under a regular file")
	}
	if s.Started() {
		t.Error("Expected State not to be started")
	}
	if s.Threshold() != InfoSeverity || s.AppName() != "" {
		t.Errorf("Expected threshold and app name untouched, got %v and %q", s.Threshold(), s.AppName())
	}
	if got := b.Logger().GetLevel(); got != logrus.DebugLevel {
		t.Errorf("Expected logger level to stay debug, got %v", got)
	}
	if b.LogFile() != "" {
		t.Errorf("Expected no log file, got %q", b.LogFile())
	}
	if *exitCode != -1 {
		t.Errorf("Expected no exit, got %d", *exitCode)
	}

	if err := s.Start("worker", ErrorSeverity, ""); err != nil {
		t.Fatalf("Retry of Start returned error: %v", err)
	}
	if s.Threshold() != ErrorSeverity || s.AppName() != "worker" {
		t.Errorf("Unexpected state after retry: threshold=%v app=%q", s.Threshold(), s.AppName())
	}
	s.Error("ready")
	if !strings.Contains(buf.String(), "(worker): ready") {
		t.Errorf("Expected prefixed record after retry, got: %s", buf.String())
	}
}
