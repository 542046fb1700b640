package loggate

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DelegatedBackend forwards records to a logrus logger. Level filtering of the
// records that reach it, fatal termination and output formatting are the
// logger's business; the backend only maps severities and prefixes each
// message with the application name.
type DelegatedBackend struct {
	logger   *logrus.Logger
	stderr   io.Writer
	file     *lumberjack.Logger
	rotation Rotation
	appName  string
	signals  sync.Once
}

// Rotation holds the lumberjack settings of the log file written under the log directory.
type Rotation struct {
	MaxSizeMB  int  // Size in megabytes before the file is rotated.
	MaxBackups int  // Number of rotated files to keep; 0 keeps all.
	MaxAgeDays int  // Days to keep rotated files; 0 disables age based removal.
	Compress   bool // Gzip rotated files.
}

// DelegatedOption configures a DelegatedBackend.
type DelegatedOption func(*DelegatedBackend)

// NewDelegatedBackend creates a backend forwarding to a new logrus logger that
// writes text to os.Stderr.
func NewDelegatedBackend(opts ...DelegatedOption) *DelegatedBackend {
	b := &DelegatedBackend{
		logger: logrus.New(),
		rotation: Rotation{
			MaxSizeMB:  100,
			MaxBackups: 5,
		},
	}
	for _, opt := range opts {
		opt(b)
	}
	b.stderr = b.logger.Out
	return b
}

// WithLogrusLogger returns a DelegatedOption forwarding to an existing logger.
// Its current output is kept as the console output of the backend.
func WithLogrusLogger(l *logrus.Logger) DelegatedOption {
	return func(b *DelegatedBackend) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithFormatter returns a DelegatedOption setting the logrus formatter.
func WithFormatter(f logrus.Formatter) DelegatedOption {
	return func(b *DelegatedBackend) {
		if f != nil {
			b.logger.SetFormatter(f)
		}
	}
}

// WithRotation returns a DelegatedOption overriding the log file rotation settings.
func WithRotation(r Rotation) DelegatedOption {
	return func(b *DelegatedBackend) {
		b.rotation = r
	}
}

// Logger returns the logrus logger records are forwarded to.
func (b *DelegatedBackend) Logger() *logrus.Logger {
	return b.logger
}

// LogFile returns the path of the rotating log file, or "" when file output is off.
func (b *DelegatedBackend) LogFile() string {
	if b.file == nil {
		return ""
	}
	return b.file.Filename
}

// Name implements Backend.
func (b *DelegatedBackend) Name() string {
	return "delegated"
}

// Start implements Backend. It sets the logger level from the threshold and,
// when settings.LogDir is not empty, duplicates the output into
// "<LogDir>/<tag>.log" where tag is the application name without its path.
// On error the backend keeps its previous level, name and output.
func (b *DelegatedBackend) Start(settings Settings) error {
	level := b.levelFor(settings.Threshold)
	var file *lumberjack.Logger
	if settings.LogDir != "" {
		dir := withTrailingSeparator(settings.LogDir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create log directory")
		}
		file = &lumberjack.Logger{
			Filename:   dir + logFileTag(settings.AppName) + ".log",
			MaxSize:    b.rotation.MaxSizeMB,
			MaxBackups: b.rotation.MaxBackups,
			MaxAge:     b.rotation.MaxAgeDays,
			Compress:   b.rotation.Compress,
		}
	}
	b.appName = settings.AppName
	b.logger.SetLevel(level)
	if file != nil {
		b.file = file
		b.logger.SetOutput(io.MultiWriter(b.stderr, b.file))
	}
	return nil
}

// Shutdown implements Backend. It closes the log file and restores console-only output.
func (b *DelegatedBackend) Shutdown() error {
	if b.file == nil {
		return nil
	}
	err := b.file.Close()
	b.file = nil
	b.logger.SetOutput(b.stderr)
	return errors.Wrap(err, "close log file")
}

// Open implements Backend. The message starts with the "(<app_name>): " prefix
// and carries the call site as fields.
func (b *DelegatedBackend) Open(origin Origin) Sink {
	s := &delegatedSink{
		entry: b.logger.WithFields(logrus.Fields{
			"file": origin.File,
			"line": origin.Line,
		}),
		level: b.levelFor(origin.Severity),
	}
	s.buf.WriteString("(" + b.appName + "): ")
	return s
}

// levelFor maps a severity onto logrus. An unknown severity is a configuration
// error: it is reported at FATAL, which ends the process through the logger.
func (b *DelegatedBackend) levelFor(s Severity) logrus.Level {
	level, err := mapSeverity(s)
	if err != nil {
		b.logger.Fatal(err.Error())
		return logrus.FatalLevel
	}
	return level
}

// mapSeverity maps DEBUG and INFO onto the informational level; logrus' own
// debug level is never used.
func mapSeverity(s Severity) (logrus.Level, error) {
	switch s {
	case DebugSeverity, InfoSeverity:
		return logrus.InfoLevel, nil
	case WarningSeverity:
		return logrus.WarnLevel, nil
	case ErrorSeverity:
		return logrus.ErrorLevel, nil
	case FatalSeverity:
		return logrus.FatalLevel, nil
	default:
		return logrus.FatalLevel, errors.Errorf("Unsupported logging level: %d", int(s))
	}
}

// logFileTag strips the directory part of an application name. An empty name
// yields DefaultAppName; a name ending with a separator is kept as is.
func logFileTag(appName string) string {
	if appName == "" {
		return DefaultAppName
	}
	if pos := strings.LastIndex(appName, "/"); pos >= 0 && pos+1 < len(appName) {
		return appName[pos+1:]
	}
	return appName
}

func withTrailingSeparator(dir string) string {
	if strings.HasSuffix(dir, "/") {
		return dir
	}
	return dir + "/"
}

// delegatedSink accumulates one message and hands it to logrus on Close.
type delegatedSink struct {
	entry *logrus.Entry
	level logrus.Level
	buf   bytes.Buffer
}

func (s *delegatedSink) Write(v ...interface{}) {
	for _, x := range v {
		fmt.Fprint(&s.buf, x)
	}
}

func (s *delegatedSink) Close() {
	if s.level == logrus.FatalLevel {
		s.entry.Fatal(s.buf.String())
		return
	}
	s.entry.Log(s.level, s.buf.String())
}
