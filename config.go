package loggate

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// Backend names accepted by Config.Backend and LOGGATE_BACKEND.
const (
	ConsoleBackendName   = "console"
	DelegatedBackendName = "delegated"
)

// Config is the environment driven configuration of a State.
//
// Supported environment variables:
//   - LOGGATE_APP: application name (default: os.Args[0])
//   - LOGGATE_LEVEL: debug, info, warning, error or fatal (default: info)
//   - DEBUG: 1, true, yes or on forces the debug level
//   - LOGGATE_DIR: log directory; empty disables file output
//   - LOGGATE_BACKEND: console or delegated (default: console)
//
// Output is not read from the environment; nil means os.Stderr.
type Config struct {
	AppName   string
	Threshold Severity
	LogDir    string
	Backend   string
	Output    io.Writer
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppName:   getEnv("LOGGATE_APP", os.Args[0]),
		Threshold: InfoSeverity,
		LogDir:    os.Getenv("LOGGATE_DIR"),
		Backend:   strings.ToLower(getEnv("LOGGATE_BACKEND", ConsoleBackendName)),
	}
	if level := os.Getenv("LOGGATE_LEVEL"); level != "" {
		threshold, err := ParseSeverity(level)
		if err != nil {
			return nil, errors.Wrap(err, "LOGGATE_LEVEL")
		}
		cfg.Threshold = threshold
	}
	if getEnvBool("DEBUG", false) {
		cfg.Threshold = DebugSeverity
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the backend name and the threshold.
func (c *Config) Validate() error {
	switch c.Backend {
	case ConsoleBackendName, DelegatedBackendName:
	default:
		return errors.Errorf("loggate: unknown backend %q", c.Backend)
	}
	if !c.Threshold.Valid() {
		return errors.Errorf("loggate: invalid threshold %d", int(c.Threshold))
	}
	return nil
}

// NewBackend builds the backend named by the configuration, writing to c.Output.
// The delegated backend uses a text formatter with full timestamps, coloured only
// when the output is a terminal.
func (c *Config) NewBackend() Backend {
	w := c.Output
	if w == nil {
		w = os.Stderr
	}
	if c.Backend != DelegatedBackendName {
		return NewConsoleBackend(w)
	}
	logger := logrus.New()
	logger.SetOutput(w)
	return NewDelegatedBackend(
		WithLogrusLogger(logger),
		WithFormatter(&logrus.TextFormatter{
			DisableColors: !isTerminal(w),
			FullTimestamp: true,
		}),
	)
}

// NewState creates a State using the configured backend, then starts it.
// Extra options are applied after the backend selection and may override it.
func (c *Config) NewState(opts ...Option) (*State, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	s := New(append([]Option{WithBackend(c.NewBackend())}, opts...)...)
	if err := s.Start(c.AppName, c.Threshold, c.LogDir); err != nil {
		return nil, err
	}
	return s, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return defaultValue
	}
}
