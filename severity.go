package loggate

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// String returns the upper-case name of the severity.
func (s Severity) String() string {
	switch s {
	case DebugSeverity:
		return "DEBUG"
	case InfoSeverity:
		return "INFO"
	case WarningSeverity:
		return "WARNING"
	case ErrorSeverity:
		return "ERROR"
	case FatalSeverity:
		return "FATAL"
	default:
		return "UNKNOWN(" + strconv.Itoa(int(s)) + ")"
	}
}

// Valid reports whether s is one of the five predefined severities.
func (s Severity) Valid() bool {
	return s >= DebugSeverity && s <= FatalSeverity
}

// ParseSeverity converts a case-insensitive severity name into a Severity.
// Besides the canonical names it accepts "warn" and "err".
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return DebugSeverity, nil
	case "info":
		return InfoSeverity, nil
	case "warning", "warn":
		return WarningSeverity, nil
	case "error", "err":
		return ErrorSeverity, nil
	case "fatal":
		return FatalSeverity, nil
	default:
		return InfoSeverity, errors.Errorf("loggate: unknown severity %q", name)
	}
}

// isEnabled is the severity gate. FATAL passes whatever the threshold is.
func isEnabled(severity, threshold Severity) bool {
	return severity >= threshold || severity == FatalSeverity
}
