package loggate

// Predefined severity levels, ordered by increasing criticality.
const (
	// DebugSeverity represents development diagnostics. The console backend
	// accepts DEBUG records but never prints their content.
	DebugSeverity Severity = iota - 1

	// InfoSeverity indicates normal operational messages. It is the default threshold.
	InfoSeverity

	// WarningSeverity signifies potential issues that don't disrupt core functionality
	WarningSeverity

	// ErrorSeverity denotes failures in specific operations or components
	ErrorSeverity

	// FatalSeverity is always enabled and terminates the process once the record is closed
	FatalSeverity
)

// DefaultAppName is the log file tag used when Start receives an empty application name.
const DefaultAppName = "DefaultApp"

// Default is the package-level State used by the package functions.
// It writes to os.Stderr through the console backend until Start is called
// on it with different settings.
var Default = New()
