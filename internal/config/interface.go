package config

import "fmt"

// LogLevel represents valid logging levels
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

// IsValid returns whether the log level is valid
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
		return true
	default:
		return false
	}
}

// String implements the Stringer interface
func (l LogLevel) String() string {
	return string(l)
}

// UpdateMode selects how the e-paper panel is refreshed after a frame is written
type UpdateMode string

const (
	UpdateFull    UpdateMode = "full"
	UpdateFast    UpdateMode = "fast"
	UpdatePartial UpdateMode = "partial"
)

func (m UpdateMode) IsValid() bool {
	switch m {
	case UpdateFull, UpdateFast, UpdatePartial:
		return true
	default:
		return false
	}
}

// Display driver names
const (
	DriverPapirus = "papirus"
	DriverPNG     = "png"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s=%v: %s", e.Field, e.Value, e.Reason)
}
