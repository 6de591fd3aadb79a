package logger

import (
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"codeberg.org/mutker/pistatus/internal/errors"
	"github.com/rs/zerolog"
)

var log zerolog.Logger = zerolog.Nop()

type LogLevel int8

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

type LogEvent struct {
	*zerolog.Event
}

func (e *LogEvent) Msg(msg string) {
	e.Event.Msg(msg)
}

func (e *LogEvent) Send() {
	e.Event.Send()
}

// Init initializes the logger for the given level name
func Init(level string, isService bool) {
	InitWriter(os.Stdout, level, isService)
}

// InitWriter initializes the logger writing to out
func InitWriter(out io.Writer, level string, isService bool) {
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}

	if isService {
		output.TimeFormat = ""
		output.FormatTimestamp = func(_ interface{}) string {
			return ""
		}
	}

	log = zerolog.New(output).With().Timestamp().Logger()

	SetLogLevel(ParseLevel(level))
}

// ParseLevel maps a configuration level name to a LogLevel, defaulting to info
func ParseLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// SetLogLevel sets the global log level
func SetLogLevel(level LogLevel) {
	zerolog.SetGlobalLevel(zerolog.Level(level))
}

// IsService checks if the application is running as a service
func IsService() bool {
	if _, err := os.Stdin.Stat(); err != nil {
		return true
	}
	if os.Getenv("SERVICE_NAME") != "" || os.Getenv("INVOCATION_ID") != "" {
		return true
	}
	if os.Getppid() == 1 {
		return true
	}

	return syscall.Getpgrp() == syscall.Getpid()
}

// Debug logs a debug message
func Debug() *LogEvent {
	return &LogEvent{log.Debug()}
}

// Info logs an info message
func Info() *LogEvent {
	return &LogEvent{log.Info()}
}

// Warn logs a warning message
func Warn() *LogEvent {
	return &LogEvent{log.Warn()}
}

// Error logs an error message
func Error() *LogEvent {
	return &LogEvent{log.Error()}
}

// ErrorWithCode logs an error message with a specific error code
func ErrorWithCode(err errors.Error) *LogEvent {
	return withCode(log.Error(), err)
}

func withCode(e *zerolog.Event, err errors.Error) *LogEvent {
	e = e.Str("error_code", string(err.Code())).
		Str("error_message", err.Error()).
		AnErr("error", err.Unwrap())
	if data := err.GetData(); data != nil {
		e = e.Interface("data", data)
	}

	return &LogEvent{e}
}

type global struct{}

// Default returns a Logger backed by the package-level logger
func Default() Logger {
	return global{}
}

func (global) Debug() *LogEvent                         { return Debug() }
func (global) Info() *LogEvent                          { return Info() }
func (global) Warn() *LogEvent                          { return Warn() }
func (global) Error() *LogEvent                         { return Error() }
func (global) ErrorWithCode(err errors.Error) *LogEvent { return ErrorWithCode(err) }

type wrapped struct {
	zl zerolog.Logger
}

// New returns a Logger writing to the given zerolog logger. Used by tests
// and components that need a logger independent of the global one.
func New(zl zerolog.Logger) Logger {
	return &wrapped{zl: zl}
}

// Nop returns a Logger that discards everything
func Nop() Logger {
	return New(zerolog.Nop())
}

func (w *wrapped) Debug() *LogEvent { return &LogEvent{w.zl.Debug()} }
func (w *wrapped) Info() *LogEvent  { return &LogEvent{w.zl.Info()} }
func (w *wrapped) Warn() *LogEvent  { return &LogEvent{w.zl.Warn()} }
func (w *wrapped) Error() *LogEvent { return &LogEvent{w.zl.Error()} }

func (w *wrapped) ErrorWithCode(err errors.Error) *LogEvent {
	return withCode(w.zl.Error(), err)
}
