package logger

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/user/camsnap/pkg/ports"
)

// ZerologLogger logs structured JSON lines via zerolog. Intended for
// service deployments where logs are collected rather than read on a
// terminal; the console logger is the interactive counterpart.
type ZerologLogger struct {
	zl zerolog.Logger
}

// NewZerolog creates a zerolog-backed logger writing to w at the
// specified level.
func NewZerolog(w io.Writer, level ports.LogLevel) *ZerologLogger {
	zl := zerolog.New(w).With().Timestamp().Logger().Level(zerologLevel(level))
	return &ZerologLogger{zl: zl}
}

func zerologLevel(level ports.LogLevel) zerolog.Level {
	switch level {
	case ports.LevelDebug:
		return zerolog.DebugLevel
	case ports.LevelInfo:
		return zerolog.InfoLevel
	case ports.LevelWarn:
		return zerolog.WarnLevel
	case ports.LevelError:
		return zerolog.ErrorLevel
	case ports.LevelQuiet:
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Debug logs a debug message.
func (l *ZerologLogger) Debug(msg string, args ...interface{}) {
	l.zl.Debug().Msgf(msg, args...)
}

// Info logs an informational message.
func (l *ZerologLogger) Info(msg string, args ...interface{}) {
	l.zl.Info().Msgf(msg, args...)
}

// Warn logs a warning message.
func (l *ZerologLogger) Warn(msg string, args ...interface{}) {
	l.zl.Warn().Msgf(msg, args...)
}

// Error logs an error message.
func (l *ZerologLogger) Error(msg string, args ...interface{}) {
	l.zl.Error().Msgf(msg, args...)
}

// WithComponent returns a logger tagging every line with the component.
func (l *ZerologLogger) WithComponent(component string) ports.Logger {
	return &ZerologLogger{zl: l.zl.With().Str("component", component).Logger()}
}

// Ensure ZerologLogger implements ports.Logger
var _ ports.Logger = (*ZerologLogger)(nil)
