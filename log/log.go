// Package log provides the structured logging sink used throughout the
// planner and its HTTP surface: every component logs through here rather
// than fmt.Print*.
package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Level names accepted by Configure.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Format names accepted by Configure.
const (
	FormatText = "text"
	FormatJSON = "json"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Options configures the global logger.
type Options struct {
	Level  string
	Format string
	Output io.Writer
}

// Configure rebuilds the global logger from the given options. Called once
// at process start from the loaded process config.
func Configure(opts Options) {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Format == FormatText {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: true}
	}

	l := zerolog.New(out).With().Timestamp().Logger()
	switch opts.Level {
	case LevelDebug:
		l = l.Level(zerolog.DebugLevel)
	case LevelWarn:
		l = l.Level(zerolog.WarnLevel)
	case LevelError:
		l = l.Level(zerolog.ErrorLevel)
	default:
		l = l.Level(zerolog.InfoLevel)
	}
	logger = l
}

// Debug logs a debug-level event with the given key/value fields.
func Debug(msg string, fields ...interface{}) { event(logger.Debug(), msg, fields) }

// Info logs an info-level event with the given key/value fields.
func Info(msg string, fields ...interface{}) { event(logger.Info(), msg, fields) }

// Warn logs a warn-level event with the given key/value fields.
func Warn(msg string, fields ...interface{}) { event(logger.Warn(), msg, fields) }

// Error logs an error-level event with the given key/value fields.
func Error(msg string, fields ...interface{}) { event(logger.Error(), msg, fields) }

func event(e *zerolog.Event, msg string, fields []interface{}) {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		e = e.Interface(key, fields[i+1])
	}
	e.Msg(msg)
}
