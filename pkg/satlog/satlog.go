// Package satlog provides the structured logger used throughout the
// satellite. It exposes a small Logger interface backed by zerolog, with
// level filtering that matches original_source/log.py's ordered-level
// semantics.
package satlog

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger is the structured-logging contract the rest of the tree depends on.
type Logger interface {
	Debug(msg string, kv ...interface{})
	Info(msg string, kv ...interface{})
	Warn(msg string, kv ...interface{})
	Error(msg string, kv ...interface{})
}

// NoOpLogger discards everything; useful in tests.
type NoOpLogger struct{}

func (NoOpLogger) Debug(string, ...interface{}) {}
func (NoOpLogger) Info(string, ...interface{})  {}
func (NoOpLogger) Warn(string, ...interface{})  {}
func (NoOpLogger) Error(string, ...interface{}) {}

var levelOrder = map[string]zerolog.Level{
	"error": zerolog.ErrorLevel,
	"warn":  zerolog.WarnLevel,
	"info":  zerolog.InfoLevel,
	"debug": zerolog.DebugLevel,
}

// zlogger writes info/debug to stdout and warn/error to stderr, following
// log.py's stream split; a single zerolog.Logger per stream enforces the
// configured minimum level.
type zlogger struct {
	out zerolog.Logger
	err zerolog.Logger
}

// New builds a Logger at the given level ("error"|"warn"|"info"|"debug",
// defaulting to "info" for unrecognized values).
func New(level string) Logger {
	lvl, ok := levelOrder[level]
	if !ok {
		lvl = zerolog.InfoLevel
	}
	return &zlogger{
		out: zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger(),
		err: zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger(),
	}
}

func fields(e *zerolog.Event, kv []interface{}) *zerolog.Event {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		e = e.Interface(key, kv[i+1])
	}
	return e
}

func (l *zlogger) Debug(msg string, kv ...interface{}) { fields(l.out.Debug(), kv).Msg(msg) }
func (l *zlogger) Info(msg string, kv ...interface{})  { fields(l.out.Info(), kv).Msg(msg) }
func (l *zlogger) Warn(msg string, kv ...interface{})  { fields(l.err.Warn(), kv).Msg(msg) }
func (l *zlogger) Error(msg string, kv ...interface{}) { fields(l.err.Error(), kv).Msg(msg) }
