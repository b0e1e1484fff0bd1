package satlog

import "testing"

func TestNewDoesNotPanicAcrossLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus"} {
		l := New(level)
		l.Debug("debug message", "k", "v")
		l.Info("info message", "n", 1)
		l.Warn("warn message")
		l.Error("error message", "err", "boom")
	}
}

func TestNoOpLoggerIsSilent(t *testing.T) {
	var l Logger = NoOpLogger{}
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x")
}
