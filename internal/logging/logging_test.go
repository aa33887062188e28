package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	cases := map[int]zapcore.Level{
		1: zapcore.WarnLevel,
		2: zapcore.InfoLevel,
		3: zapcore.DebugLevel,
	}
	for level, want := range cases {
		logger, err := New(level)
		if err != nil {
			t.Fatalf("level %d: %v", level, err)
		}
		if !logger.Core().Enabled(want) {
			t.Fatalf("level %d: expected %s enabled", level, want)
		}
		if want > zapcore.DebugLevel && logger.Core().Enabled(want-1) {
			t.Fatalf("level %d: expected %s disabled", level, want-1)
		}
	}
}

func TestNewDisabled(t *testing.T) {
	logger, err := New(0)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Fatal("expected a no-op logger")
	}
}
