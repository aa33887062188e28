// Package logging builds the process logger.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger for a verbosity level: 0 disables logging, 1 keeps
// warnings and errors, 2 adds info and 3 adds debug.
func New(level int) (*zap.Logger, error) {
	if level <= 0 {
		return zap.NewNop(), nil
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel(level))
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

func zapLevel(level int) zapcore.Level {
	switch {
	case level == 1:
		return zapcore.WarnLevel
	case level == 2:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
