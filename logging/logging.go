package logging

import (
	"go.uber.org/zap"
)

// Logger is the subset of the *zap.Logger used by the engine.
//
// It is abstracted as an interface to allow mocking in tests and to make it
// possible to write a shim for other loggers if necessary.
// A *zap.Logger satisfies it directly.
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
}

type nopLogger struct{}

func (nopLogger) Debug(msg string, fields ...zap.Field) {}
func (nopLogger) Info(msg string, fields ...zap.Field)  {}
func (nopLogger) Warn(msg string, fields ...zap.Field)  {}
func (nopLogger) Error(msg string, fields ...zap.Field) {}

// Nop returns a Logger that discards all messages.
//
// Used as the default logger when no logger is configured.
func Nop() Logger {
	return nopLogger{}
}

// Console returns a Logger writing human readable output to stderr.
//
// Intended for use with the verbose flag, where the transition trace of each
// run is emitted.
func Console() Logger {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return Nop()
	}
	return logger
}
