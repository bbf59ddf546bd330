package shared

import (
	"go.uber.org/zap"
)

// Logger is the logging interface consumed by the packing layers.
// It decouples them from any concrete logging backend.
type Logger interface {
	Info(format string, args ...any)
	Debug(format string, args ...any)
	Warning(format string, args ...any)
	Error(format string, args ...any)
}

type NoopLogger struct{}

func (NoopLogger) Info(string, ...any)    {}
func (NoopLogger) Debug(string, ...any)   {}
func (NoopLogger) Warning(string, ...any) {}
func (NoopLogger) Error(string, ...any)   {}

// ZapLogger adapts a zap.SugaredLogger to the Logger interface.
type ZapLogger struct {
	Log *zap.SugaredLogger
}

func (l ZapLogger) Info(format string, args ...any)    { l.Log.Infof(format, args...) }
func (l ZapLogger) Debug(format string, args ...any)   { l.Log.Debugf(format, args...) }
func (l ZapLogger) Warning(format string, args ...any) { l.Log.Warnf(format, args...) }
func (l ZapLogger) Error(format string, args ...any)   { l.Log.Errorf(format, args...) }
