package ptr

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the ptr package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the ptr package's logger.
// This must be called before any handle is constructed.
func SetLogger(l *zap.Logger) {
	logger = l
}

// trace logs a lifecycle transition without building fields when debug is off.
func trace(msg string, t *tracking, count int) {
	if ce := Logger().Check(zapcore.DebugLevel, msg); ce != nil {
		ce.Write(
			zap.String("type", t.name),
			zap.Uint32("handle", uint32(t.handle)),
			zap.Int("count", count),
		)
	}
}
