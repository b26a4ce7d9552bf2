package telemetry

import (
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogCore returns a zap core that forwards entries to the OpenTelemetry log pipeline,
// or a no-op core when telemetry is disabled
func (t *Telemetry) LogCore() zapcore.Core {
	if t.logs == nil {
		return zapcore.NewNopCore()
	}
	return otelzap.NewCore(t.cfg.ServiceName, otelzap.WithLoggerProvider(t.logs))
}

// Bridge tees logger into the OpenTelemetry log pipeline
func (t *Telemetry) Bridge(logger *zap.Logger) *zap.Logger {
	if t.logs == nil {
		return logger
	}
	core := t.LogCore()
	return logger.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, core)
	}))
}
