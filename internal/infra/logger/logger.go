package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jhahn/go-otp/pkg/oath"
)

// New returns a zap.Logger configured for structured logging. Development
// environments get colored console output; verbose enables the debug level
// either way.
func New(env string, verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if env != "production" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	return cfg.Build()
}

// TraceSink adapts a logger into a sink for the generators' step-by-step
// trace events. Events are emitted at the debug level.
func TraceSink(l *zap.Logger) oath.TraceSink {
	return oath.TraceFunc(l.Sugar().Debugf)
}

// MaskSecret masks a shared secret for logging, showing the first and last
// 2 characters with *** in between.
// Example: "JBSWY3DPEHPK3PXP" -> "JB***XP"
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}

	length := len(s)
	if length <= 4 {
		return "***"
	}

	return s[:2] + "***" + s[length-2:]
}
