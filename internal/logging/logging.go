package logging

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

// New builds the process-wide logger. The level string follows the usual
// names (debug, info, warn, error); empty means info.
func New(level string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if v := strings.TrimSpace(level); v != "" {
		parsed, err := zapcore.ParseLevel(strings.ToLower(v))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", v, err)
		}
		lvl = parsed
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// WithLogger stores a request-scoped logger in the context. The value dies
// with the context, so a later request on the same goroutine can never see it.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the request-scoped logger, or a no-op logger when the
// context carries none (tests, background work).
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return zap.NewNop()
}
