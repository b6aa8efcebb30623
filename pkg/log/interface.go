package log

import "context"

// Logger is the structured logger used across the detector.
// Implementations are safe for concurrent use.
type Logger interface {
	Debug(ctx context.Context, arg ...any)
	Debugf(ctx context.Context, template string, arg ...any)
	Info(ctx context.Context, arg ...any)
	Infof(ctx context.Context, template string, arg ...any)
	Warn(ctx context.Context, arg ...any)
	Warnf(ctx context.Context, template string, arg ...any)
	Error(ctx context.Context, arg ...any)
	Errorf(ctx context.Context, template string, arg ...any)
	Fatal(ctx context.Context, arg ...any)
	Fatalf(ctx context.Context, template string, arg ...any)

	// With returns a child logger that adds the given key/value pairs to every entry.
	With(keysAndValues ...any) Logger
}

// Init builds a Logger from the provided Zap configuration.
func Init(cfg ZapConfig) Logger {
	logger := &zapLogger{cfg: &cfg}
	logger.init()
	return logger
}

// NewNop returns a Logger that discards everything. Used by tests.
func NewNop() Logger {
	return &zapLogger{cfg: &ZapConfig{}, sugarLogger: zapNop()}
}

// WithContext stores l in ctx so that calls made with the returned context
// carry l's fields (for example the run id).
func WithContext(ctx context.Context, l Logger) context.Context {
	if zl, ok := l.(*zapLogger); ok {
		return context.WithValue(ctx, loggerKey{}, zl.sugarLogger)
	}
	return ctx
}
