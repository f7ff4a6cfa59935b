// Package reporting provides concrete implementations of internal/core's
// Logger, dot-graph output, and run/trace persistence: the same role the
// teacher's internal/production package plays for its core interfaces,
// built on zap and stdlib file/JSON handling instead of reinventing them.
package reporting

import "go.uber.org/zap"

// ZapLogger adapts a *zap.SugaredLogger to core.Logger.
type ZapLogger struct {
	s *zap.SugaredLogger
}

// NewZapLogger wraps an existing sugared logger.
func NewZapLogger(s *zap.SugaredLogger) *ZapLogger {
	return &ZapLogger{s: s}
}

// NewProductionLogger builds a ZapLogger from zap's production config,
// sampling disabled since exploration runs log at high, bursty volume and
// dropping entries would corrupt trace reconstruction.
func NewProductionLogger() (*ZapLogger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Sampling = nil
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(logger.Sugar()), nil
}

// NewDevelopmentLogger builds a ZapLogger in human-readable console form,
// for use from the mcrun CLI's -v flag.
func NewDevelopmentLogger() (*ZapLogger, error) {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(logger.Sugar()), nil
}

func (l *ZapLogger) Debugw(msg string, keysAndValues ...any) { l.s.Debugw(msg, keysAndValues...) }
func (l *ZapLogger) Infow(msg string, keysAndValues ...any)  { l.s.Infow(msg, keysAndValues...) }
func (l *ZapLogger) Warnw(msg string, keysAndValues ...any)  { l.s.Warnw(msg, keysAndValues...) }
func (l *ZapLogger) Errorw(msg string, keysAndValues ...any) { l.s.Errorw(msg, keysAndValues...) }

// Sync flushes buffered log entries. Callers should defer Sync after
// constructing a logger via NewProductionLogger/NewDevelopmentLogger.
func (l *ZapLogger) Sync() error { return l.s.Sync() }
