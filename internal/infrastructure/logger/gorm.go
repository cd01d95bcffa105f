package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

const defaultSlowThreshold = 200 * time.Millisecond

// GormLogger routes gorm's trace output through zap.
type GormLogger struct {
	log          *zap.Logger
	level        gormlogger.LogLevel
	slow         time.Duration
	skipNotFound bool
}

// GormLoggerOption adjusts a GormLogger at construction time.
type GormLoggerOption func(*GormLogger)

// WithSlowThreshold overrides the slow-query threshold. Zero disables
// slow-query warnings.
func WithSlowThreshold(d time.Duration) GormLoggerOption {
	return func(l *GormLogger) { l.slow = d }
}

// WithRecordNotFoundLogging also traces queries that end in
// gorm.ErrRecordNotFound. Those are expected lookup misses, so they are
// skipped by default.
func WithRecordNotFoundLogging() GormLoggerOption {
	return func(l *GormLogger) { l.skipNotFound = false }
}

// NewGormLogger builds a gorm logger writing through zap under the
// "gorm" name.
func NewGormLogger(log *zap.Logger, level gormlogger.LogLevel, opts ...GormLoggerOption) *GormLogger {
	gl := &GormLogger{
		log:          log.Named("gorm"),
		level:        level,
		slow:         defaultSlowThreshold,
		skipNotFound: true,
	}
	for _, opt := range opts {
		opt(gl)
	}
	return gl
}

// LogMode implements gormlogger.Interface.
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

// Info implements gormlogger.Interface.
func (l *GormLogger) Info(_ context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Info {
		l.log.Sugar().Infof(msg, args...)
	}
}

// Warn implements gormlogger.Interface.
func (l *GormLogger) Warn(_ context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Warn {
		l.log.Sugar().Warnf(msg, args...)
	}
}

// Error implements gormlogger.Interface.
func (l *GormLogger) Error(_ context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Error {
		l.log.Sugar().Errorf(msg, args...)
	}
}

// Trace logs each statement with its latency and row count, tagged with
// the request id when one is on the context.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}
	if id := RequestIDFromContext(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}

	switch {
	case err != nil && l.level >= gormlogger.Error:
		if l.skipNotFound && errors.Is(err, gormlogger.ErrRecordNotFound) {
			return
		}
		l.log.Error("sql error", append(fields, zap.Error(err))...)
	case l.slow > 0 && elapsed >= l.slow && l.level >= gormlogger.Warn:
		l.log.Warn("slow sql", append(fields, zap.Duration("threshold", l.slow))...)
	case l.level >= gormlogger.Info:
		l.log.Debug("sql", fields...)
	}
}

// MapGormLogLevel translates the application log level into gorm's.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
