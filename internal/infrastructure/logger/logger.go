// Package logger builds the zap loggers used across the backend and the
// adapters that plug them into gin and gorm.
package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config mirrors the log section of the runtime configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json or console
	Output string // stdout, stderr, or a file path
}

// New builds a zap logger from the configuration. Unknown levels fall
// back to info; a file output that cannot be opened is an error.
func New(cfg *Config) (*zap.Logger, error) {
	sink, err := openSink(cfg.Output)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(newEncoder(cfg.Format), sink, parseLevel(cfg.Level))
	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	), nil
}

// Sync flushes buffered entries. Syncing stdout fails on some platforms,
// so callers typically discard the error on shutdown.
func Sync(l *zap.Logger) error {
	return l.Sync()
}

func parseLevel(s string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

func newEncoder(format string) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "time"
	ec.MessageKey = "msg"
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.EncodeDuration = zapcore.MillisDurationEncoder

	if strings.EqualFold(format, "console") {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(ec)
	}
	return zapcore.NewJSONEncoder(ec)
}

func openSink(output string) (zapcore.WriteSyncer, error) {
	switch strings.ToLower(output) {
	case "", "stdout":
		return zapcore.AddSync(os.Stdout), nil
	case "stderr":
		return zapcore.AddSync(os.Stderr), nil
	default:
		f, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", output, err)
		}
		return zapcore.AddSync(f), nil
	}
}
