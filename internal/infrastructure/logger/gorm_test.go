package logger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), logs
}

func traceQuery(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLogger_Trace(t *testing.T) {
	ctx := context.Background()

	t.Run("silent level suppresses everything", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Silent)

		gl.Trace(ctx, time.Now(), traceQuery("SELECT 1", 1), nil)

		assert.Zero(t, logs.Len())
	})

	t.Run("query logs at debug when level is info", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Info)

		gl.Trace(ctx, time.Now(), traceQuery(`SELECT * FROM "customers"`, 3), nil)

		entries := logs.FilterMessage("sql").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
		assert.Equal(t, int64(3), entries[0].ContextMap()["rows"])
	})

	t.Run("errors log with the statement", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Error)

		gl.Trace(ctx, time.Now(), traceQuery("UPDATE customers SET version = 2", 0),
			assert.AnError)

		entries := logs.FilterMessage("sql error").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
		assert.Contains(t, entries[0].ContextMap()["sql"], "UPDATE customers")
	})

	t.Run("record-not-found misses are skipped by default", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Error)

		gl.Trace(ctx, time.Now(), traceQuery("SELECT 1", 0), gormlogger.ErrRecordNotFound)

		assert.Zero(t, logs.Len())
	})

	t.Run("record-not-found logging can be enabled", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Error, WithRecordNotFoundLogging())

		gl.Trace(ctx, time.Now(), traceQuery("SELECT 1", 0), gormlogger.ErrRecordNotFound)

		assert.Equal(t, 1, logs.FilterMessage("sql error").Len())
	})

	t.Run("slow queries warn with the threshold", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Warn, WithSlowThreshold(time.Millisecond))

		gl.Trace(ctx, time.Now().Add(-10*time.Millisecond), traceQuery("SELECT pg_sleep(1)", 0), nil)

		entries := logs.FilterMessage("slow sql").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, time.Millisecond, entries[0].ContextMap()["threshold"])
	})

	t.Run("zero threshold disables slow warnings", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Warn, WithSlowThreshold(0))

		gl.Trace(ctx, time.Now().Add(-time.Second), traceQuery("SELECT 1", 1), nil)

		assert.Zero(t, logs.FilterMessage("slow sql").Len())
	})

	t.Run("request id from context is attached", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Info)

		reqCtx := ContextWithRequestID(ctx, "req-9")
		gl.Trace(reqCtx, time.Now(), traceQuery("SELECT 1", 1), nil)

		entries := logs.FilterMessage("sql").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "req-9", entries[0].ContextMap()["request_id"])
	})
}

func TestGormLogger_LogMode(t *testing.T) {
	gl, logs := newObservedGormLogger(gormlogger.Silent)

	quiet := gl
	loud := gl.LogMode(gormlogger.Info)

	loud.Info(context.Background(), "migrations applied")
	quiet.Info(context.Background(), "never seen")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "migrations applied", logs.All()[0].Message)
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("info"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("anything else"))
}
