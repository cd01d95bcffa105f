package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("json logger to stdout", func(t *testing.T) {
		log, err := New(&Config{Level: "info", Format: "json", Output: "stdout"})
		require.NoError(t, err)
		require.NotNil(t, log)
		assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("console logger at debug", func(t *testing.T) {
		log, err := New(&Config{Level: "debug", Format: "console", Output: "stderr"})
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("file output is created and written", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "backend.log")

		log, err := New(&Config{Level: "info", Format: "json", Output: path})
		require.NoError(t, err)

		log.Info("mill started")
		require.NoError(t, Sync(log))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "mill started")
	})

	t.Run("unwritable file output fails", func(t *testing.T) {
		_, err := New(&Config{Level: "info", Format: "json", Output: t.TempDir()})
		assert.Error(t, err)
	})

	t.Run("empty output defaults to stdout", func(t *testing.T) {
		log, err := New(&Config{Level: "warn", Format: "json"})
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
		assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"WARN", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"verbose", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), "level %q", tt.in)
	}
}
