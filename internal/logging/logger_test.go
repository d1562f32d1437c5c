package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewWithWriter(t *testing.T) {
	t.Run("json with iso8601 ts", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := NewWithWriter("info", FormatJSON, &buf)
		require.NoError(t, err)

		logger.Info("fit completed", zap.Int("samples", 4))
		require.NoError(t, logger.Sync())

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		require.Equal(t, "fit completed", entry["msg"])
		require.Equal(t, "info", entry["level"])
		require.EqualValues(t, 4, entry["samples"])
		ts, ok := entry["ts"].(string)
		require.True(t, ok)
		require.Contains(t, ts, "T")
	})

	t.Run("console", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := NewWithWriter("debug", FormatConsole, &buf)
		require.NoError(t, err)

		logger.Debug("discriminator trained")
		require.True(t, strings.Contains(buf.String(), "discriminator trained"))
	})

	t.Run("level filters entries", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := NewWithWriter("warn", FormatJSON, &buf)
		require.NoError(t, err)

		logger.Info("hidden")
		require.Zero(t, buf.Len())
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := NewWithWriter("info", "xml", &bytes.Buffer{})
		require.Error(t, err)
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := NewWithWriter("loud", FormatJSON, &bytes.Buffer{})
		require.Error(t, err)
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, got, tt.in)
	}
}

func TestValidFormat(t *testing.T) {
	require.True(t, ValidFormat(FormatJSON))
	require.True(t, ValidFormat(FormatConsole))
	require.False(t, ValidFormat("text"))
}
