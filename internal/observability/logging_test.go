package observability

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/tetracube/internal/config"
)

func TestNewLogger_Formats(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		t.Run(format, func(t *testing.T) {
			logger, err := NewLogger(config.LoggingConfig{Level: "info", Format: format}, &bytes.Buffer{})
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger(config.LoggingConfig{Level: "trace", Format: "json"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestNewLogger_InvalidFormat(t *testing.T) {
	_, err := NewLogger(config.LoggingConfig{Level: "info", Format: "xml"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestNewLogger_AllLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		var buf bytes.Buffer
		logger, err := NewLogger(config.LoggingConfig{Level: level, Format: "json"}, &buf)
		require.NoError(t, err, "level %q should be valid", level)
		logger.Error("always written")
		assert.Contains(t, buf.String(), "always written")
	}
}

func TestNewLogger_JSONEntry(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("imported creature")
	require.NoError(t, logger.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1, "debug entry must be filtered at info")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "imported creature", entry["msg"])
	assert.Equal(t, "tetracube", entry["logger"])
	ts, ok := entry["ts"].(string)
	require.True(t, ok, "ISO8601 timestamps are strings")
	assert.Contains(t, ts, "T")
}

func TestNewLogger_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "debug", Format: "console"}, &buf)
	require.NoError(t, err)

	logger.Debug("dice roll")
	assert.Contains(t, buf.String(), "DEBUG")
	assert.Contains(t, buf.String(), "dice roll")
}
