package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobvault/jobvault/internal/config"
)

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, config.LogFormatJSON, "INFO")

	logger.Info("server started", "port", 8080)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "server started", entry["msg"])
	assert.Equal(t, float64(8080), entry["port"])
}

func TestNewWithWriterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, config.LogFormatJSON, "ERROR")

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Error("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNewWithWriterPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, config.LogFormatPretty, "DEBUG")

	logger.Debug("detail", "key", "value")

	out := buf.String()
	assert.Contains(t, out, "detail")
	assert.Contains(t, out, "key")
	assert.False(t, json.Valid(buf.Bytes()))
}

func TestTerminalHandlerGroupsPrefixKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, config.LogFormatPretty, "INFO").
		WithGroup("db").With("driver", "sqlite")

	logger.Info("connected")

	assert.Contains(t, buf.String(), "db.driver=")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"DEBUG", "DEBUG"},
		{"warn", "WARN"},
		{"WARNING", "WARN"},
		{"error", "ERROR"},
		{"", "INFO"},
		{"bogus", "INFO"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in).String(), "input %q", tt.in)
	}
}
