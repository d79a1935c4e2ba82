package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter("info", FormatJSON, &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("filter applied", zap.String("slot", "output"), zap.Int("samples", 10))
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "filter applied", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "output", entry["slot"])
	assert.EqualValues(t, 10, entry["samples"])
	assert.Contains(t, entry, "timestamp")
}

func TestNewWithWriter_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter("DEBUG", "", &buf)
	require.NoError(t, err)

	logger.Debug("loaded", zap.Int("rate", 44100))
	assert.Contains(t, buf.String(), "DEBUG")
	assert.Contains(t, buf.String(), "loaded")
	assert.Contains(t, buf.String(), `"rate": 44100`)
}

func TestNew_Invalid(t *testing.T) {
	_, err := New("loud", FormatJSON)
	require.Error(t, err)

	_, err = New("info", "xml")
	require.ErrorIs(t, err, ErrInvalidFormat)
}
