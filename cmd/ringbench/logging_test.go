package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLoggerJSON(t *testing.T) {
	var out bytes.Buffer
	logger := setupLogger(&out, "warn", "json")

	logger.Info("dropped")
	assert.Zero(t, out.Len(), "info is below warn")

	logger.Warn("kept", "size", 3)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, appName, entry["service"])
	assert.Equal(t, Version, entry["version"])
	assert.EqualValues(t, 3, entry["size"])
	assert.NotContains(t, entry, "source")
}

func TestSetupLoggerTextDebug(t *testing.T) {
	var out bytes.Buffer
	logger := setupLogger(&out, "DEBUG", "text")

	logger.Debug("visible")
	assert.Contains(t, out.String(), "msg=visible")
	assert.Contains(t, out.String(), "source=")
}

func TestSetupLoggerUnknownLevel(t *testing.T) {
	var out bytes.Buffer
	logger := setupLogger(&out, "verbose", "json")

	logger.Debug("hidden")
	assert.Zero(t, out.Len())
	logger.Info("shown")
	assert.NotZero(t, out.Len())
}
