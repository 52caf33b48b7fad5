package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, Options{}.Level())
	assert.Equal(t, zapcore.InfoLevel, Options{Verbosity: 1}.Level())
	assert.Equal(t, zapcore.DebugLevel, Options{Verbosity: 3}.Level())
	assert.Equal(t, zapcore.ErrorLevel, Options{Verbosity: 2, Quiet: true}.Level())
}

func TestConsoleFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Options{})
	log.Info("hidden")
	log.Warn("shown", zap.String("file", "a.txt"))
	require.NoError(t, log.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "shown")
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Options{JSON: true, Verbosity: 1})
	log.Info("scan done")
	require.NoError(t, log.Sync())

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "scan done", line["msg"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "kmpfind", line["logger"])
}
