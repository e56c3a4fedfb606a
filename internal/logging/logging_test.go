package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithOutputEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput(&buf, "todo-graph", "debug")

	logger.WithField("op", "fetch").Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "todo-graph", entry["service"])
	assert.Equal(t, "fetch", entry["op"])
	assert.Contains(t, entry, "ts")
}

func TestNewWithOutputUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput(&buf, "svc", "loud")
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())

	logger.Debug("hidden")
	assert.Zero(t, buf.Len())
}
