package logging_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/aretw0/mcdata/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONRenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.NewWithWriter(&buf, slog.LevelInfo, "json")
	require.NoError(t, err)

	logger.Info("loaded", "error", "boom")
	logger.Debug("hidden")

	assert.Contains(t, buf.String(), `"err":"boom"`)
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.NewWithWriter(&buf, slog.LevelDebug, "text")
	require.NoError(t, err)

	logger.Debug("root loaded", "datapacks", 2)
	assert.Contains(t, buf.String(), "root loaded")
	assert.Contains(t, buf.String(), "datapacks")
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := logging.New(slog.LevelInfo, "xml")
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	level, err := logging.ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	_, err = logging.ParseLevel("loud")
	assert.Error(t, err)
}
