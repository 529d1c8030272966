package logger

import (
	"banking_assistant/src/model"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	log.Info().Str("session_id", "abc").Msg("turn handled")

	assert.Contains(t, buf.String(), "turn handled")
	assert.Contains(t, buf.String(), `"session_id":"abc"`)
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf))

	log := FromContext(ctx)
	log.Info().Msg("from context")

	assert.Contains(t, buf.String(), "from context")
}

func TestFromContext_FallsBackToGlobal(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	buf := &bytes.Buffer{}
	Logger = NewWithWriter(buf)

	log := FromContext(context.Background())
	log.Info().Msg("global")

	assert.Contains(t, buf.String(), "global")
}

func TestInitLogger_InvalidLevel(t *testing.T) {
	_, err := InitLogger(model.LogConfig{Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestInitLogger_File(t *testing.T) {
	prevLogger, prevLevel := Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	path := filepath.Join(t.TempDir(), "nested", "assistant.log")
	closer, err := InitLogger(model.LogConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: path,
	})
	require.NoError(t, err)

	Info().Msg("written to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}
