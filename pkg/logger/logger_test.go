package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecificLevelWriter_FiltersLevels(t *testing.T) {
	var buf bytes.Buffer
	w := SpecificLevelWriter{Writer: &buf, Levels: []zerolog.Level{zerolog.ErrorLevel}}

	n, err := w.WriteLevel(zerolog.InfoLevel, []byte("info line"))
	require.NoError(t, err)
	assert.Equal(t, len("info line"), n)
	assert.Empty(t, buf.String())

	_, err = w.WriteLevel(zerolog.ErrorLevel, []byte("error line"))
	require.NoError(t, err)
	assert.Equal(t, "error line", buf.String())
}

func TestSplitWriter_RoutesByLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	l := zerolog.New(splitWriter(&stdout, &stderr))

	l.Info().Msg("hello")
	l.Error().Msg("broken")

	assert.Contains(t, stdout.String(), "hello")
	assert.NotContains(t, stdout.String(), "broken")
	assert.Contains(t, stderr.String(), "broken")
	assert.NotContains(t, stderr.String(), "hello")
}

func TestSetup(t *testing.T) {
	defer func() { _ = Setup("info", "console") }()

	require.NoError(t, Setup("debug", "json"))
	assert.Equal(t, zerolog.DebugLevel, Logger().GetLevel())

	require.NoError(t, Setup("", "console"))
	assert.Equal(t, zerolog.InfoLevel, Logger().GetLevel())

	assert.Error(t, Setup("loud", "console"))
}
