package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false, zerolog.InfoLevel)

	l.Debug().Msg("hidden")
	l.Info().Str("service", "spotify").Msg("fetched")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "fetched", entry["message"])
	assert.Equal(t, "spotify", entry["service"])
}

func TestInit_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")

	require.NoError(t, Init(Config{Output: path, File: path, Level: "debug"}))
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestShortCaller(t *testing.T) {
	file := filepath.Join("root", "internal", "infra", "spotify", "client.go")
	assert.Equal(t, filepath.Join("spotify", "client.go")+":42", shortCaller(0, file, 42))
	assert.Equal(t, "main.go:7", shortCaller(0, "main.go", 7))
}
