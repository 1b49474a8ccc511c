package parser

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntaxErrorsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	defer func(l *slog.Logger) { logger = l }(logger)
	logger = slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := ParseString("bad.flux", "x = )\ny = 2\nz = (\n")
	require.Error(t, err)

	var record struct {
		Msg    string `json:"msg"`
		File   string `json:"file"`
		Errors map[string]struct {
			Msg string `json:"msg"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &record))
	assert.Equal(t, "syntax errors", record.Msg)
	assert.Equal(t, "bad.flux", record.File)
	require.Len(t, record.Errors, 2)
	assert.True(t, strings.HasPrefix(record.Errors["e0"].Msg, "(E013) bad.flux:1:5"), record.Errors["e0"].Msg)
	assert.Contains(t, record.Errors["e1"].Msg, "bad.flux:3:")
}
