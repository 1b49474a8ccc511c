package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionFiltering(t *testing.T) {
	defer EnableSections("bootstrap", "cmd")
	defer SetLevel(slog.LevelInfo)
	SetLevel(slog.LevelDebug)

	var buf bytes.Buffer
	logger := New(&buf)

	EnableSections("resolver")
	logger.With("section", "resolver").Debug("kept")
	logger.With("section", "parser").Debug("dropped")
	logger.With("section", "parser").Warn("warnings always pass")
	logger.Info("no section", "section", "resolver")

	out := buf.String()
	assert.Contains(t, out, `"msg":"kept"`)
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "warnings always pass")
	assert.Contains(t, out, `"msg":"no section"`)
	assert.NotContains(t, out, `"time"`)
}

func TestSectionPrefix(t *testing.T) {
	defer EnableSections("bootstrap", "cmd")
	EnableSections("boot")
	assert.True(t, sectionEnabled("bootstrap"))
	assert.False(t, sectionEnabled("cmd"))
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)

	_, err = ParseLevel("loud")
	assert.ErrorContains(t, err, `invalid log level "loud"`)
}
