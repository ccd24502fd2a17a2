package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		m := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestZerologLogger_LevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerologLogger(zerolog.New(&buf))
	ctx := context.Background()

	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", "x")
	log.Error(ctx, "err", "d", true)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 3)

	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "inf", lines[0]["message"])
	assert.EqualValues(t, 2, lines[0]["b"])

	assert.Equal(t, "warn", lines[1]["level"])
	assert.Equal(t, "x", lines[1]["c"])

	assert.Equal(t, "error", lines[2]["level"])
	assert.Equal(t, true, lines[2]["d"])
}

func TestZerologLogger_With(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerologLogger(zerolog.New(&buf)).With("module", "rest")
	log.Info(context.Background(), "hello", "k", "v")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "rest", lines[0]["module"])
	assert.Equal(t, "v", lines[0]["k"])
}

func TestNew_SelectsBackend(t *testing.T) {
	var buf bytes.Buffer

	_, ok := New(FormatJSON, &buf).(*SlogLogger)
	assert.True(t, ok)

	_, ok = New(FormatConsole, &buf).(*ZerologLogger)
	assert.True(t, ok)

	_, ok = New("", &buf).(*SlogLogger)
	assert.True(t, ok)
}
