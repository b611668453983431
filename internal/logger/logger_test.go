package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	stdlog "log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/ringside/internal/logger"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithJSON(true), logger.WithLevel(logger.WARN))

	log.Debug("hidden")
	log.Info("hidden too")
	log.Warn("shown %d", 1)
	log.Error("shown %d", 2)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "warn", lines[0]["level"])
	assert.Equal(t, "shown 1", lines[0]["message"])
	assert.Equal(t, "error", lines[1]["level"])
}

func TestLogger_PrefixAndFields(t *testing.T) {
	var buf bytes.Buffer
	base := logger.New(logger.WithOutput(&buf), logger.WithJSON(true))

	base.WithPrefix("match_repo").WithField("match_id", "m1").Info("saved")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "match_repo", lines[0]["component"])
	assert.Equal(t, "m1", lines[0]["match_id"])
	assert.Equal(t, "saved", lines[0]["message"])
}

func TestLogger_WithFieldsDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := logger.New(logger.WithOutput(&buf), logger.WithJSON(true))
	_ = parent.WithFields(map[string]any{"request_id": "abc"})

	parent.Info("plain")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	_, ok := lines[0]["request_id"]
	assert.False(t, ok)
}

func TestContext(t *testing.T) {
	assert.Same(t, logger.Default(), logger.FromContext(context.Background()))

	l := logger.New(logger.WithPrefix("test"))
	ctx := logger.NewContext(context.Background(), l)
	assert.Same(t, l, logger.FromContext(ctx))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logger.DEBUG, logger.ParseLevel("debug"))
	assert.Equal(t, logger.WARN, logger.ParseLevel("WARNING"))
	assert.Equal(t, logger.ERROR, logger.ParseLevel("ERROR"))
	assert.Equal(t, logger.INFO, logger.ParseLevel("nonsense"))
}

func TestLogger_ZerologAsStdlibWriter(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithJSON(true), logger.WithLevel(logger.WARN)).WithPrefix("http")

	stdlog.New(log.Zerolog(), "", 0).Printf("http: TLS handshake error from %s", "10.0.0.7:5150")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "http", lines[0]["component"])
	assert.Equal(t, "http: TLS handshake error from 10.0.0.7:5150", lines[0]["message"])
}
