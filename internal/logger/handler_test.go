package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrettyHandler_WritesMessageAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, nil))

	log.Info("server starting", "addr", ":8080")

	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "server starting")
	assert.Contains(t, out, "addr")
	assert.Contains(t, out, ":8080")
}

func TestPrettyHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	log.Info("hidden")
	assert.Empty(t, buf.String())

	log.Warn("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestPrettyHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, nil)).With("request_id", "abc-123").WithGroup("db")

	log.Info("query done", "rows", 3)

	out := buf.String()
	assert.Contains(t, out, "request_id")
	assert.Contains(t, out, "abc-123")
	assert.Contains(t, out, "db.rows")
}
