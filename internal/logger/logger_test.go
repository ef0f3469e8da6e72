package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DevelopmentIsTextWithDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, true)

	log.Debug("artifact uploaded", "path", "u1/resume/x-resume.pdf")

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "path=u1/resume/x-resume.pdf")
}

func TestNew_ProductionIsJSONWithoutDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false)

	log.Debug("hidden")
	log.Info("artifact uploaded", "user_id", "u1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "artifact uploaded", line["msg"])
	assert.Equal(t, "u1", line["user_id"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNew_FansOutToExtraHandlers(t *testing.T) {
	var primary, secondary bytes.Buffer
	extra := slog.NewTextHandler(&secondary, &slog.HandlerOptions{Level: slog.LevelError})

	log := New(&primary, false, nil, extra)
	log.Info("info only")
	log.Error("failed to persist artifact")

	assert.Contains(t, primary.String(), "info only")
	assert.Contains(t, primary.String(), "failed to persist artifact")
	assert.NotContains(t, secondary.String(), "info only")
	assert.Contains(t, secondary.String(), "failed to persist artifact")
}
