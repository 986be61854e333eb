package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerTagsComponent(t *testing.T) {
	if debugEnabled {
		t.Skip("PALETTE_DEBUG forces debug level")
	}
	var buf bytes.Buffer
	SetOutput(&buf)
	SetFormat("json")
	require.NoError(t, SetLevel("info"))
	t.Cleanup(func() {
		SetFormat("text")
		SetOutput(os.Stderr)
	})

	NewLogger("registry").WithField("file", "chrome.toml").Info("Loaded")
	NewLogger("registry").Debug("hidden below info")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "registry", entry["component"])
	assert.Equal(t, "chrome.toml", entry["file"])
	assert.Equal(t, "Loaded", entry["msg"])
}

func TestSetLevelRejectsUnknown(t *testing.T) {
	if debugEnabled {
		t.Skip("PALETTE_DEBUG forces debug level")
	}
	assert.Error(t, SetLevel("loud"))
}
