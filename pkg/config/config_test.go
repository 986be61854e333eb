package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/palette/pkg/definition"
	"github.com/grovetools/palette/pkg/keys"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	cfg := DefaultConfig()

	assert.Equal(t, filepath.Join("/tmp/xdg", "palette", "definitions"), cfg.DefinitionsDir)
	assert.Equal(t, []string{"ctrl+shift+p"}, cfg.Activation)
	assert.Equal(t, 8, cfg.MaxResults)
	assert.Equal(t, 250*time.Millisecond, cfg.Debounce.Duration)
	require.NoError(t, cfg.Validate())

	chords, err := cfg.ActivationChords()
	require.NoError(t, err)
	assert.Equal(t, []keys.KeyChord{{Mods: keys.ModCtrl | keys.ModShift, Key: keys.KeyP}}, chords)
}

func TestLoadFromReader(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader(`
definitions_dir = "/opt/palette"
activation = ["alt+space", "super+p"]
watch = false
debounce = "1s"
scorer = "sahilm"
os = "windows"
`))
	require.NoError(t, err)

	assert.Equal(t, "/opt/palette", cfg.DefinitionsDir)
	assert.False(t, cfg.Watch)
	assert.Equal(t, time.Second, cfg.Debounce.Duration)
	assert.Equal(t, 8, cfg.MaxResults, "unset fields keep defaults")

	target, err := cfg.TargetOS()
	require.NoError(t, err)
	assert.Equal(t, definition.Windows, target)

	chords, err := cfg.ActivationChords()
	require.NoError(t, err)
	assert.Len(t, chords, 2)
	assert.True(t, cfg.ScorerImpl().Score("New Tab", "nt").Matched())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PALETTE_DEFINITIONS_DIR", "/env/defs")
	t.Setenv("PALETTE_LOG_LEVEL", "debug")
	t.Setenv("PALETTE_SCORER", "sahilm")
	t.Setenv("PALETTE_MAX_RESULTS", "12")

	cfg, err := LoadFromReader(strings.NewReader(`definitions_dir = "/file/defs"`))
	require.NoError(t, err)
	assert.Equal(t, "/env/defs", cfg.DefinitionsDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "sahilm", cfg.Scorer)
	assert.Equal(t, 12, cfg.MaxResults)
}

func TestLoadSearchPaths(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Path, "no file means defaults")

	path := filepath.Join(xdg, "palette", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("max_results = 3\n"), 0o644))

	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, 3, cfg.MaxResults)
	assert.Equal(t, path, DefaultPath())
}

func TestLoadFromFileErrors(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.MaxResults)

	bad := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("max_results = \"many\""), 0o644))
	_, err = LoadFromFile(bad)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "bad chord", mutate: func(c *Config) { c.Activation = []string{"ctrl+nope"} }},
		{name: "no chords", mutate: func(c *Config) { c.Activation = nil }},
		{name: "bad os", mutate: func(c *Config) { c.OS = "plan9" }},
		{name: "bad scorer", mutate: func(c *Config) { c.Scorer = "levenshtein" }},
		{name: "zero results", mutate: func(c *Config) { c.MaxResults = 0 }},
		{name: "bad format", mutate: func(c *Config) { c.LogFormat = "xml" }},
		{name: "no dir", mutate: func(c *Config) { c.DefinitionsDir = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDefinitionsDirExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PALETTE_DEFINITIONS_DIR", "")

	cfg, err := LoadFromReader(strings.NewReader(`definitions_dir = "~/defs"`))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "defs"), cfg.DefinitionsDir)
}
