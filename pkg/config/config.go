// Package config provides the TOML configuration for palette.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/grovetools/palette/pkg/definition"
	"github.com/grovetools/palette/pkg/fuzzy"
	"github.com/grovetools/palette/pkg/keys"
)

const appDir = "palette"

// Config is the user configuration.
type Config struct {
	// DefinitionsDir is scanned for application definitions.
	DefinitionsDir string `toml:"definitions_dir"`
	// Activation lists the global chords that toggle the palette.
	Activation []string `toml:"activation"`
	// Watch rebuilds the registry when definitions change.
	Watch    bool     `toml:"watch"`
	Debounce Duration `toml:"debounce"`
	// Scorer is "subsequence" or "sahilm".
	Scorer     string `toml:"scorer"`
	MaxResults int    `toml:"max_results"`
	LogLevel   string `toml:"log_level"`
	LogFormat  string `toml:"log_format"`
	// OS resolves definitions for another operating system. Empty means
	// the running one.
	OS string `toml:"os"`

	// Path is the file the config was read from, if any.
	Path string `toml:"-"`
}

// Load reads configuration from the standard config path.
// Search order:
//  1. $XDG_CONFIG_HOME/palette/config.toml
//  2. ~/.config/palette/config.toml
//
// If no file exists, returns DefaultConfig() with env overrides applied.
func Load() (*Config, error) {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile reads configuration from a specific file path. A missing
// file yields the defaults.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// LoadFromReader reads configuration from an io.Reader. Unset fields keep
// their defaults.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	cfg.DefinitionsDir = expandHome(cfg.DefinitionsDir)
	return cfg, nil
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		DefinitionsDir: filepath.Join(xdgConfigHome(home), appDir, "definitions"),
		Activation:     []string{"ctrl+shift+p"},
		Watch:          true,
		Debounce:       Duration{250 * time.Millisecond},
		Scorer:         "subsequence",
		MaxResults:     8,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// applyEnvOverrides checks environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PALETTE_DEFINITIONS_DIR"); v != "" {
		cfg.DefinitionsDir = v
	}
	if v := os.Getenv("PALETTE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("PALETTE_SCORER"); v != "" {
		cfg.Scorer = v
	}
	if v := os.Getenv("PALETTE_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxResults = n
		}
	}
}

// Validate checks values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	if c.DefinitionsDir == "" {
		return fmt.Errorf("definitions_dir must be set")
	}
	if _, err := c.ActivationChords(); err != nil {
		return err
	}
	if _, err := c.TargetOS(); err != nil {
		return err
	}
	if _, ok := fuzzy.ByName(c.Scorer); !ok {
		return fmt.Errorf("unknown scorer %q (want subsequence or sahilm)", c.Scorer)
	}
	if c.MaxResults < 1 {
		return fmt.Errorf("max_results must be positive, got %d", c.MaxResults)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log_format %q (want text or json)", c.LogFormat)
	}
	return nil
}

// ActivationChords parses Activation.
func (c *Config) ActivationChords() ([]keys.KeyChord, error) {
	if len(c.Activation) == 0 {
		return nil, fmt.Errorf("activation must list at least one chord")
	}
	chords := make([]keys.KeyChord, 0, len(c.Activation))
	for _, s := range c.Activation {
		chord, err := keys.ParseChord(s)
		if err != nil {
			return nil, fmt.Errorf("activation chord %q: %w", s, err)
		}
		chords = append(chords, chord)
	}
	return chords, nil
}

// TargetOS returns the OS definitions are resolved for.
func (c *Config) TargetOS() (definition.OS, error) {
	return definition.ParseOS(c.OS)
}

// ScorerImpl returns the configured fuzzy scorer.
func (c *Config) ScorerImpl() fuzzy.Scorer {
	s, _ := fuzzy.ByName(c.Scorer)
	return s
}

// DefaultPath is where Load looks first.
func DefaultPath() string {
	return configSearchPaths()[0]
}

// configSearchPaths returns the ordered list of config file paths to try.
func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	var paths []string

	xdg := xdgConfigHome(home)
	paths = append(paths, filepath.Join(xdg, appDir, "config.toml"))

	// If XDG_CONFIG_HOME was explicitly set, also try the fallback default.
	defaultXDG := filepath.Join(home, ".config")
	if xdg != defaultXDG {
		paths = append(paths, filepath.Join(defaultXDG, appDir, "config.toml"))
	}
	return paths
}

// xdgConfigHome returns XDG_CONFIG_HOME or ~/.config as fallback.
func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}
