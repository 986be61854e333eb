package definition

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Scaffold returns a minimal, valid definition for an application whose
// process on os is named process. It carries one example action.
func Scaffold(id, name string, os OS, process string) *Definition {
	def := &Definition{
		Version: SupportedVersion,
		App: AppBlock{
			ID:                id,
			Name:              name,
			DefaultFocusState: Focused.String(),
			DefaultPriority:   ApplicationPriority.String(),
		},
		Actions: map[string]ActionBlock{},
	}
	switch os {
	case Windows:
		def.App.OS.Windows = process
	case MacOS:
		def.App.OS.MacOS = process
	default:
		def.App.OS.Linux = process
	}

	mod := "ctrl"
	if os == MacOS {
		mod = "cmd"
	}
	spec := &ChordSpec{Mods: []string{mod}, Key: "n"}
	action := ActionBlock{Name: "New window"}
	switch os {
	case Windows:
		action.Cmd.Windows = spec
	case MacOS:
		action.Cmd.MacOS = spec
	default:
		action.Cmd.Linux = spec
	}
	def.Actions["new_window"] = action
	def.order = []string{"new_window"}
	return def
}

// MarshalTOML renders def as TOML.
func MarshalTOML(def *Definition) ([]byte, error) {
	data, err := toml.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal definition: %w", err)
	}
	return data, nil
}

// WriteFile writes def as TOML to path. Existing files are left alone
// unless force is set.
func WriteFile(path string, def *Definition, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}

	data, err := MarshalTOML(def)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write definition %s: %w", path, err)
	}
	return nil
}
