package definition

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the only definition format version this build reads.
const SupportedVersion = 1

// Definition is the declarative description of one application, as read
// from a single file. It is never mutated after Decode returns.
type Definition struct {
	Version int                    `toml:"version" yaml:"version" json:"version" jsonschema:"required,enum=1,description=Definition format version"`
	App     AppBlock               `toml:"app" yaml:"app" json:"app" jsonschema:"required"`
	Actions map[string]ActionBlock `toml:"actions,omitempty" yaml:"actions,omitempty" json:"actions,omitempty" jsonschema:"description=Actions keyed by a unique action key"`

	// order holds action keys in declaration order.
	order []string
	// undecoded holds keys present in the source that no field consumed.
	undecoded []string
}

// AppBlock declares the application's identity.
type AppBlock struct {
	ID                string    `toml:"id" yaml:"id" json:"id" jsonschema:"required,description=Stable application identifier"`
	Name              string    `toml:"name" yaml:"name" json:"name" jsonschema:"required,description=Display name"`
	DefaultFocusState string    `toml:"default_focus_state,omitempty" yaml:"default_focus_state,omitempty" json:"default_focus_state,omitempty" jsonschema:"enum=focused,enum=background,enum=global"`
	DefaultPriority   string    `toml:"default_priority,omitempty" yaml:"default_priority,omitempty" json:"default_priority,omitempty" jsonschema:"enum=OSReserved,enum=GlobalRemapper,enum=OSGlobal,enum=UserOverrides,enum=Application,enum=ApplicationExtensions,enum=DocumentOrWebApp"`
	Requires          string    `toml:"requires,omitempty" yaml:"requires,omitempty" json:"requires,omitempty" jsonschema:"description=Semver constraint on the palette version"`
	OS                OSStrings `toml:"os" yaml:"os" json:"os" jsonschema:"description=Process name per operating system"`
}

// OSStrings holds one optional string per operating system.
type OSStrings struct {
	Windows string `toml:"windows,omitempty" yaml:"windows,omitempty" json:"windows,omitempty"`
	MacOS   string `toml:"macos,omitempty" yaml:"macos,omitempty" json:"macos,omitempty"`
	Linux   string `toml:"linux,omitempty" yaml:"linux,omitempty" json:"linux,omitempty"`
}

// For returns the entry for os, or "" when none is declared.
func (s OSStrings) For(os OS) string {
	switch os {
	case Windows:
		return s.Windows
	case MacOS:
		return s.MacOS
	case Linux:
		return s.Linux
	}
	return ""
}

// ActionBlock declares one action.
type ActionBlock struct {
	Name       string   `toml:"name" yaml:"name" json:"name" jsonschema:"required"`
	FocusState string   `toml:"focus_state,omitempty" yaml:"focus_state,omitempty" json:"focus_state,omitempty" jsonschema:"enum=focused,enum=background,enum=global"`
	Cmd        OSChords `toml:"cmd,omitempty" yaml:"cmd,omitempty" json:"cmd,omitempty" jsonschema:"description=Key chord per operating system"`
	Run        []string `toml:"run,omitempty" yaml:"run,omitempty" json:"run,omitempty" jsonschema:"description=Command and arguments run instead of emitting the chord"`
}

// OSChords holds one optional chord per operating system.
type OSChords struct {
	Windows *ChordSpec `toml:"windows,omitempty" yaml:"windows,omitempty" json:"windows,omitempty"`
	MacOS   *ChordSpec `toml:"macos,omitempty" yaml:"macos,omitempty" json:"macos,omitempty"`
	Linux   *ChordSpec `toml:"linux,omitempty" yaml:"linux,omitempty" json:"linux,omitempty"`
}

// For returns the chord declared for os, or nil.
func (c OSChords) For(os OS) *ChordSpec {
	switch os {
	case Windows:
		return c.Windows
	case MacOS:
		return c.MacOS
	case Linux:
		return c.Linux
	}
	return nil
}

// ChordSpec is the source form of a key chord.
type ChordSpec struct {
	Mods []string `toml:"mods,omitempty" yaml:"mods,omitempty" json:"mods,omitempty" jsonschema:"description=Modifier names: ctrl shift alt super (cmd and win are aliases)"`
	Key  string   `toml:"key" yaml:"key" json:"key" jsonschema:"required"`
}

// ActionKeys returns the action keys in declaration order.
func (d *Definition) ActionKeys() []string {
	keys := make([]string, 0, len(d.Actions))
	seen := make(map[string]bool, len(d.Actions))
	for _, k := range d.order {
		if _, ok := d.Actions[k]; ok && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for _, k := range sortedKeys(d.Actions) {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	return keys
}

// Undecoded returns source keys that were not recognised.
func (d *Definition) Undecoded() []string {
	return d.undecoded
}

// Format is a definition source encoding.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "toml"
}

// FormatForPath picks a format from the file extension. ok is false for
// files that are not definitions.
func FormatForPath(path string) (f Format, ok bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, true
	case ".yaml", ".yml":
		return FormatYAML, true
	}
	return 0, false
}

// LoadFile reads and decodes the definition at path.
func LoadFile(path string) (*Definition, error) {
	format, ok := FormatForPath(path)
	if !ok {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("unsupported file type %q", filepath.Ext(path))}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	def, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return def, nil
}

// Decode reads a definition in the given format. All decoding failures are
// returned as *ParseError.
func Decode(r io.Reader, format Format) (*Definition, error) {
	var (
		def *Definition
		err error
	)
	switch format {
	case FormatYAML:
		def, err = decodeYAML(r)
	default:
		def, err = decodeTOML(r)
	}
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	if def.Version != SupportedVersion {
		return nil, &ParseError{Err: fmt.Errorf("unsupported definition version %d (want %d)", def.Version, SupportedVersion)}
	}
	if strings.TrimSpace(def.App.ID) == "" {
		return nil, &ParseError{Err: fmt.Errorf("app.id is required")}
	}
	if def.App.Name == "" {
		def.App.Name = def.App.ID
	}
	return def, nil
}

func decodeTOML(r io.Reader) (*Definition, error) {
	var def Definition
	md, err := toml.NewDecoder(r).Decode(&def)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, key := range md.Keys() {
		if len(key) < 2 || key[0] != "actions" {
			continue
		}
		if !seen[key[1]] {
			seen[key[1]] = true
			def.order = append(def.order, key[1])
		}
	}
	for _, key := range md.Undecoded() {
		def.undecoded = append(def.undecoded, key.String())
	}
	return &def, nil
}

func decodeYAML(r io.Reader) (*Definition, error) {
	var doc yaml.Node
	dec := yaml.NewDecoder(r)
	dec.KnownFields(false)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty document")
		}
		return nil, err
	}

	var def Definition
	if err := doc.Decode(&def); err != nil {
		return nil, err
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if actions := mappingValue(root, "actions"); actions != nil && actions.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(actions.Content); i += 2 {
			def.order = append(def.order, actions.Content[i].Value)
		}
	}
	def.undecoded = unknownYAMLKeys(root)
	return &def, nil
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

var (
	knownTop    = []string{"version", "app", "actions"}
	knownApp    = []string{"id", "name", "default_focus_state", "default_priority", "requires", "os"}
	knownAction = []string{"name", "focus_state", "cmd", "run"}
)

// KnownKeys returns the keys the schema accepts next to an unrecognised
// dotted key such as "actions.new_tab.focus_sate". It returns nil when the
// key sits somewhere the schema has no fixed names.
func KnownKeys(key string) []string {
	parts := strings.Split(key, ".")
	osKeys := []string{"windows", "macos", "linux"}
	switch {
	case len(parts) == 1:
		return knownTop
	case parts[0] == "app" && len(parts) == 2:
		return knownApp
	case parts[0] == "app" && len(parts) == 3 && parts[1] == "os":
		return osKeys
	case parts[0] == "actions" && len(parts) == 3:
		return knownAction
	case parts[0] == "actions" && len(parts) == 4 && parts[2] == "cmd":
		return osKeys
	}
	return nil
}

// unknownYAMLKeys reports top-level, app-level and action-level keys the
// schema does not define, mirroring toml.MetaData.Undecoded.
func unknownYAMLKeys(root *yaml.Node) []string {
	var out []string
	collect := func(n *yaml.Node, prefix string, known []string) {
		if n == nil || n.Kind != yaml.MappingNode {
			return
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i].Value
			if !contains(known, k) {
				out = append(out, prefix+k)
			}
		}
	}
	collect(root, "", knownTop)
	collect(mappingValue(root, "app"), "app.", knownApp)
	if actions := mappingValue(root, "actions"); actions != nil && actions.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(actions.Content); i += 2 {
			collect(actions.Content[i+1], "actions."+actions.Content[i].Value+".", knownAction)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]ActionBlock) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
