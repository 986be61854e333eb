// Package keys provides the OS-agnostic key chord model used by application
// definitions, the hotkey listener and conflict analysis.
package keys

import (
	"strings"
)

// Modifier is a bit set of the modifier keys held down in a chord.
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModShift
	ModAlt
	// ModSuper is the Windows key on Windows, Command on macOS, Super on Linux.
	ModSuper
)

// modifierOrder is the canonical order used when rendering chords.
var modifierOrder = []Modifier{ModCtrl, ModShift, ModAlt, ModSuper}

// Has reports whether every modifier in o is set in m.
func (m Modifier) Has(o Modifier) bool {
	return m&o == o
}

// String renders the modifier set in canonical order, joined by "+".
func (m Modifier) String() string {
	var parts []string
	for _, mod := range modifierOrder {
		if m.Has(mod) {
			parts = append(parts, modifierNames[mod])
		}
	}
	return strings.Join(parts, "+")
}

// Key is a symbolic, layout-independent key.
type Key uint8

// String returns the canonical lower-case name of the key.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether k is a known key.
func (k Key) Valid() bool {
	_, ok := keyNames[k]
	return ok
}

// KeyChord is a modifier set plus one key. It is a comparable value and can
// be used as a map key.
type KeyChord struct {
	Mods Modifier
	Key  Key
}

// String renders the chord in canonical form, e.g. "ctrl+shift+p".
func (c KeyChord) String() string {
	if c.Mods == 0 {
		return c.Key.String()
	}
	return c.Mods.String() + "+" + c.Key.String()
}

// IsZero reports whether the chord has no key.
func (c KeyChord) IsZero() bool {
	return c.Key == KeyUnknown
}

// MarshalText implements encoding.TextMarshaler.
func (c KeyChord) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *KeyChord) UnmarshalText(text []byte) error {
	parsed, err := ParseChord(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Binding is a single chord bound to an action of an application, flattened
// for analysis across the whole registry.
type Binding struct {
	App       string   // declared application id
	AppName   string   // display name
	Bucket    string   // focus bucket the action is offered from
	Action    string   // display name of the action
	ActionKey string   // action key from the definition
	Chord     KeyChord // resolved chord for the current OS
	Source    string   // definition file the binding came from
}

// Conflict represents a chord bound to more than one action within the same
// application and focus bucket.
type Conflict struct {
	Chord    KeyChord
	App      string
	Bucket   string
	Bindings []Binding
}
