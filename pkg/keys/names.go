package keys

import (
	"fmt"
	"strings"
)

const (
	KeyUnknown Key = iota

	// Alphanumeric
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9

	// Function
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	// Punctuation, named after the un-shifted US layout character
	KeySemicolon
	KeyEqual
	KeyComma
	KeyMinus
	KeyPeriod
	KeySlash
	KeyGrave
	KeyLeftBracket
	KeyBackslash
	KeyRightBracket
	KeyApostrophe

	// Editing
	KeyEnter
	KeySpace
	KeyTab
	KeyEscape
	KeyDelete
	KeyBackspace

	// Navigation
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyPrintScreen
	KeyScrollLock
	KeyPause
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

var modifierNames = map[Modifier]string{
	ModCtrl:  "ctrl",
	ModShift: "shift",
	ModAlt:   "alt",
	ModSuper: "super",
}

// modifierAliases maps every accepted spelling to a modifier. "cmd" and
// "win" both land on ModSuper so one definition vocabulary serves every OS.
var modifierAliases = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"shift":   ModShift,
	"alt":     ModAlt,
	"option":  ModAlt,
	"opt":     ModAlt,
	"super":   ModSuper,
	"win":     ModSuper,
	"cmd":     ModSuper,
	"command": ModSuper,
	"meta":    ModSuper,
}

var keyNames = map[Key]string{
	KeyA: "a", KeyB: "b", KeyC: "c", KeyD: "d", KeyE: "e", KeyF: "f", KeyG: "g",
	KeyH: "h", KeyI: "i", KeyJ: "j", KeyK: "k", KeyL: "l", KeyM: "m", KeyN: "n",
	KeyO: "o", KeyP: "p", KeyQ: "q", KeyR: "r", KeyS: "s", KeyT: "t", KeyU: "u",
	KeyV: "v", KeyW: "w", KeyX: "x", KeyY: "y", KeyZ: "z",
	Key0: "0", Key1: "1", Key2: "2", Key3: "3", Key4: "4",
	Key5: "5", Key6: "6", Key7: "7", Key8: "8", Key9: "9",
	KeyF1: "f1", KeyF2: "f2", KeyF3: "f3", KeyF4: "f4", KeyF5: "f5", KeyF6: "f6",
	KeyF7: "f7", KeyF8: "f8", KeyF9: "f9", KeyF10: "f10", KeyF11: "f11", KeyF12: "f12",
	KeySemicolon:    "semicolon",
	KeyEqual:        "equal",
	KeyComma:        "comma",
	KeyMinus:        "minus",
	KeyPeriod:       "period",
	KeySlash:        "slash",
	KeyGrave:        "grave",
	KeyLeftBracket:  "leftbracket",
	KeyBackslash:    "backslash",
	KeyRightBracket: "rightbracket",
	KeyApostrophe:   "apostrophe",
	KeyEnter:        "enter",
	KeySpace:        "space",
	KeyTab:          "tab",
	KeyEscape:       "escape",
	KeyDelete:       "delete",
	KeyBackspace:    "backspace",
	KeyHome:         "home",
	KeyEnd:          "end",
	KeyPageUp:       "pageup",
	KeyPageDown:     "pagedown",
	KeyInsert:       "insert",
	KeyPrintScreen:  "printscreen",
	KeyScrollLock:   "scrolllock",
	KeyPause:        "pause",
	KeyLeft:         "left",
	KeyRight:        "right",
	KeyUp:           "up",
	KeyDown:         "down",
}

// keyAliases holds the extra spellings accepted on input. Canonical names
// are added in init.
var keyAliases = map[string]Key{
	";": KeySemicolon, "=": KeyEqual, ",": KeyComma, "-": KeyMinus, ".": KeyPeriod,
	"/": KeySlash, "`": KeyGrave, "[": KeyLeftBracket, "\\": KeyBackslash,
	"]": KeyRightBracket, "'": KeyApostrophe, "+": KeyEqual,
	"plus":          KeyEqual,
	"return":        KeyEnter,
	"esc":           KeyEscape,
	"del":           KeyDelete,
	"back":          KeyBackspace,
	"pgup":          KeyPageUp,
	"page_up":       KeyPageUp,
	"pgdown":        KeyPageDown,
	"pgdn":          KeyPageDown,
	"page_down":     KeyPageDown,
	"ins":           KeyInsert,
	"prtsc":         KeyPrintScreen,
	"print":         KeyPrintScreen,
	"arrowleft":     KeyLeft,
	"arrowright":    KeyRight,
	"arrowup":       KeyUp,
	"arrowdown":     KeyDown,
	"leftarrow":     KeyLeft,
	"rightarrow":    KeyRight,
	"uparrow":       KeyUp,
	"downarrow":     KeyDown,
	"tilde":         KeyGrave,
	"quote":         KeyApostrophe,
	"left_bracket":  KeyLeftBracket,
	"right_bracket": KeyRightBracket,
}

func init() {
	for k, name := range keyNames {
		keyAliases[name] = k
	}
}

// UnknownKeyError is returned when a key name is not in the key table.
type UnknownKeyError struct {
	Name string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown key %q", e.Name)
}

// UnknownModifierError is returned when a modifier name is not recognised.
type UnknownModifierError struct {
	Name string
}

func (e *UnknownModifierError) Error() string {
	return fmt.Sprintf("unknown modifier %q", e.Name)
}

// ParseKey resolves a key name or alias, case-insensitively.
func ParseKey(name string) (Key, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return KeyUnknown, &UnknownKeyError{Name: name}
	}
	if k, ok := keyAliases[n]; ok {
		return k, nil
	}
	return KeyUnknown, &UnknownKeyError{Name: name}
}

// ParseModifier resolves a modifier name or alias, case-insensitively.
func ParseModifier(name string) (Modifier, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if m, ok := modifierAliases[n]; ok {
		return m, nil
	}
	return 0, &UnknownModifierError{Name: name}
}

// ChordFromParts builds a chord from the list-of-modifiers plus key form used
// by definition files.
func ChordFromParts(mods []string, key string) (KeyChord, error) {
	var chord KeyChord
	for _, name := range mods {
		m, err := ParseModifier(name)
		if err != nil {
			return KeyChord{}, err
		}
		chord.Mods |= m
	}
	k, err := ParseKey(key)
	if err != nil {
		return KeyChord{}, err
	}
	chord.Key = k
	return chord, nil
}

// ParseChord parses the textual form "mod+mod+key", e.g. "Ctrl+Shift+P".
// The last segment is the key; a trailing "+" means the plus key itself.
func ParseChord(s string) (KeyChord, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return KeyChord{}, &UnknownKeyError{Name: s}
	}
	if strings.HasSuffix(s, "++") || s == "+" {
		mods := strings.TrimSuffix(strings.TrimSuffix(s, "+"), "+")
		return ChordFromParts(splitMods(mods), "plus")
	}
	parts := strings.Split(s, "+")
	return ChordFromParts(parts[:len(parts)-1], parts[len(parts)-1])
}

func splitMods(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "+")
}

// AllKeys returns every known key in declaration order.
func AllKeys() []Key {
	out := make([]Key, 0, len(keyNames))
	for k := KeyA; k <= KeyDown; k++ {
		out = append(out, k)
	}
	return out
}
