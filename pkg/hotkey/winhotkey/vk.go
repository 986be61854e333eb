// Package winhotkey is the Win32 hotkey backend: RegisterHotKey plus a
// GetMessageW loop on the listener thread, woken by PostThreadMessageW.
package winhotkey

import "github.com/grovetools/palette/pkg/keys"

// Modifier flags accepted by RegisterHotKey.
const (
	modAlt      = 0x0001
	modControl  = 0x0002
	modShift    = 0x0004
	modWin      = 0x0008
	modNoRepeat = 0x4000
)

var virtualKeys = map[keys.Key]uint32{
	keys.KeySemicolon:    0xBA,
	keys.KeyEqual:        0xBB,
	keys.KeyComma:        0xBC,
	keys.KeyMinus:        0xBD,
	keys.KeyPeriod:       0xBE,
	keys.KeySlash:        0xBF,
	keys.KeyGrave:        0xC0,
	keys.KeyLeftBracket:  0xDB,
	keys.KeyBackslash:    0xDC,
	keys.KeyRightBracket: 0xDD,
	keys.KeyApostrophe:   0xDE,

	keys.KeyEnter:     0x0D,
	keys.KeySpace:     0x20,
	keys.KeyTab:       0x09,
	keys.KeyEscape:    0x1B,
	keys.KeyDelete:    0x2E,
	keys.KeyBackspace: 0x08,

	keys.KeyHome:        0x24,
	keys.KeyEnd:         0x23,
	keys.KeyPageUp:      0x21,
	keys.KeyPageDown:    0x22,
	keys.KeyInsert:      0x2D,
	keys.KeyPrintScreen: 0x2C,
	keys.KeyScrollLock:  0x91,
	keys.KeyPause:       0x13,
	keys.KeyLeft:        0x25,
	keys.KeyUp:          0x26,
	keys.KeyRight:       0x27,
	keys.KeyDown:        0x28,
}

func init() {
	for k := keys.KeyA; k <= keys.KeyZ; k++ {
		virtualKeys[k] = 0x41 + uint32(k-keys.KeyA)
	}
	for k := keys.Key0; k <= keys.Key9; k++ {
		virtualKeys[k] = 0x30 + uint32(k-keys.Key0)
	}
	for k := keys.KeyF1; k <= keys.KeyF12; k++ {
		virtualKeys[k] = 0x70 + uint32(k-keys.KeyF1)
	}
}

// VirtualKey returns the Win32 virtual-key code for k.
func VirtualKey(k keys.Key) (uint32, bool) {
	vk, ok := virtualKeys[k]
	return vk, ok
}

// Modifiers converts a modifier set into RegisterHotKey flags. Auto-repeat
// is always suppressed.
func Modifiers(m keys.Modifier) uint32 {
	flags := uint32(modNoRepeat)
	if m.Has(keys.ModAlt) {
		flags |= modAlt
	}
	if m.Has(keys.ModCtrl) {
		flags |= modControl
	}
	if m.Has(keys.ModShift) {
		flags |= modShift
	}
	if m.Has(keys.ModSuper) {
		flags |= modWin
	}
	return flags
}
