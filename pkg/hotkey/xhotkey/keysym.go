// Package xhotkey is the X11 hotkey backend built on golang.design/x/hotkey.
package xhotkey

import "github.com/grovetools/palette/pkg/keys"

// X11 modifier masks: Alt is Mod1 and Super is Mod4 on common layouts.
const (
	maskShift = 1 << 0
	maskCtrl  = 1 << 2
	maskMod1  = 1 << 3
	maskMod4  = 1 << 6
)

var keysyms = map[keys.Key]uint16{
	keys.KeySemicolon:    0x003b,
	keys.KeyEqual:        0x003d,
	keys.KeyComma:        0x002c,
	keys.KeyMinus:        0x002d,
	keys.KeyPeriod:       0x002e,
	keys.KeySlash:        0x002f,
	keys.KeyGrave:        0x0060,
	keys.KeyLeftBracket:  0x005b,
	keys.KeyBackslash:    0x005c,
	keys.KeyRightBracket: 0x005d,
	keys.KeyApostrophe:   0x0027,

	keys.KeyEnter:     0xff0d,
	keys.KeySpace:     0x0020,
	keys.KeyTab:       0xff09,
	keys.KeyEscape:    0xff1b,
	keys.KeyDelete:    0xffff,
	keys.KeyBackspace: 0xff08,

	keys.KeyHome:        0xff50,
	keys.KeyEnd:         0xff57,
	keys.KeyPageUp:      0xff55,
	keys.KeyPageDown:    0xff56,
	keys.KeyInsert:      0xff63,
	keys.KeyPrintScreen: 0xff61,
	keys.KeyScrollLock:  0xff14,
	keys.KeyPause:       0xff13,
	keys.KeyLeft:        0xff51,
	keys.KeyUp:          0xff52,
	keys.KeyRight:       0xff53,
	keys.KeyDown:        0xff54,
}

func init() {
	for k := keys.KeyA; k <= keys.KeyZ; k++ {
		keysyms[k] = 0x0061 + uint16(k-keys.KeyA)
	}
	for k := keys.Key0; k <= keys.Key9; k++ {
		keysyms[k] = 0x0030 + uint16(k-keys.Key0)
	}
	for k := keys.KeyF1; k <= keys.KeyF12; k++ {
		keysyms[k] = 0xffbe + uint16(k-keys.KeyF1)
	}
}

// Keysym returns the X11 keysym for k.
func Keysym(k keys.Key) (uint16, bool) {
	sym, ok := keysyms[k]
	return sym, ok
}

// ModMask converts a modifier set into an X11 modifier mask.
func ModMask(m keys.Modifier) uint32 {
	var mask uint32
	if m.Has(keys.ModShift) {
		mask |= maskShift
	}
	if m.Has(keys.ModCtrl) {
		mask |= maskCtrl
	}
	if m.Has(keys.ModAlt) {
		mask |= maskMod1
	}
	if m.Has(keys.ModSuper) {
		mask |= maskMod4
	}
	return mask
}
