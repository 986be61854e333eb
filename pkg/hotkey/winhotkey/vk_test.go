package winhotkey

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grovetools/palette/pkg/keys"
)

func TestEveryKeyHasAVirtualKey(t *testing.T) {
	seen := map[uint32]keys.Key{}
	for _, k := range keys.AllKeys() {
		vk, ok := VirtualKey(k)
		if assert.True(t, ok, k.String()) {
			prev, dup := seen[vk]
			assert.False(t, dup, "%s and %s share vk %#x", k, prev, vk)
			seen[vk] = k
		}
	}
}

func TestVirtualKeyValues(t *testing.T) {
	tests := []struct {
		key  keys.Key
		want uint32
	}{
		{keys.KeyA, 0x41},
		{keys.KeyP, 0x50},
		{keys.Key0, 0x30},
		{keys.KeyF12, 0x7B},
		{keys.KeyEscape, 0x1B},
	}
	for _, tt := range tests {
		got, _ := VirtualKey(tt.key)
		assert.Equal(t, tt.want, got, tt.key.String())
	}
}

func TestModifiers(t *testing.T) {
	assert.Equal(t, uint32(modNoRepeat|modControl|modShift), Modifiers(keys.ModCtrl|keys.ModShift))
	assert.Equal(t, uint32(modNoRepeat|modAlt|modWin), Modifiers(keys.ModAlt|keys.ModSuper))
}
