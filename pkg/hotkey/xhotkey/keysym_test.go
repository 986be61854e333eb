package xhotkey

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grovetools/palette/pkg/keys"
)

func TestEveryKeyHasAKeysym(t *testing.T) {
	for _, k := range keys.AllKeys() {
		_, ok := Keysym(k)
		assert.True(t, ok, k.String())
	}
}

func TestKeysymValues(t *testing.T) {
	sym, _ := Keysym(keys.KeyP)
	assert.Equal(t, uint16(0x0070), sym)
	sym, _ = Keysym(keys.KeyF1)
	assert.Equal(t, uint16(0xffbe), sym)
}

func TestModMask(t *testing.T) {
	assert.Equal(t, uint32(maskCtrl|maskShift), ModMask(keys.ModCtrl|keys.ModShift))
	assert.Equal(t, uint32(maskMod1|maskMod4), ModMask(keys.ModAlt|keys.ModSuper))
}
