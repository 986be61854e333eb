package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
)

func TestPaletteKeyMapHasNoLetterBindings(t *testing.T) {
	km := NewPaletteKeyMap()
	for _, group := range km.FullHelp() {
		for _, b := range group {
			for _, k := range b.Keys() {
				assert.Greater(t, len(k), 1, "binding %q would swallow query input", k)
			}
		}
	}
}

func TestPaletteKeyMapHelp(t *testing.T) {
	km := NewPaletteKeyMap()
	assert.Len(t, km.ShortHelp(), 3)
	assert.Equal(t, "run action", km.Select.Help().Desc)
	assert.True(t, key.Matches(keyMsg("esc"), km.Dismiss))
}

type keyMsg string

func (k keyMsg) String() string { return string(k) }
