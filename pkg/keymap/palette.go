// Package keymap contains the key bindings of the terminal palette.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// PaletteKeyMap defines key bindings for the palette TUI. Printable keys
// go to the query input, so no binding uses a bare letter.
type PaletteKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Select  key.Binding
	Dismiss key.Binding
	Clear   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// NewPaletteKeyMap creates a PaletteKeyMap with default bindings.
func NewPaletteKeyMap() PaletteKeyMap {
	return PaletteKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p", "shift+tab"),
			key.WithHelp("↑/ctrl+p", "previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n", "tab"),
			key.WithHelp("↓/ctrl+n", "next"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "run action"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "hide"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "clear query"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1", "ctrl+o"),
			key.WithHelp("f1", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view.
func (k PaletteKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Dismiss, k.Help}
}

// FullHelp returns keybindings for the expanded help view.
func (k PaletteKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Select, k.Clear},
		{k.Dismiss, k.Quit, k.Help},
	}
}
