package resolver

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/palette/pkg/definition"
	"github.com/grovetools/palette/pkg/keys"
	"github.com/grovetools/palette/pkg/registry"
)

func action(key string, focus definition.FocusState, k keys.Key) definition.Action {
	return definition.Action{
		Key:        key,
		Name:       key,
		Chord:      keys.KeyChord{Mods: keys.ModCtrl, Key: k},
		FocusState: focus,
	}
}

func singleApp() *registry.Registry {
	x := definition.NewApplication("x", "X", "x.exe", definition.ApplicationPriority,
		action("bg", definition.Background, keys.KeyB),
		action("fg", definition.Focused, keys.KeyF),
	)
	return registry.New(definition.Windows, x)
}

func keysOf(actions []UnitAction) []string {
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		out = append(out, string(a.AppID)+"."+a.ActionKey)
	}
	return out
}

func TestResolveBackgroundOnly(t *testing.T) {
	got := Resolve(singleApp(), ContextRoot{Background: Windows("x.exe")})

	require.Len(t, got, 1)
	assert.Equal(t, "bg", got[0].ActionKey)
	assert.Equal(t, definition.Background, got[0].FocusState)
}

func TestResolveForegroundOnly(t *testing.T) {
	got := Resolve(singleApp(), ContextRoot{Foreground: Windows("x.exe")})

	require.Len(t, got, 1)
	assert.Equal(t, "fg", got[0].ActionKey)
	assert.Equal(t, definition.Focused, got[0].FocusState, "focused actions keep their own tag")
	assert.Equal(t, "X", got[0].AppName)
	assert.Equal(t, definition.ActionID(1), got[0].ActionID)
}

func multiApp() *registry.Registry {
	editor := definition.NewApplication("editor", "Editor", "code", definition.ApplicationPriority,
		action("save", definition.Focused, keys.KeyS),
		action("palette", definition.Global, keys.KeyP),
		action("sync", definition.Background, keys.KeyY),
	)
	browser := definition.NewApplication("browser", "Browser", "firefox", definition.ApplicationExtensions,
		action("tab", definition.Focused, keys.KeyT),
		action("mute", definition.Background, keys.KeyM),
		action("bookmarks", definition.Global, keys.KeyB),
		action("history", definition.Global, keys.KeyH),
	)
	music := definition.NewApplication("music", "Music", "spotify", definition.ApplicationPriority,
		action("play", definition.Background, keys.KeySpace),
	)
	return registry.New(definition.Linux, editor, browser, music)
}

func TestResolveOrdering(t *testing.T) {
	ctx := ContextRoot{
		Foreground: Windows("firefox", "code"),
		Background: Windows("spotify", "code", "unknown", "spotify"),
	}

	got := Resolve(multiApp(), ctx)
	assert.Equal(t, []string{
		"music.play",
		"editor.sync",
		"browser.tab",
		"browser.bookmarks",
		"browser.history",
		"editor.palette",
	}, keysOf(got))

	for _, a := range got {
		switch a.ActionKey {
		case "play", "sync":
			assert.Equal(t, definition.Background, a.FocusState)
		case "tab":
			assert.Equal(t, definition.Focused, a.FocusState)
			assert.Equal(t, definition.ApplicationExtensions, a.Priority)
		default:
			assert.Equal(t, definition.Global, a.FocusState)
		}
	}
}

func TestResolveEmptyContextStillOffersGlobals(t *testing.T) {
	got := Resolve(multiApp(), ContextRoot{})
	assert.Equal(t, []string{"browser.bookmarks", "browser.history", "editor.palette"}, keysOf(got))
}

func TestResolveGlobalsAreNotDuplicated(t *testing.T) {
	ctx := ContextRoot{
		Foreground: Windows("code"),
		Background: Windows("code", "firefox"),
	}
	got := Resolve(multiApp(), ctx)

	seen := map[string]int{}
	for _, k := range keysOf(got) {
		seen[k]++
	}
	for k, n := range seen {
		assert.Equal(t, 1, n, k)
	}
	assert.Equal(t, 1, seen["editor.palette"])
}

type unknownWindow struct{}

func (unknownWindow) ProcessName() (string, bool) { return "", false }

func TestResolveSkipsUnresolvableWindows(t *testing.T) {
	ctx := ContextRoot{
		Foreground: []Window{unknownWindow{}},
		Background: []Window{nil, unknownWindow{}, StaticWindow("")},
	}
	got := Resolve(singleApp(), ctx)
	assert.Empty(t, got)
}

func TestResolveIsDeterministicAndReadOnly(t *testing.T) {
	reg := multiApp()
	ctx := ContextRoot{Foreground: Windows("code"), Background: Windows("firefox")}

	first := Resolve(reg, ctx)
	second := Resolve(reg, ctx)
	assert.Equal(t, first, second)
	assert.Equal(t, 3, reg.Len())
}

func TestUnitActionLabel(t *testing.T) {
	u := UnitAction{AppName: "Chrome", Name: "New tab"}
	assert.Equal(t, "Chrome: New tab", u.Label())
}

func TestProcessWindowResolvesSelf(t *testing.T) {
	w := ProcessWindow{PID: int32(os.Getpid())}
	name, ok := w.ProcessName()
	require.True(t, ok)
	assert.NotEmpty(t, name)

	_, ok = ProcessWindow{PID: -1}.ProcessName()
	assert.False(t, ok)
}

func TestProcessContext(t *testing.T) {
	root, err := ProcessContext(context.Background(), int32(os.Getpid()))
	require.NoError(t, err)
	require.Len(t, root.Foreground, 1)
	assert.NotEmpty(t, root.Background)
}
