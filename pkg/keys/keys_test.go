package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChord(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    KeyChord
		wantErr bool
	}{
		{name: "ctrl shift p", input: "Ctrl+Shift+P", want: KeyChord{Mods: ModCtrl | ModShift, Key: KeyP}},
		{name: "bare key", input: "f5", want: KeyChord{Key: KeyF5}},
		{name: "cmd is super", input: "cmd+t", want: KeyChord{Mods: ModSuper, Key: KeyT}},
		{name: "win is super", input: "win+e", want: KeyChord{Mods: ModSuper, Key: KeyE}},
		{name: "alias", input: "alt+pgup", want: KeyChord{Mods: ModAlt, Key: KeyPageUp}},
		{name: "punctuation", input: "ctrl+/", want: KeyChord{Mods: ModCtrl, Key: KeySlash}},
		{name: "plus key", input: "ctrl++", want: KeyChord{Mods: ModCtrl, Key: KeyEqual}},
		{name: "spaces", input: " ctrl + tab ", want: KeyChord{Mods: ModCtrl, Key: KeyTab}},
		{name: "empty", input: "", wantErr: true},
		{name: "unknown key", input: "ctrl+banana", wantErr: true},
		{name: "unknown modifier", input: "hyper+a", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseChord(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChordString(t *testing.T) {
	c := KeyChord{Mods: ModSuper | ModShift | ModCtrl, Key: KeyP}
	assert.Equal(t, "ctrl+shift+super+p", c.String())
	assert.Equal(t, "escape", KeyChord{Key: KeyEscape}.String())

	// Round trip through the canonical form for every key
	for _, k := range AllKeys() {
		chord := KeyChord{Mods: ModAlt, Key: k}
		parsed, err := ParseChord(chord.String())
		require.NoError(t, err, chord.String())
		assert.Equal(t, chord, parsed)
	}
}

func TestChordIsMapKey(t *testing.T) {
	a, err := ParseChord("ctrl+t")
	require.NoError(t, err)
	b, err := ChordFromParts([]string{"control"}, "T")
	require.NoError(t, err)

	m := map[KeyChord]string{a: "new tab"}
	assert.Equal(t, "new tab", m[b])
}

func TestUnmarshalText(t *testing.T) {
	var c KeyChord
	require.NoError(t, c.UnmarshalText([]byte("shift+f10")))
	assert.Equal(t, KeyChord{Mods: ModShift, Key: KeyF10}, c)

	var unknown *UnknownKeyError
	assert.ErrorAs(t, c.UnmarshalText([]byte("shift+nope")), &unknown)
}

func TestDetectConflicts(t *testing.T) {
	ctrlT := KeyChord{Mods: ModCtrl, Key: KeyT}
	bindings := []Binding{
		{App: "chrome", Bucket: "focused", ActionKey: "new_tab", Action: "New tab", Chord: ctrlT},
		{App: "chrome", Bucket: "focused", ActionKey: "reopen", Action: "Reopen", Chord: ctrlT},
		// Same chord in another bucket is not a conflict
		{App: "chrome", Bucket: "global", ActionKey: "launch", Action: "Launch", Chord: ctrlT},
		// Same chord in another app is not a conflict
		{App: "firefox", Bucket: "focused", ActionKey: "new_tab", Action: "New tab", Chord: ctrlT},
	}

	conflicts := DetectConflicts(bindings)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "chrome", conflicts[0].App)
	assert.Equal(t, ctrlT, conflicts[0].Chord)
	assert.Len(t, conflicts[0].Bindings, 2)
	assert.Len(t, GroupConflictsByApp(conflicts)["chrome"], 1)
	assert.Empty(t, GroupConflictsByApp(conflicts)["firefox"])
}

func TestBuildMatrix(t *testing.T) {
	ctrlT := KeyChord{Mods: ModCtrl, Key: KeyT}
	ctrlW := KeyChord{Mods: ModCtrl, Key: KeyW}
	report := BuildMatrix([]Binding{
		{App: "chrome", Action: "New Tab", Chord: ctrlT},
		{App: "firefox", Action: "new_tab", Chord: ctrlT},
		{App: "chrome", Action: "Close tab", Chord: ctrlW},
		{App: "code", Action: "Close editor", Chord: ctrlW},
	})

	assert.Equal(t, []string{"chrome", "code", "firefox"}, report.AppNames)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, "ctrl+t", report.Rows[0].Chord)
	assert.True(t, report.Rows[0].Consistent)
	assert.Equal(t, "ctrl+w", report.Rows[1].Chord)
	assert.False(t, report.Rows[1].Consistent)
}
