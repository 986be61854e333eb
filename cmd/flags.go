package cmd

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/grovetools/palette/pkg/keys"
)

// chordListValue is a repeatable chord flag, e.g.
// --chord ctrl+shift+p --chord alt+space. Values may also be comma
// separated.
type chordListValue struct {
	chords  *[]keys.KeyChord
	changed bool
}

var _ pflag.Value = (*chordListValue)(nil)

func newChordListValue(p *[]keys.KeyChord) *chordListValue {
	return &chordListValue{chords: p}
}

func (v *chordListValue) Set(s string) error {
	if !v.changed {
		*v.chords = nil
		v.changed = true
	}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		chord, err := keys.ParseChord(part)
		if err != nil {
			return err
		}
		*v.chords = append(*v.chords, chord)
	}
	return nil
}

func (v *chordListValue) String() string {
	if v.chords == nil {
		return ""
	}
	return formatChords(*v.chords)
}

// formatChords renders chords in canonical form, comma separated.
func formatChords(chords []keys.KeyChord) string {
	parts := make([]string, 0, len(chords))
	for _, c := range chords {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, ",")
}

func (v *chordListValue) Type() string {
	return "chords"
}

// windowFlags are the context flags shared by resolve, search and the TUI.
type windowFlags struct {
	Foreground []string
	Background []string
	Processes  bool
	ActivePID  int32
}

func (w *windowFlags) register(fs *pflag.FlagSet) {
	fs.StringSliceVar(&w.Foreground, "foreground", nil, "Foreground process names, active window first")
	fs.StringSliceVar(&w.Background, "background", nil, "Background process names")
	fs.BoolVar(&w.Processes, "processes", false, "Use every running process as a background window")
	fs.Int32Var(&w.ActivePID, "active-pid", 0, "PID of the active window's process (with --processes)")
}
