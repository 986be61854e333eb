package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/grovetools/palette/pkg/hotkey"
	"github.com/grovetools/palette/pkg/keys"
)

func newListenCmd() *cobra.Command {
	var chords []keys.KeyChord

	cmd := newCommand("listen", "Register global hotkeys and print them as they fire")
	cmd.Long = `Register global hotkeys with the operating system and print every chord
that fires until interrupted. Defaults to the activation chords from the
config file.

Examples:
  palette listen
  palette listen --chord ctrl+alt+space --chord super+p`
	cmd.Args = cobra.NoArgs
	cmd.Flags().Var(newChordListValue(&chords), "chord", "Chord to register (repeatable or comma separated)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(chords) == 0 {
			var err error
			if chords, err = appConfig.ActivationChords(); err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		h, err := hotkey.Start(platformBackend(), chords...)
		if err != nil {
			return fmt.Errorf("failed to register hotkeys: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s Listening for %s (ctrl+c to stop)\n",
			successStyle.Render(iconSuccess), chordStyle.Render(formatChords(chords)))

		pumpErr := pumpHotkeys(ctx, h, func(chord keys.KeyChord) {
			fmt.Fprintln(out, chordStyle.Render(chord.String()))
		})
		if err := h.Stop(); err != nil {
			return err
		}
		return pumpErr
	}
	return cmd
}

// pumpHotkeys calls fn for every event on h until ctx is done or h stops.
func pumpHotkeys(ctx context.Context, h *hotkey.Handle, fn func(keys.KeyChord)) error {
	for {
		ev, err := h.Events().Recv(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, hotkey.ErrClosed) {
				return nil
			}
			return err
		}
		if chord, ok := h.Chord(ev); ok {
			fn(chord)
		}
	}
}
