package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grovetools/palette/pkg/resolver"
)

// resolvedAction is the structured form of one resolved action.
type resolvedAction struct {
	App        string   `json:"app" yaml:"app"`
	Action     string   `json:"action" yaml:"action"`
	Label      string   `json:"label" yaml:"label"`
	FocusState string   `json:"focus_state" yaml:"focus_state"`
	Chord      string   `json:"chord" yaml:"chord"`
	Priority   string   `json:"priority" yaml:"priority"`
	Command    []string `json:"command,omitempty" yaml:"command,omitempty"`
}

func toResolved(u resolver.UnitAction) resolvedAction {
	return resolvedAction{
		App:        string(u.AppID),
		Action:     u.ActionKey,
		Label:      u.Label(),
		FocusState: u.FocusState.String(),
		Chord:      u.Chord.String(),
		Priority:   u.Priority.String(),
		Command:    u.Effect.Command,
	}
}

func newResolveCmd() *cobra.Command {
	var (
		wf     windowFlags
		output string
	)

	cmd := newCommand("resolve", "Show the actions available for a window context")
	cmd.Long = `Resolve the actions the palette would offer for a set of windows.

Windows are given as process names. The first --foreground entry is the
active window; its focused actions are offered. Background windows
contribute their background actions, and every application contributes its
global actions.

Examples:
  palette resolve --foreground chrome.exe --background slack.exe
  palette resolve --processes --active-pid 4242 --output json`
	cmd.Args = cobra.NoArgs
	wf.register(cmd.Flags())
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table, json or yaml")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		root, err := windowContext(cmd.Context(), wf)
		if err != nil {
			return fmt.Errorf("failed to read window context: %w", err)
		}
		actions := resolver.Resolve(buildRegistry(), root)

		w := cmd.OutOrStdout()
		structured := make([]resolvedAction, 0, len(actions))
		for _, a := range actions {
			structured = append(structured, toResolved(a))
		}
		if ok, err := writeStructured(w, output, structured); ok {
			return err
		}

		if len(actions) == 0 {
			fmt.Fprintln(w, faintStyle.Render("No actions available for this context."))
			return nil
		}
		for _, a := range actions {
			fmt.Fprintf(w, "%-10s %-40s %s\n",
				faintStyle.Render(a.FocusState.String()), a.Label(), chordStyle.Render(a.Chord.String()))
		}
		return nil
	}
	return cmd
}
