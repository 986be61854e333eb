package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/grovetools/palette/pkg/registry"
)

// listedAction is the structured form of one action in list output.
type listedAction struct {
	App        string   `json:"app" yaml:"app"`
	AppName    string   `json:"app_name" yaml:"app_name"`
	Process    string   `json:"process" yaml:"process"`
	ID         int      `json:"id" yaml:"id"`
	Action     string   `json:"action" yaml:"action"`
	Name       string   `json:"name" yaml:"name"`
	FocusState string   `json:"focus_state" yaml:"focus_state"`
	Chord      string   `json:"chord" yaml:"chord"`
	Effect     string   `json:"effect" yaml:"effect"`
	Command    []string `json:"command,omitempty" yaml:"command,omitempty"`
}

func newListCmd() *cobra.Command {
	var (
		output string
		app    string
	)

	cmd := newCommand("list", "List loaded applications and their actions")
	cmd.Long = `Load every definition in the definitions directory for the target OS and
list the resulting actions.

Examples:
  palette list
  palette list --app chrome --output yaml
  palette list --os windows --output json`
	cmd.Args = cobra.NoArgs
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table, json or yaml")
	cmd.Flags().StringVar(&app, "app", "", "Only list this application id")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runList(cmd, output, app)
	}
	return cmd
}

func collectActions(reg *registry.Registry, only string) ([]listedAction, error) {
	ids := reg.IDs()
	if only != "" {
		if _, ok := reg.Application(registry.ApplicationID(only)); !ok {
			return nil, fmt.Errorf("no application with id %q", only)
		}
		ids = []registry.ApplicationID{registry.ApplicationID(only)}
	}

	var out []listedAction
	for _, id := range ids {
		app, _ := reg.Application(id)
		for _, a := range app.Actions() {
			out = append(out, listedAction{
				App:        app.ID,
				AppName:    app.Name,
				Process:    app.ProcessName,
				ID:         int(a.ID),
				Action:     a.Key,
				Name:       a.Name,
				FocusState: a.FocusState.String(),
				Chord:      a.Chord.String(),
				Effect:     a.Effect.Kind.String(),
				Command:    a.Effect.Command,
			})
		}
	}
	return out, nil
}

func runList(cmd *cobra.Command, output, app string) error {
	reg := buildRegistry()
	actions, err := collectActions(reg, app)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if ok, err := writeStructured(w, output, actions); ok {
		return err
	}

	if len(actions) == 0 {
		fmt.Fprintln(w, faintStyle.Render(fmt.Sprintf("No actions loaded from %s", appConfig.DefinitionsDir)))
		return nil
	}

	rows := make([][]string, 0, len(actions))
	for _, a := range actions {
		effect := a.Effect
		if len(a.Command) > 0 {
			effect = "run " + strings.Join(a.Command, " ")
		}
		rows = append(rows, []string{a.AppName, a.Name, a.FocusState, a.Chord, effect})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(faintStyle).
		Headers("APPLICATION", "ACTION", "FOCUS", "CHORD", "EFFECT").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return boldStyle.Padding(0, 1)
			}
			if col == 3 {
				return chordStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "%s %d applications, %d actions (%s)\n",
		faintStyle.Render("Summary:"), reg.Len(), len(actions), reg.OS())
	return nil
}
