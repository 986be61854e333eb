package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/grovetools/palette/pkg/keys"
)

func newMatrixCmd() *cobra.Command {
	var jsonOutput bool
	var conflictsOnly bool

	cmd := newCommand("matrix", "View a matrix of chords across applications")
	cmd.Long = `Display a spreadsheet-style matrix showing what each chord does in each
application.

This gives a quick overview of chord usage across your definitions and
highlights chords that mean different things in different applications.

Use --conflicts to show only rows where the meaning differs.
Use --json for machine-readable output.`
	cmd.Args = cobra.NoArgs
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output matrix in JSON format")
	cmd.Flags().BoolVar(&conflictsOnly, "conflicts", false, "Show only inconsistent rows")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		matrix := keys.BuildMatrix(buildRegistry().Bindings())

		out := cmd.OutOrStdout()
		if jsonOutput {
			_, err := writeStructured(out, "json", matrix)
			return err
		}

		if len(matrix.Rows) == 0 {
			fmt.Fprintln(out, faintStyle.Render("No chords bound."))
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

		header := []string{"CHORD"}
		for _, app := range matrix.AppNames {
			if len(app) > 15 {
				app = app[:12] + "..."
			}
			header = append(header, app)
		}
		header = append(header, "STATUS")
		fmt.Fprintln(w, boldStyle.Render(strings.Join(header, "\t")))

		sep := make([]string, len(header))
		for i := range sep {
			sep[i] = "─────"
		}
		fmt.Fprintln(w, faintStyle.Render(strings.Join(sep, "\t")))

		consistentCount := 0
		conflictCount := 0
		specificCount := 0

		for _, row := range matrix.Rows {
			if conflictsOnly && row.Consistent {
				continue
			}

			cells := []string{highlightStyle.Render(row.Chord)}
			for _, app := range matrix.AppNames {
				val := "-"
				if action, ok := row.Apps[app]; ok {
					val = action
				}
				cells = append(cells, val)
			}

			var status string
			switch {
			case !row.Consistent:
				status = warningStyle.Render(iconWarning + " DIFFERS")
				conflictCount++
			case len(row.Apps) == 1:
				status = faintStyle.Render("APP SPECIFIC")
				specificCount++
			default:
				status = successStyle.Render(iconSuccess + " CONSISTENT")
				consistentCount++
			}
			cells = append(cells, status)
			fmt.Fprintln(w, strings.Join(cells, "\t"))
		}
		w.Flush()

		fmt.Fprintln(out)
		fmt.Fprintf(out, "%s  Consistent: %d  │  Differs: %d  │  App-specific: %d\n",
			faintStyle.Render("Summary:"), consistentCount, conflictCount, specificCount)
		return nil
	}

	return cmd
}
