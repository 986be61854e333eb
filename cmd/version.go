package cmd

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"github.com/grovetools/palette/pkg/version"
)

func newVersionCmd() *cobra.Command {
	var (
		jsonOutput bool
		check      string
	)

	cmd := newCommand("version", "Print version information")
	cmd.Long = `Print version information.

Use --check to test the running version against a semver constraint, the
same way a definition's 'requires' field is checked.

Example:
  palette version --check ">= 0.3.0"`
	cmd.Args = cobra.NoArgs
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version information in JSON format")
	cmd.Flags().StringVar(&check, "check", "", "Exit with an error unless the version satisfies this constraint")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if check != "" {
			c, err := semver.NewConstraint(check)
			if err != nil {
				return fmt.Errorf("invalid constraint %q: %w", check, err)
			}
			if !c.Check(version.Semver()) {
				return fmt.Errorf("palette %s does not satisfy %s", version.Version, check)
			}
			fmt.Fprintf(out, "%s %s satisfies %s\n", successStyle.Render(iconSuccess), version.Version, check)
			return nil
		}

		if jsonOutput {
			_, err := writeStructured(out, "json", map[string]string{
				"version": version.Version,
				"commit":  version.Commit,
				"date":    version.Date,
			})
			return err
		}
		fmt.Fprintln(out, version.String())
		return nil
	}
	return cmd
}
