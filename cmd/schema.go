package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/grovetools/palette/pkg/definition"
)

// newSchemaCmd creates the `schema` command.
func newSchemaCmd() *cobra.Command {
	var outPath string

	cmd := newCommand("schema", "Print the JSON schema for definition files")
	cmd.Long = `Print the JSON schema describing application definition files.

Point your editor's TOML or YAML language server at the schema to get
completion and validation while writing definitions.

Example usage:
  palette schema > definition.schema.json
  palette schema --output ~/.config/palette/definition.schema.json`
	cmd.Args = cobra.NoArgs
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write the schema to this file instead of stdout")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		data, err := definition.MarshalSchema()
		if err != nil {
			return err
		}
		if outPath == "" {
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		}
		if err := os.WriteFile(outPath, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("failed to write schema: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s\n", successStyle.Render(iconSuccess), outPath)
		return nil
	}
	return cmd
}
