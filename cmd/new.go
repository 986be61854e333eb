package cmd

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/grovetools/palette/pkg/definition"
)

var appIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]*$`)

func newNewCmd() *cobra.Command {
	var (
		name    string
		process string
		force   bool
		stdout  bool
	)

	cmd := newCommand("new <id>", "Scaffold a new application definition")
	cmd.Long = `Create a definition file for a new application in the definitions
directory, with one example action for the target OS.

Examples:
  palette new chrome --name Chrome --process chrome.exe --os windows
  palette new code --process code --stdout`
	cmd.Args = cobra.ExactArgs(1)
	cmd.Flags().StringVar(&name, "name", "", "Display name (default: the id)")
	cmd.Flags().StringVar(&process, "process", "", "Process name on the target OS (default: the id)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing definition")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Print the definition instead of writing it")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		id := args[0]
		if !appIDPattern.MatchString(id) {
			return fmt.Errorf("invalid application id %q: use lower-case letters, digits, '.', '_' or '-'", id)
		}
		if name == "" {
			name = id
		}
		if process == "" {
			process = id
		}

		def := definition.Scaffold(id, name, targetOS(), process)
		if stdout {
			data, err := definition.MarshalTOML(def)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}

		path := filepath.Join(appConfig.DefinitionsDir, id+".toml")
		if err := definition.WriteFile(path, def, force); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Created %s\n", successStyle.Render(iconSuccess), path)
		return nil
	}
	return cmd
}
