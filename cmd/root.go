package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/grovetools/palette/pkg/config"
	"github.com/grovetools/palette/pkg/definition"
	"github.com/grovetools/palette/pkg/logger"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	ConfigPath  string
	Definitions string
	OS          string
	Verbose     bool
	LogFormat   string
}

var (
	globals     globalOptions
	rootWindows windowFlags
	appConfig   *config.Config
	rootCmd     = newRootCmd()
)

func newRootCmd() *cobra.Command {
	cmd := newCommand("palette", "Context-aware command palette for desktop applications")
	cmd.Long = `palette resolves which keyboard actions are available for the windows you
have open, ranks them against what you type, and surfaces them behind a
global activation hotkey.

Applications are described by definition files (TOML or YAML) in the
definitions directory. Run without a subcommand to open the palette for
the current context.`

	flags := cmd.PersistentFlags()
	flags.StringVar(&globals.ConfigPath, "config", "", "Path to config file (default "+config.DefaultPath()+")")
	flags.StringVar(&globals.Definitions, "definitions", "", "Definitions directory (overrides config)")
	flags.StringVar(&globals.OS, "os", "", "Resolve definitions for this OS: windows, macos or linux")
	flags.BoolVarP(&globals.Verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVar(&globals.LogFormat, "log-format", "", "Log format: text or json")

	rootWindows.register(cmd.Flags())

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runPaletteTUI(cmd)
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newMatrixCmd())
	cmd.AddCommand(newResolveCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newListenCmd())
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newSchemaCmd())
	cmd.AddCommand(newNewCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// newCommand returns a command with the settings every palette command
// shares.
func newCommand(use, short string) *cobra.Command {
	return &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the config file and applies flag overrides and logging
// settings.
func loadConfig() error {
	var (
		cfg *config.Config
		err error
	)
	if globals.ConfigPath != "" {
		cfg, err = config.LoadFromFile(globals.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if globals.Definitions != "" {
		cfg.DefinitionsDir = globals.Definitions
	}
	if globals.OS != "" {
		cfg.OS = globals.OS
	}
	if globals.LogFormat != "" {
		cfg.LogFormat = globals.LogFormat
	}
	if globals.Verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		return err
	}
	logger.SetFormat(cfg.LogFormat)

	appConfig = cfg
	logger.NewLogger("cmd").WithField("config", cfg.Path).Debug("Configuration loaded")
	return nil
}

// targetOS returns the OS definitions are resolved for.
func targetOS() definition.OS {
	os, err := appConfig.TargetOS()
	if err != nil {
		return definition.CurrentOS()
	}
	return os
}

// ExitWithError prints err to stderr and exits with status 1.
func ExitWithError(err error) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("Error: ")+err.Error())
	os.Exit(1)
}
