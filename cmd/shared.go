package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/grovetools/palette/pkg/logger"
	"github.com/grovetools/palette/pkg/registry"
	"github.com/grovetools/palette/pkg/resolver"
)

// buildRegistry loads the configured definitions directory. An unreadable
// directory is logged and yields an empty registry, matching how the
// palette behaves at runtime.
func buildRegistry() *registry.Registry {
	reg, err := registry.Build(appConfig.DefinitionsDir, targetOS())
	if err != nil {
		logger.NewLogger("cmd").WithError(err).Warn("No definitions loaded")
	}
	return reg
}

// windowContext turns the window flags into a resolver context.
func windowContext(ctx context.Context, wf windowFlags) (resolver.ContextRoot, error) {
	if wf.Processes {
		root, err := resolver.ProcessContext(ctx, wf.ActivePID)
		if err != nil {
			return resolver.ContextRoot{}, err
		}
		if len(wf.Foreground) > 0 {
			root.Foreground = append(resolver.Windows(wf.Foreground...), root.Foreground...)
		}
		return root, nil
	}
	return resolver.ContextRoot{
		Foreground: resolver.Windows(wf.Foreground...),
		Background: resolver.Windows(wf.Background...),
	}, nil
}

// writeStructured renders v as json or yaml. ok is false for other formats.
func writeStructured(w io.Writer, format string, v any) (ok bool, err error) {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	case "", "table", "text":
		return false, nil
	}
	return true, fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
}

// errChecksFailed makes check exit non-zero without printing twice.
var errChecksFailed = errors.New("definition checks failed")

// stdoutIsTerminal reports whether stdout is an interactive terminal.
func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
