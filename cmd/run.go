package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/grovetools/palette/pkg/dispatch"
	"github.com/grovetools/palette/pkg/hotkey"
	"github.com/grovetools/palette/pkg/keys"
	"github.com/grovetools/palette/pkg/logger"
	"github.com/grovetools/palette/pkg/registry"
	"github.com/grovetools/palette/pkg/resolver"
	"github.com/grovetools/palette/pkg/watch"
)

type runOptions struct {
	windows  windowFlags
	headless bool
	noWatch  bool
}

func newRunCmd() *cobra.Command {
	var opts runOptions

	cmd := newCommand("run", "Run the palette behind the global activation hotkey")
	cmd.Long = `Run the palette as a long-lived process. The activation chords from the
config file are registered as global hotkeys; pressing one opens the
palette for the current window context. Definitions are reloaded when
files in the definitions directory change.

Without a terminal (or with --headless) activations print the resolved
actions instead of opening the palette.`
	cmd.Args = cobra.NoArgs
	opts.windows.register(cmd.Flags())
	cmd.Flags().BoolVar(&opts.headless, "headless", false, "Print actions on activation instead of opening the palette")
	cmd.Flags().BoolVar(&opts.noWatch, "no-watch", false, "Do not reload definitions when they change")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if !opts.headless && !stdoutIsTerminal() {
			opts.headless = true
		}
		return runPalette(cmd.Context(), cmd.OutOrStdout(), opts)
	}
	return cmd
}

func runPalette(parent context.Context, out io.Writer, opts runOptions) error {
	log := logger.NewLogger("run")

	chords, err := appConfig.ActivationChords()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := registry.NewStore(appConfig.DefinitionsDir, targetOS())
	if reg, err := store.Rebuild(); err != nil {
		log.WithError(err).Warn("Starting without definitions")
	} else {
		log.WithField("applications", reg.Len()).Info("Definitions loaded")
	}

	currentActions := func() []resolver.UnitAction {
		root, err := windowContext(ctx, opts.windows)
		if err != nil {
			log.WithError(err).Warn("Failed to read window context")
			return nil
		}
		return resolver.Resolve(store.Current(), root)
	}

	handle, err := hotkey.Start(platformBackend(), chords...)
	if err != nil {
		if opts.headless {
			return fmt.Errorf("failed to register activation hotkey: %w", err)
		}
		log.WithError(err).Warn("Global hotkey unavailable, palette stays open")
		handle = nil
	}

	var program *tea.Program
	if !opts.headless {
		m := newPaletteModel(paletteOptions{
			Scorer:     appConfig.ScorerImpl(),
			MaxResults: appConfig.MaxResults,
			Actions:    currentActions,
			Dispatch:   dispatch.New(nil).Dispatch,
			Resident:   true,
			Activation: formatChords(chords),
		})
		if handle == nil {
			m = m.open()
		}
		program = tea.NewProgram(m, tea.WithContext(ctx))
	}

	if appConfig.Watch && !opts.noWatch {
		w, err := watch.New(store,
			watch.WithDebounce(appConfig.Debounce.Duration),
			watch.OnRebuild(func(reg *registry.Registry, err error) {
				if program != nil {
					program.Send(registryMsg{apps: reg.Len(), err: err})
				}
			}))
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			log.WithError(err).Warn("Not watching definitions")
		} else {
			defer w.Stop()
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	if handle != nil {
		g.Go(func() error {
			return pumpHotkeys(gctx, handle, func(chord keys.KeyChord) {
				log.WithField("chord", chord).Debug("Activation")
				if program != nil {
					program.Send(activateMsg{})
					return
				}
				printActivation(out, currentActions())
			})
		})
	}

	if program != nil {
		g.Go(func() error {
			defer stop()
			_, err := program.Run()
			if errors.Is(err, tea.ErrProgramKilled) {
				return nil
			}
			return err
		})
	} else {
		fmt.Fprintf(out, "%s Waiting for %s (ctrl+c to stop)\n",
			successStyle.Render(iconSuccess), chordStyle.Render(formatChords(chords)))
		g.Go(func() error {
			<-gctx.Done()
			return nil
		})
	}

	runErr := g.Wait()
	if handle != nil {
		if err := handle.Stop(); err != nil {
			log.WithFields(logrus.Fields{"state": handle.State()}).WithError(err).Error("Hotkey listener did not stop cleanly")
			if runErr == nil {
				runErr = err
			}
		}
	}
	return runErr
}

// printActivation writes the actions resolved for one headless activation.
func printActivation(out io.Writer, actions []resolver.UnitAction) {
	fmt.Fprintf(out, "%s %d actions\n", headerStyle.Render("Activated:"), len(actions))
	for _, r := range rankActions(appConfig.ScorerImpl(), "", actions, appConfig.MaxResults) {
		fmt.Fprintf(out, "  %s  %s\n", r.Item.Label(), chordStyle.Render(r.Item.Chord.String()))
	}
}
