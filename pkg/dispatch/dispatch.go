// Package dispatch carries out the effect of a selected action.
package dispatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/palette/pkg/definition"
	"github.com/grovetools/palette/pkg/keys"
	"github.com/grovetools/palette/pkg/logger"
	"github.com/grovetools/palette/pkg/resolver"
)

// ErrNoInjector is returned for chord effects when no Injector is set.
var ErrNoInjector = errors.New("no keystroke injector configured")

// Injector sends a key chord to the application that owns it. Keystroke
// injection is platform specific and lives outside this module.
type Injector interface {
	Inject(ctx context.Context, app string, chord keys.KeyChord) error
}

// InjectorFunc adapts a function to Injector.
type InjectorFunc func(ctx context.Context, app string, chord keys.KeyChord) error

// Inject implements Injector.
func (f InjectorFunc) Inject(ctx context.Context, app string, chord keys.KeyChord) error {
	return f(ctx, app, chord)
}

// Dispatcher executes action effects.
type Dispatcher struct {
	Injector Injector
	// Dir is the working directory for commands.
	Dir string

	log *logrus.Entry
}

// New returns a dispatcher using injector for chord effects. injector may
// be nil, in which case chord effects fail with ErrNoInjector.
func New(injector Injector) *Dispatcher {
	return &Dispatcher{Injector: injector, log: logger.NewLogger("dispatch")}
}

// Dispatch performs u's effect.
func (d *Dispatcher) Dispatch(ctx context.Context, u resolver.UnitAction) error {
	log := d.log.WithFields(logrus.Fields{
		"app":    u.AppID,
		"action": u.ActionKey,
		"effect": u.Effect.Kind,
	})

	switch u.Effect.Kind {
	case definition.EmitChord:
		if d.Injector == nil {
			return ErrNoInjector
		}
		log.WithField("chord", u.Effect.Chord).Debug("Injecting chord")
		if err := d.Injector.Inject(ctx, string(u.AppID), u.Effect.Chord); err != nil {
			return fmt.Errorf("inject %s into %s: %w", u.Effect.Chord, u.AppID, err)
		}
		return nil

	case definition.RunCommand:
		if len(u.Effect.Command) == 0 {
			return fmt.Errorf("action %s.%s has an empty command", u.AppID, u.ActionKey)
		}
		log.WithField("command", u.Effect.Command).Debug("Running command")
		return d.run(ctx, u.Effect.Command)
	}
	return fmt.Errorf("unknown effect kind %v", u.Effect.Kind)
}

func (d *Dispatcher) run(ctx context.Context, argv []string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = d.Dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("%s: %w: %s", argv[0], err, msg)
		}
		return fmt.Errorf("%s: %w", argv[0], err)
	}
	return nil
}
