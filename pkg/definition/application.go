package definition

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/sirupsen/logrus"

	"github.com/grovetools/palette/pkg/keys"
	"github.com/grovetools/palette/pkg/logger"
	"github.com/grovetools/palette/pkg/version"
)

// ActionID identifies an action within one resolved Application. IDs are
// dense from 0 in declaration order and are not portable across loads.
type ActionID int

// EffectKind enumerates what invoking an action does.
type EffectKind int

const (
	// EmitChord sends the action's key chord to the target application.
	EmitChord EffectKind = iota
	// RunCommand executes an external command.
	RunCommand
)

func (k EffectKind) String() string {
	switch k {
	case EmitChord:
		return "emit"
	case RunCommand:
		return "run"
	}
	return fmt.Sprintf("EffectKind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k EffectKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Effect is the closed set of things an action can do when selected.
type Effect struct {
	Kind    EffectKind
	Chord   keys.KeyChord
	Command []string
}

// Action is a resolved action: every field is concrete for one OS.
type Action struct {
	ID         ActionID
	Key        string
	Name       string
	Chord      keys.KeyChord
	FocusState FocusState
	Effect     Effect
}

// Application is a definition resolved for a single OS.
type Application struct {
	ID          string
	Name        string
	ProcessName string
	Priority    Priority
	Source      string

	actions []Action
}

// NewApplication assembles an Application from already resolved actions,
// assigning dense ActionIDs in slice order. Adapters and tests use it to
// build applications without a definition file.
func NewApplication(id, name, process string, priority Priority, actions ...Action) *Application {
	app := &Application{ID: id, Name: name, ProcessName: process, Priority: priority}
	for _, a := range actions {
		a.ID = ActionID(len(app.actions))
		if a.Effect.Kind == EmitChord && a.Effect.Chord.IsZero() {
			a.Effect.Chord = a.Chord
		}
		app.actions = append(app.actions, a)
	}
	return app
}

// Action returns the action with the given id.
func (a *Application) Action(id ActionID) (Action, bool) {
	if id < 0 || int(id) >= len(a.actions) {
		return Action{}, false
	}
	return a.actions[id], true
}

// Actions returns a copy of the actions in ActionID order.
func (a *Application) Actions() []Action {
	out := make([]Action, len(a.actions))
	copy(out, a.actions)
	return out
}

// Len returns the number of resolved actions.
func (a *Application) Len() int {
	return len(a.actions)
}

// Resolve produces the Application for os. A missing process name fails the
// whole definition; per-action problems drop that action and are returned
// as issues in declaration order.
func (d *Definition) Resolve(os OS) (*Application, []*ActionError, error) {
	process := strings.TrimSpace(d.App.OS.For(os))
	if process == "" {
		return nil, nil, &MissingOsBindingError{App: d.App.ID, OS: os}
	}

	priority, err := ParsePriority(d.App.DefaultPriority)
	if err != nil {
		return nil, nil, &ParseError{Err: fmt.Errorf("app.default_priority: %w", err)}
	}

	var (
		defaultFocus    FocusState
		hasDefaultFocus bool
	)
	if d.App.DefaultFocusState != "" {
		defaultFocus, err = ParseFocusState(d.App.DefaultFocusState)
		if err != nil {
			return nil, nil, &ParseError{Err: fmt.Errorf("app.default_focus_state: %w", err)}
		}
		hasDefaultFocus = true
	}

	app := &Application{
		ID:          d.App.ID,
		Name:        d.App.Name,
		ProcessName: process,
		Priority:    priority,
	}

	var issues []*ActionError
	for _, key := range d.ActionKeys() {
		block := d.Actions[key]
		action, issue := d.resolveAction(key, block, os, defaultFocus, hasDefaultFocus)
		if issue != nil {
			issues = append(issues, issue)
			continue
		}
		action.ID = ActionID(len(app.actions))
		app.actions = append(app.actions, action)
	}
	return app, issues, nil
}

func (d *Definition) resolveAction(key string, block ActionBlock, os OS, defaultFocus FocusState, hasDefault bool) (Action, *ActionError) {
	fail := func(kind, cause error) (Action, *ActionError) {
		return Action{}, &ActionError{App: d.App.ID, Action: key, Kind: kind, Cause: cause}
	}

	spec := block.Cmd.For(os)
	if spec == nil {
		return fail(ErrMissingActionBinding, nil)
	}
	chord, err := keys.ChordFromParts(spec.Mods, spec.Key)
	if err != nil {
		return fail(ErrInvalidChord, err)
	}

	focus := defaultFocus
	switch {
	case block.FocusState != "":
		focus, err = ParseFocusState(block.FocusState)
		if err != nil {
			return fail(ErrInvalidFocusState, err)
		}
	case !hasDefault:
		return fail(ErrMissingFocusState, nil)
	}

	effect := Effect{Kind: EmitChord, Chord: chord}
	if block.Run != nil {
		if len(block.Run) == 0 || strings.TrimSpace(block.Run[0]) == "" {
			return fail(ErrInvalidCommand, nil)
		}
		effect = Effect{Kind: RunCommand, Chord: chord, Command: append([]string(nil), block.Run...)}
	}

	name := block.Name
	if name == "" {
		name = key
	}
	return Action{
		Key:        key,
		Name:       name,
		Chord:      chord,
		FocusState: focus,
		Effect:     effect,
	}, nil
}

// CheckRequires verifies the definition's requires constraint against v.
// Definitions without a constraint always pass.
func (d *Definition) CheckRequires(v *semver.Version) error {
	if strings.TrimSpace(d.App.Requires) == "" {
		return nil
	}
	c, err := semver.NewConstraint(d.App.Requires)
	if err != nil {
		return &ParseError{Err: fmt.Errorf("app.requires: %w", err)}
	}
	if ok, errs := c.Validate(v); !ok {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		return &ParseError{Err: fmt.Errorf("palette %s does not satisfy %q: %s", v, d.App.Requires, strings.Join(msgs, "; "))}
	}
	return nil
}

// Load reads the definition at path and resolves it for os. Skipped actions
// are logged as warnings and returned; the error is fatal to this
// definition.
func Load(path string, os OS) (*Application, []*ActionError, error) {
	log := logger.NewLogger("definition").WithField("file", path)

	def, err := LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	for _, key := range def.Undecoded() {
		log.WithField("key", key).Warn("Unknown key in definition")
	}
	if err := def.CheckRequires(version.Semver()); err != nil {
		return nil, nil, withPath(err, path)
	}

	app, issues, err := def.Resolve(os)
	if err != nil {
		return nil, nil, withPath(err, path)
	}
	app.Source = path

	for _, issue := range issues {
		log.WithFields(logrus.Fields{
			"app":    issue.App,
			"action": issue.Action,
		}).Warnf("Skipping action: %v", issue)
	}
	return app, issues, nil
}

func withPath(err error, path string) error {
	var pe *ParseError
	if errors.As(err, &pe) && pe.Path == "" {
		pe.Path = path
	}
	return err
}
