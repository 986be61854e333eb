// Package resolver computes the actions available for the current desktop
// context from a registry snapshot.
package resolver

import (
	"fmt"

	"github.com/grovetools/palette/pkg/definition"
	"github.com/grovetools/palette/pkg/keys"
	"github.com/grovetools/palette/pkg/registry"
)

// Window is a handle on a live window. Resolving its process name is the
// platform layer's job; false means the name is unknown.
type Window interface {
	ProcessName() (string, bool)
}

// ContextRoot is the live window context for one resolution. Foreground is
// ordered with the active window first.
type ContextRoot struct {
	Foreground []Window
	Background []Window
}

// Active returns the first foreground window.
func (c ContextRoot) Active() (Window, bool) {
	if len(c.Foreground) == 0 {
		return nil, false
	}
	return c.Foreground[0], true
}

// UnitAction is one display-ready action. It is created per Resolve call.
type UnitAction struct {
	AppID      registry.ApplicationID
	AppName    string
	ActionID   definition.ActionID
	ActionKey  string
	Name       string
	FocusState definition.FocusState
	Chord      keys.KeyChord
	Effect     definition.Effect
	Priority   definition.Priority
}

// Label is the text the fuzzy matcher ranks against.
func (u UnitAction) Label() string {
	return fmt.Sprintf("%s: %s", u.AppName, u.Name)
}

// Resolve returns the actions available in ctx: background actions of every
// background window's application, then focused actions of the active
// window's application, then global actions of every application in
// ApplicationID order. Windows that cannot be matched are skipped. reg is
// only read.
func Resolve(reg *registry.Registry, ctx ContextRoot) []UnitAction {
	var out []UnitAction

	seen := make(map[registry.ApplicationID]bool)
	for _, w := range ctx.Background {
		app, ok := lookup(reg, w)
		if !ok || seen[registry.ApplicationID(app.ID)] {
			continue
		}
		seen[registry.ApplicationID(app.ID)] = true
		out = appendBucket(out, app, definition.Background)
	}

	if w, ok := ctx.Active(); ok {
		if app, ok := lookup(reg, w); ok {
			out = appendBucket(out, app, definition.Focused)
		}
	}

	for _, app := range reg.Applications() {
		out = appendBucket(out, app, definition.Global)
	}
	return out
}

func lookup(reg *registry.Registry, w Window) (*definition.Application, bool) {
	if w == nil {
		return nil, false
	}
	name, ok := w.ProcessName()
	if !ok || name == "" {
		return nil, false
	}
	return reg.ApplicationForProcess(name)
}

func appendBucket(out []UnitAction, app *definition.Application, bucket definition.FocusState) []UnitAction {
	for _, a := range app.Actions() {
		if a.FocusState != bucket {
			continue
		}
		out = append(out, UnitAction{
			AppID:      registry.ApplicationID(app.ID),
			AppName:    app.Name,
			ActionID:   a.ID,
			ActionKey:  a.Key,
			Name:       a.Name,
			FocusState: a.FocusState,
			Chord:      a.Chord,
			Effect:     a.Effect,
			Priority:   app.Priority,
		})
	}
	return out
}
