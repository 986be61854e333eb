package definition

import (
	"errors"
	"fmt"
)

// ParseError reports a definition that could not be read or decoded. It is
// fatal to that one definition.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse definition: %v", e.Err)
	}
	return fmt.Sprintf("parse definition %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// MissingOsBindingError reports a definition with no process name for the
// requested OS. The whole definition is rejected.
type MissingOsBindingError struct {
	App string
	OS  OS
}

func (e *MissingOsBindingError) Error() string {
	return fmt.Sprintf("application %q has no process name for %s", e.App, e.OS)
}

// Action-level failures. These skip one action, never the application.
var (
	ErrMissingActionBinding = errors.New("no key chord for this os")
	ErrMissingFocusState    = errors.New("no focus state and no application default")
	ErrInvalidFocusState    = errors.New("invalid focus state")
	ErrInvalidChord         = errors.New("invalid key chord")
	ErrInvalidCommand       = errors.New("invalid run command")
)

// ActionError reports why a single action was skipped. Kind is one of the
// Err* sentinels above; Cause carries the underlying parse error, if any.
type ActionError struct {
	App    string
	Action string
	Kind   error
	Cause  error
}

func (e *ActionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("action %s.%s: %v: %v", e.App, e.Action, e.Kind, e.Cause)
	}
	return fmt.Sprintf("action %s.%s: %v", e.App, e.Action, e.Kind)
}

func (e *ActionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}
