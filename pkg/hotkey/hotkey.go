// Package hotkey captures global activation chords on a dedicated, locked OS
// thread and delivers them through an unbounded queue.
//
// Global hotkey registration is tied to the registering thread's event queue
// on Windows, so registration, the blocking receive loop and unregistration
// all run on the same goroutine, locked with runtime.LockOSThread. The rest of
// the program only sees the Handle: its event queue and Stop.
package hotkey

import (
	"errors"
	"fmt"

	"github.com/grovetools/palette/pkg/keys"
)

// Event is the raw payload of one OS hotkey notification. ID is the
// registration id the chord was registered under.
type Event struct {
	ID         int
	VirtualKey uint32
	Modifiers  uint32
}

// Backend is an OS event source. Every method except Quit is called only
// from the listener's locked thread.
type Backend interface {
	// Prepare ensures the calling thread has an OS event queue.
	Prepare() error
	// Register claims chord system-wide under id.
	Register(id int, chord keys.KeyChord) error
	// Unregister releases the registration made under id.
	Unregister(id int) error
	// Receive blocks until the next hotkey event. ok is false once Quit has
	// been observed.
	Receive() (ev Event, ok bool, err error)
	// Quit unblocks Receive. It is the only method safe to call from
	// another thread.
	Quit() error
}

// State is the lifecycle of a Handle.
type State int32

const (
	Idle State = iota
	Starting
	Running
	Stopping
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

var (
	// ErrStopped is returned by Stop on a handle that was already stopped.
	ErrStopped = errors.New("hotkey listener already stopped")
	// ErrStarted is returned by Start on a handle that is not idle.
	ErrStarted = errors.New("hotkey listener already started")
	// ErrUnsupported is returned by backends on platforms without global
	// hotkey support.
	ErrUnsupported = errors.New("global hotkeys are not supported on this platform")
)

// RegistrationError reports a chord the OS refused to register. It is fatal
// to Start; nothing stays registered.
type RegistrationError struct {
	Chord keys.KeyChord
	Err   error
}

func (e *RegistrationError) Error() string {
	if e.Chord.IsZero() {
		return fmt.Sprintf("hotkey listener setup failed: %v", e.Err)
	}
	return fmt.Sprintf("failed to register hotkey %s: %v", e.Chord, e.Err)
}

func (e *RegistrationError) Unwrap() error { return e.Err }

// JoinError reports a listener thread that did not exit cleanly: it
// panicked, its receive loop failed, or unregistration failed.
type JoinError struct {
	Panic any
	Err   error
}

func (e *JoinError) Error() string {
	if e.Panic != nil {
		if e.Err != nil {
			return fmt.Sprintf("hotkey listener panicked: %v: %v", e.Panic, e.Err)
		}
		return fmt.Sprintf("hotkey listener panicked: %v", e.Panic)
	}
	return fmt.Sprintf("hotkey listener did not exit cleanly: %v", e.Err)
}

func (e *JoinError) Unwrap() error { return e.Err }
