package hotkey

import "github.com/grovetools/palette/pkg/keys"

// Unsupported is the backend for platforms without a global hotkey
// implementation. Prepare fails, so Start reports a RegistrationError
// wrapping ErrUnsupported.
type Unsupported struct{}

func (Unsupported) Prepare() error                    { return ErrUnsupported }
func (Unsupported) Register(int, keys.KeyChord) error { return ErrUnsupported }
func (Unsupported) Unregister(int) error              { return nil }
func (Unsupported) Receive() (Event, bool, error)     { return Event{}, false, ErrUnsupported }
func (Unsupported) Quit() error                       { return nil }
