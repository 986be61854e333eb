package hotkey

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/palette/pkg/keys"
	"github.com/grovetools/palette/pkg/logger"
)

// Handle owns one listener thread. It is created Idle, is Starting while
// Start registers chords, becomes Running once they are all registered and
// is consumed by Stop.
type Handle struct {
	backend Backend
	chords  []keys.KeyChord
	queue   *Queue
	log     *logrus.Entry

	state    atomic.Int32
	stopOnce sync.Once
	started  chan struct{}
	done     chan struct{}

	// Written by the listener thread before done is closed.
	panicked any
	exitErr  error
}

// New returns an idle handle that will register chords on backend. Chord i
// is registered under id i+1.
func New(backend Backend, chords ...keys.KeyChord) *Handle {
	return &Handle{
		backend: backend,
		chords:  append([]keys.KeyChord(nil), chords...),
		queue:   newQueue(),
		log:     logger.NewLogger("hotkey"),
		started: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start creates a handle and starts it.
func Start(backend Backend, chords ...keys.KeyChord) (*Handle, error) {
	h := New(backend, chords...)
	if err := h.Start(); err != nil {
		return nil, err
	}
	return h, nil
}

// Start spawns the listener thread and waits until every chord is
// registered. If any registration fails, the chords registered so far are
// released, the handle ends Stopped and a *RegistrationError is returned.
// A Stop issued while Start is in progress waits for Start to return.
func (h *Handle) Start() error {
	if !h.state.CompareAndSwap(int32(Idle), int32(Starting)) {
		return ErrStarted
	}
	defer close(h.started)

	if len(h.chords) == 0 {
		h.finish()
		return &RegistrationError{Err: errors.New("no chords to register")}
	}

	ready := make(chan error, 1)
	go h.run(ready)

	if err := <-ready; err != nil {
		<-h.done
		h.finish()
		return err
	}
	h.state.Store(int32(Running))
	h.log.WithField("chords", h.chords).Debug("Hotkey listener running")
	return nil
}

func (h *Handle) finish() {
	h.queue.close()
	h.state.Store(int32(Stopped))
}

// run is the listener thread. Everything touching the backend, except
// Quit, happens here. Registered chords are released on every exit path,
// panics included.
func (h *Handle) run(ready chan<- error) {
	runtime.LockOSThread()
	clean := false
	defer func() {
		// A thread that may still own hotkeys stays locked so the runtime
		// terminates it instead of reusing it.
		if clean {
			runtime.UnlockOSThread()
		}
		close(h.done)
	}()

	registered := make([]int, 0, len(h.chords))
	started := false
	defer func() {
		r := recover()
		if r != nil {
			h.panicked = r
		}
		relErr := h.release(registered)
		switch {
		case relErr == nil:
		case started:
			h.exitErr = errors.Join(h.exitErr, relErr)
		default:
			h.log.WithError(relErr).Warn("Failed to release hotkeys after registration failure")
		}
		if r != nil && !started {
			ready <- &RegistrationError{Err: fmt.Errorf("listener panicked: %v", r)}
		}
		clean = r == nil && relErr == nil
	}()

	if err := h.backend.Prepare(); err != nil {
		ready <- &RegistrationError{Err: err}
		return
	}

	for i, chord := range h.chords {
		id := i + 1
		if err := h.backend.Register(id, chord); err != nil {
			ready <- &RegistrationError{Chord: chord, Err: err}
			return
		}
		registered = append(registered, id)
	}
	started = true
	ready <- nil

	for {
		ev, ok, err := h.backend.Receive()
		if err != nil {
			h.exitErr = fmt.Errorf("receive: %w", err)
			return
		}
		if !ok {
			return
		}
		h.queue.push(ev)
	}
}

// release unregisters ids, continuing past failures and panics.
func (h *Handle) release(ids []int) (err error) {
	var errs []error
	defer func() {
		if r := recover(); r != nil {
			errs = append(errs, fmt.Errorf("unregister panicked: %v", r))
		}
		err = errors.Join(errs...)
	}()
	for _, id := range ids {
		if uerr := h.backend.Unregister(id); uerr != nil {
			errs = append(errs, fmt.Errorf("unregister %s: %w", h.chords[id-1], uerr))
		}
	}
	return nil
}

// Events returns the consumer end of the event queue.
func (h *Handle) Events() *Queue {
	return h.queue
}

// State reports the lifecycle state.
func (h *Handle) State() State {
	return State(h.state.Load())
}

// Chords returns the registered chords in registration-id order.
func (h *Handle) Chords() []keys.KeyChord {
	return append([]keys.KeyChord(nil), h.chords...)
}

// Chord maps an event back to the chord registered under its id.
func (h *Handle) Chord(ev Event) (keys.KeyChord, bool) {
	if ev.ID < 1 || ev.ID > len(h.chords) {
		return keys.KeyChord{}, false
	}
	return h.chords[ev.ID-1], true
}

// Stop posts a quit to the listener thread, waits for it to unregister and
// exit, then closes the queue. Undelivered events are dropped; no event is
// received after Stop returns. Stop blocks without a timeout. A second call
// returns ErrStopped.
func (h *Handle) Stop() error {
	err := ErrStopped
	h.stopOnce.Do(func() {
		err = h.stop()
	})
	return err
}

func (h *Handle) stop() error {
	if h.state.CompareAndSwap(int32(Idle), int32(Stopped)) {
		h.queue.close()
		return nil
	}
	<-h.started
	if !h.state.CompareAndSwap(int32(Running), int32(Stopping)) {
		// Start failed and already released everything.
		return ErrStopped
	}

	var quitErr error
	select {
	case <-h.done:
		// The loop already exited on its own (panic or receive error).
	default:
		quitErr = h.backend.Quit()
	}
	if quitErr != nil {
		// The thread cannot be woken; it is abandoned with its queue closed
		// so nothing it receives is delivered.
		h.log.WithError(quitErr).Error("Failed to post quit to hotkey listener")
		h.queue.close()
		h.state.Store(int32(Stopped))
		return &JoinError{Err: fmt.Errorf("post quit: %w", quitErr)}
	}
	<-h.done

	h.queue.close()
	h.state.Store(int32(Stopped))

	switch {
	case h.panicked != nil:
		return &JoinError{Panic: h.panicked, Err: h.exitErr}
	case h.exitErr != nil:
		return &JoinError{Err: h.exitErr}
	}
	h.log.Debug("Hotkey listener stopped")
	return nil
}
