//go:build linux && cgo

package xhotkey

import (
	"fmt"
	"sync"

	"golang.design/x/hotkey"

	palettehotkey "github.com/grovetools/palette/pkg/hotkey"
	"github.com/grovetools/palette/pkg/keys"
)

type registration struct {
	hk    *hotkey.Hotkey
	chord keys.KeyChord
	stop  chan struct{}
	done  chan struct{}
}

// Backend adapts golang.design/x/hotkey to the listener protocol. Each
// registration forwards its keydown channel into one event stream.
type Backend struct {
	mu   sync.Mutex
	regs map[int]*registration

	events   chan palettehotkey.Event
	quit     chan struct{}
	quitOnce sync.Once
}

// New returns a backend. It must be driven by hotkey.Handle.
func New() *Backend {
	return &Backend{
		regs:   make(map[int]*registration),
		events: make(chan palettehotkey.Event),
		quit:   make(chan struct{}),
	}
}

var _ palettehotkey.Backend = (*Backend)(nil)

func (b *Backend) Prepare() error {
	return nil
}

func modifiers(m keys.Modifier) []hotkey.Modifier {
	var mods []hotkey.Modifier
	if m.Has(keys.ModCtrl) {
		mods = append(mods, hotkey.ModCtrl)
	}
	if m.Has(keys.ModShift) {
		mods = append(mods, hotkey.ModShift)
	}
	if m.Has(keys.ModAlt) {
		mods = append(mods, hotkey.Mod1)
	}
	if m.Has(keys.ModSuper) {
		mods = append(mods, hotkey.Mod4)
	}
	return mods
}

func (b *Backend) Register(id int, chord keys.KeyChord) error {
	sym, ok := Keysym(chord.Key)
	if !ok {
		return fmt.Errorf("no keysym for %s", chord.Key)
	}
	hk := hotkey.New(modifiers(chord.Mods), hotkey.Key(sym))
	if err := hk.Register(); err != nil {
		return err
	}

	reg := &registration{hk: hk, chord: chord, stop: make(chan struct{}), done: make(chan struct{})}
	b.mu.Lock()
	b.regs[id] = reg
	b.mu.Unlock()

	go b.forward(id, reg)
	return nil
}

func (b *Backend) forward(id int, reg *registration) {
	defer close(reg.done)
	ev := palettehotkey.Event{ID: id, VirtualKey: uint32(mustKeysym(reg.chord.Key)), Modifiers: ModMask(reg.chord.Mods)}
	for {
		select {
		case <-reg.hk.Keydown():
			select {
			case b.events <- ev:
			case <-reg.stop:
				return
			}
		case <-reg.stop:
			return
		}
	}
}

func mustKeysym(k keys.Key) uint16 {
	sym, _ := Keysym(k)
	return sym
}

func (b *Backend) Unregister(id int) error {
	b.mu.Lock()
	reg, ok := b.regs[id]
	delete(b.regs, id)
	b.mu.Unlock()
	if !ok {
		return fmt.Errorf("hotkey %d is not registered", id)
	}
	close(reg.stop)
	<-reg.done
	return reg.hk.Unregister()
}

func (b *Backend) Receive() (palettehotkey.Event, bool, error) {
	select {
	case ev := <-b.events:
		return ev, true, nil
	case <-b.quit:
		return palettehotkey.Event{}, false, nil
	}
}

// Quit is safe from any thread.
func (b *Backend) Quit() error {
	b.quitOnce.Do(func() { close(b.quit) })
	return nil
}
