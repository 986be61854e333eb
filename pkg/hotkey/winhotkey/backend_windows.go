//go:build windows

package winhotkey

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/grovetools/palette/pkg/hotkey"
	"github.com/grovetools/palette/pkg/keys"
)

const (
	wmQuit     = 0x0012
	wmHotkey   = 0x0312
	wmUser     = 0x0400
	pmNoRemove = 0x0000
)

var (
	user32                 = windows.NewLazySystemDLL("user32.dll")
	procRegisterHotKey     = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey   = user32.NewProc("UnregisterHotKey")
	procGetMessageW        = user32.NewProc("GetMessageW")
	procPeekMessageW       = user32.NewProc("PeekMessageW")
	procPostThreadMessageW = user32.NewProc("PostThreadMessageW")
)

type point struct {
	X, Y int32
}

type msg struct {
	HWnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      point
}

// Backend registers thread-bound hotkeys (hWnd = NULL), so WM_HOTKEY is
// posted to the registering thread's queue.
type Backend struct {
	threadID atomic.Uint32
}

// New returns a backend. It must be driven by hotkey.Handle.
func New() *Backend {
	return &Backend{}
}

var _ hotkey.Backend = (*Backend)(nil)

// Prepare forces creation of the thread's message queue so that a quit
// posted before the first GetMessageW is not lost.
func (b *Backend) Prepare() error {
	var m msg
	procPeekMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, wmUser, wmUser, pmNoRemove)
	b.threadID.Store(windows.GetCurrentThreadId())
	return nil
}

func (b *Backend) Register(id int, chord keys.KeyChord) error {
	vk, ok := VirtualKey(chord.Key)
	if !ok {
		return fmt.Errorf("no virtual key for %s", chord.Key)
	}
	r, _, err := procRegisterHotKey.Call(0, uintptr(id), uintptr(Modifiers(chord.Mods)), uintptr(vk))
	if r == 0 {
		return err
	}
	return nil
}

func (b *Backend) Unregister(id int) error {
	r, _, err := procUnregisterHotKey.Call(0, uintptr(id))
	if r == 0 {
		return err
	}
	return nil
}

func (b *Backend) Receive() (hotkey.Event, bool, error) {
	for {
		var m msg
		r, _, err := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		switch int32(r) {
		case -1:
			return hotkey.Event{}, false, err
		case 0:
			// WM_QUIT
			return hotkey.Event{}, false, nil
		}
		if m.Message != wmHotkey {
			continue
		}
		return hotkey.Event{
			ID:         int(m.WParam),
			Modifiers:  uint32(m.LParam & 0xFFFF),
			VirtualKey: uint32((m.LParam >> 16) & 0xFFFF),
		}, true, nil
	}
}

// Quit posts WM_QUIT to the listener thread. It is safe from any thread.
func (b *Backend) Quit() error {
	tid := b.threadID.Load()
	if tid == 0 {
		return fmt.Errorf("listener thread not prepared")
	}
	r, _, err := procPostThreadMessageW.Call(uintptr(tid), wmQuit, 0, 0)
	if r == 0 {
		return err
	}
	return nil
}
