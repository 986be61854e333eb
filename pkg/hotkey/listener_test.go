package hotkey

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/grovetools/palette/pkg/keys"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var errClaimed = errors.New("hot key is already registered")

// fakeBackend simulates an OS event queue. Events sent on events are
// delivered by Receive until Quit is called.
type fakeBackend struct {
	mu           sync.Mutex
	registered   map[int]keys.KeyChord
	unregistered []int
	prepared     bool

	failOn        keys.KeyChord
	unregisterErr error
	panicReceive  bool

	// When set, Prepare blocks until it is closed.
	prepareGate       chan struct{}
	quitBeforePrepare bool

	events   chan Event
	quit     chan struct{}
	quitOnce sync.Once
}

func newFake() *fakeBackend {
	return &fakeBackend{
		registered: make(map[int]keys.KeyChord),
		events:     make(chan Event),
		quit:       make(chan struct{}),
	}
}

func (f *fakeBackend) Prepare() error {
	if f.prepareGate != nil {
		<-f.prepareGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prepared = true
	return nil
}

func (f *fakeBackend) Register(id int, chord keys.KeyChord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if chord == f.failOn {
		return errClaimed
	}
	f.registered[id] = chord
	return nil
}

func (f *fakeBackend) Unregister(id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unregistered = append(f.unregistered, id)
	if f.unregisterErr != nil {
		return f.unregisterErr
	}
	delete(f.registered, id)
	return nil
}

func (f *fakeBackend) Receive() (Event, bool, error) {
	if f.panicReceive {
		panic("boom")
	}
	select {
	case ev := <-f.events:
		return ev, true, nil
	case <-f.quit:
		return Event{}, false, nil
	}
}

func (f *fakeBackend) Quit() error {
	f.mu.Lock()
	if !f.prepared {
		f.quitBeforePrepare = true
	}
	f.mu.Unlock()
	f.quitOnce.Do(func() { close(f.quit) })
	return nil
}

func (f *fakeBackend) registeredCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.registered)
}

var (
	ctrlShiftP = keys.KeyChord{Mods: keys.ModCtrl | keys.ModShift, Key: keys.KeyP}
	altSpace   = keys.KeyChord{Mods: keys.ModAlt, Key: keys.KeySpace}
	superK     = keys.KeyChord{Mods: keys.ModSuper, Key: keys.KeyK}
)

func recvTimeout(t *testing.T, q *Queue) Event {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	ev, err := q.Recv(ctx)
	require.NoError(t, err)
	return ev
}

func TestListenerDeliversEventsInOrder(t *testing.T) {
	fake := newFake()
	h, err := Start(fake, ctrlShiftP, altSpace)
	require.NoError(t, err)
	assert.Equal(t, Running, h.State())
	assert.Equal(t, 2, fake.registeredCount())

	go func() {
		for i := 0; i < 50; i++ {
			fake.events <- Event{ID: 1 + i%2, VirtualKey: uint32(i)}
		}
	}()

	for i := 0; i < 50; i++ {
		ev := recvTimeout(t, h.Events())
		assert.Equal(t, uint32(i), ev.VirtualKey)
		chord, ok := h.Chord(ev)
		require.True(t, ok)
		if i%2 == 0 {
			assert.Equal(t, ctrlShiftP, chord)
		} else {
			assert.Equal(t, altSpace, chord)
		}
	}

	require.NoError(t, h.Stop())
}

func TestStopUnregistersAndClosesQueue(t *testing.T) {
	fake := newFake()
	h, err := Start(fake, ctrlShiftP, altSpace, superK)
	require.NoError(t, err)

	fake.events <- Event{ID: 1}
	recvTimeout(t, h.Events())

	require.NoError(t, h.Stop())
	assert.Equal(t, Stopped, h.State())
	assert.Equal(t, 0, fake.registeredCount())
	assert.ElementsMatch(t, []int{1, 2, 3}, fake.unregistered)

	_, err = h.Events().Recv(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
	_, ok, err := h.Events().TryRecv()
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrClosed)

	assert.ErrorIs(t, h.Stop(), ErrStopped)
}

func TestStopDropsUndeliveredEvents(t *testing.T) {
	fake := newFake()
	h, err := Start(fake, ctrlShiftP)
	require.NoError(t, err)

	fake.events <- Event{ID: 1}
	fake.events <- Event{ID: 1}
	require.Eventually(t, func() bool { return h.Events().Len() == 2 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, h.Stop())
	assert.Equal(t, 0, h.Events().Len())
	_, ok, err := h.Events().TryRecv()
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestRegistrationFailureReleasesEarlierChords(t *testing.T) {
	fake := newFake()
	fake.failOn = altSpace

	h, err := Start(fake, ctrlShiftP, altSpace, superK)
	assert.Nil(t, h)

	var regErr *RegistrationError
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, altSpace, regErr.Chord)
	assert.ErrorIs(t, err, errClaimed)
	assert.Equal(t, 0, fake.registeredCount())
	assert.Equal(t, []int{1}, fake.unregistered)
}

func TestFailedStartLeavesHandleStopped(t *testing.T) {
	fake := newFake()
	fake.failOn = ctrlShiftP

	h := New(fake, ctrlShiftP)
	require.Error(t, h.Start())
	assert.Equal(t, Stopped, h.State())
	assert.ErrorIs(t, h.Stop(), ErrStopped)
}

func TestPanicSurfacesOnStop(t *testing.T) {
	fake := newFake()
	fake.panicReceive = true

	h, err := Start(fake, ctrlShiftP, altSpace)
	require.NoError(t, err)

	err = h.Stop()
	var joinErr *JoinError
	require.ErrorAs(t, err, &joinErr)
	assert.Equal(t, "boom", joinErr.Panic)
	assert.Equal(t, Stopped, h.State())

	assert.Zero(t, fake.registeredCount(), "chords must be released after a panic")
	fake.mu.Lock()
	assert.ElementsMatch(t, []int{1, 2}, fake.unregistered)
	fake.mu.Unlock()
}

func TestPanicWithUnregisterFailureReportsBoth(t *testing.T) {
	fake := newFake()
	fake.panicReceive = true
	fake.unregisterErr = errors.New("not registered")

	h, err := Start(fake, ctrlShiftP)
	require.NoError(t, err)

	err = h.Stop()
	var joinErr *JoinError
	require.ErrorAs(t, err, &joinErr)
	assert.Equal(t, "boom", joinErr.Panic)
	assert.ErrorIs(t, err, fake.unregisterErr)
}

func TestStopDuringStartWaitsForRegistration(t *testing.T) {
	fake := newFake()
	fake.prepareGate = make(chan struct{})
	h := New(fake, ctrlShiftP, altSpace)

	startErr := make(chan error, 1)
	go func() { startErr <- h.Start() }()
	require.Eventually(t, func() bool { return h.State() == Starting }, 2*time.Second, time.Millisecond)

	stopErr := make(chan error, 1)
	go func() { stopErr <- h.Stop() }()

	select {
	case err := <-stopErr:
		t.Fatalf("Stop returned before Start finished: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	close(fake.prepareGate)
	require.NoError(t, <-startErr)
	require.NoError(t, <-stopErr)

	assert.Equal(t, Stopped, h.State())
	assert.Zero(t, fake.registeredCount())
	fake.mu.Lock()
	assert.False(t, fake.quitBeforePrepare)
	fake.mu.Unlock()
}

func TestUnregisterFailureSurfacesOnStop(t *testing.T) {
	fake := newFake()
	fake.unregisterErr = errors.New("not registered")

	h, err := Start(fake, ctrlShiftP)
	require.NoError(t, err)

	err = h.Stop()
	var joinErr *JoinError
	require.ErrorAs(t, err, &joinErr)
	assert.ErrorIs(t, err, fake.unregisterErr)
}

func TestStartTwice(t *testing.T) {
	h, err := Start(newFake(), ctrlShiftP)
	require.NoError(t, err)
	assert.ErrorIs(t, h.Start(), ErrStarted)
	require.NoError(t, h.Stop())
}

func TestStopIdleHandle(t *testing.T) {
	h := New(newFake(), ctrlShiftP)
	assert.Equal(t, Idle, h.State())
	require.NoError(t, h.Stop())
	assert.Equal(t, Stopped, h.State())
	assert.ErrorIs(t, h.Start(), ErrStarted)
}

func TestStartWithoutChords(t *testing.T) {
	_, err := Start(newFake())
	var regErr *RegistrationError
	assert.ErrorAs(t, err, &regErr)
}

func TestUnsupportedBackend(t *testing.T) {
	_, err := Start(Unsupported{}, ctrlShiftP)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestChordOutOfRange(t *testing.T) {
	h := New(newFake(), ctrlShiftP)
	_, ok := h.Chord(Event{ID: 0})
	assert.False(t, ok)
	_, ok = h.Chord(Event{ID: 2})
	assert.False(t, ok)
	assert.Equal(t, []keys.KeyChord{ctrlShiftP}, h.Chords())
}

func TestQueueRecvHonoursContext(t *testing.T) {
	q := newQueue()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := q.Recv(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueueWakesEveryConsumer(t *testing.T) {
	q := newQueue()
	const consumers = 4

	var wg sync.WaitGroup
	got := make(chan Event, consumers)
	for i := 0; i < consumers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			ev, err := q.Recv(ctx)
			if err == nil {
				got <- ev
			}
		}()
	}
	for i := 0; i < consumers; i++ {
		q.push(Event{ID: i})
	}
	wg.Wait()
	close(got)

	seen := map[int]bool{}
	for ev := range got {
		seen[ev.ID] = true
	}
	assert.Len(t, seen, consumers)
}

func TestQueueCloseWakesReceivers(t *testing.T) {
	q := newQueue()
	errc := make(chan error, 1)
	go func() {
		_, err := q.Recv(context.Background())
		errc <- err
	}()
	time.Sleep(10 * time.Millisecond)
	q.close()
	assert.ErrorIs(t, <-errc, ErrClosed)
	assert.False(t, q.push(Event{}))
}
