package hotkey

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Queue receives once the listener has stopped.
var ErrClosed = errors.New("hotkey queue closed")

// Queue is an unbounded FIFO of events with a single producer, the
// listener thread, and any number of consumers.
type Queue struct {
	mu     sync.Mutex
	items  []Event
	closed bool
	notify chan struct{}
	done   chan struct{}
}

func newQueue() *Queue {
	return &Queue{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

func (q *Queue) push(ev Event) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, ev)
	q.mu.Unlock()
	q.signal()
	return true
}

func (q *Queue) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// close drops undelivered events and wakes every waiting receiver.
func (q *Queue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.items = nil
	close(q.done)
}

// pop returns the head of the queue. ok is false when empty; err is
// ErrClosed once closed.
func (q *Queue) pop() (ev Event, ok bool, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return Event{}, false, ErrClosed
	}
	if len(q.items) == 0 {
		return Event{}, false, nil
	}
	ev = q.items[0]
	q.items[0] = Event{}
	q.items = q.items[1:]
	if len(q.items) > 0 {
		q.signal()
	}
	return ev, true, nil
}

// Recv blocks until an event is available, the queue is closed, or ctx is
// done.
func (q *Queue) Recv(ctx context.Context) (Event, error) {
	for {
		ev, ok, err := q.pop()
		if err != nil {
			return Event{}, err
		}
		if ok {
			return ev, nil
		}
		select {
		case <-q.notify:
		case <-q.done:
		case <-ctx.Done():
			return Event{}, ctx.Err()
		}
	}
}

// TryRecv returns the next event without blocking. ok is false when no
// event is pending.
func (q *Queue) TryRecv() (ev Event, ok bool, err error) {
	return q.pop()
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
