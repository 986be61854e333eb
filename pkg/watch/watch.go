// Package watch rebuilds a registry store when definition files change.
// Every change triggers a full, debounced rebuild; there is no partial
// reload.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/grovetools/palette/pkg/definition"
	"github.com/grovetools/palette/pkg/logger"
	"github.com/grovetools/palette/pkg/registry"
)

// DefaultDebounce batches editor save bursts into one rebuild.
const DefaultDebounce = 250 * time.Millisecond

// Stats tracks watcher activity.
type Stats struct {
	Events        int
	Rebuilds      int
	Errors        int
	LastEventPath string
	LastRebuild   time.Time
}

// Watcher watches a Store's definitions directory.
type Watcher struct {
	mu       sync.Mutex
	store    *registry.Store
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onBuild  func(*registry.Registry, error)
	log      *logrus.Entry

	dirty     bool
	lastEvent time.Time
	stats     Stats

	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period after the last change before a
// rebuild.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// OnRebuild registers a callback run on the watcher goroutine after every
// rebuild.
func OnRebuild(fn func(*registry.Registry, error)) Option {
	return func(w *Watcher) {
		w.onBuild = fn
	}
}

// New creates a watcher for store. Call Start to begin watching.
func New(store *registry.Store, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w := &Watcher{
		store:    store,
		watcher:  fw,
		debounce: DefaultDebounce,
		log:      logger.NewLogger("watch").WithField("dir", store.Dir()),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching. It is non-blocking. The directory must exist.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.store.Dir()); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		w.watcher.Close()
		close(w.doneCh)
		return fmt.Errorf("failed to watch %s: %w", w.store.Dir(), err)
	}
	w.log.Debug("Watching definitions directory")

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.log.WithError(err).Error("Error closing file watcher")
	}
	w.log.Debug("Watcher stopped")
}

// Stats returns a copy of the activity counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.debounce / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Error("File watcher error")
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
		case now := <-ticker.C:
			w.maybeRebuild(now)
		}
	}
}

func relevant(event fsnotify.Event) bool {
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return false
	}
	if _, ok := definition.FormatForPath(name); !ok {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !relevant(event) {
		return
	}
	w.log.WithField("file", event.Name).Debugf("Definition %s", strings.ToLower(event.Op.String()))

	w.mu.Lock()
	w.dirty = true
	w.lastEvent = time.Now()
	w.stats.Events++
	w.stats.LastEventPath = event.Name
	w.mu.Unlock()
}

func (w *Watcher) maybeRebuild(now time.Time) {
	w.mu.Lock()
	if !w.dirty || now.Sub(w.lastEvent) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.dirty = false
	w.mu.Unlock()

	reg, err := w.store.Rebuild()
	if err != nil {
		w.log.WithError(err).Error("Rebuild failed")
	} else {
		w.log.WithField("applications", reg.Len()).Info("Definitions reloaded")
	}

	w.mu.Lock()
	w.stats.Rebuilds++
	w.stats.LastRebuild = now
	w.mu.Unlock()

	if w.onBuild != nil {
		w.onBuild(reg, err)
	}
}
