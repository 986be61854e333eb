package registry

import (
	"sync"
	"sync/atomic"

	"github.com/grovetools/palette/pkg/definition"
)

// Store holds the current registry snapshot for a definitions directory.
// Rebuild swaps in a brand-new Registry; readers keep whatever snapshot
// they already loaded.
type Store struct {
	dir string
	os  definition.OS

	current atomic.Pointer[Registry]
	// mu serialises rebuilds so snapshots are published in build order.
	mu sync.Mutex
}

// NewStore returns a store holding an empty registry. Call Rebuild to load
// the directory.
func NewStore(dir string, os definition.OS) *Store {
	s := &Store{dir: dir, os: os}
	s.current.Store(Empty(os))
	return s
}

// Dir returns the definitions directory.
func (s *Store) Dir() string {
	return s.dir
}

// Current returns the latest snapshot. It is never nil.
func (s *Store) Current() *Registry {
	return s.current.Load()
}

// Rebuild builds the directory again and publishes the result, even when
// the directory is unreadable (the published registry is then empty).
func (s *Store) Rebuild() (*Registry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := Build(s.dir, s.os)
	s.current.Store(reg)
	return reg, err
}
