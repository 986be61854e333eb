package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/grovetools/palette/pkg/definition"
	"github.com/grovetools/palette/pkg/registry"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func write(t *testing.T, dir, id string) {
	t.Helper()
	content := []byte(fmtDef(id))
	require.NoError(t, os.WriteFile(filepath.Join(dir, id+".toml"), content, 0o644))
}

func fmtDef(id string) string {
	return "version = 1\n[app]\nid = \"" + id + "\"\ndefault_focus_state = \"focused\"\nos.linux = \"" + id + "\"\n[actions.a]\ncmd.linux = { key = \"a\" }\n"
}

func TestWatcherRebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "first")

	store := registry.NewStore(dir, definition.Linux)
	_, err := store.Rebuild()
	require.NoError(t, err)
	require.Equal(t, 1, store.Current().Len())

	rebuilt := make(chan *registry.Registry, 8)
	w, err := New(store,
		WithDebounce(20*time.Millisecond),
		OnRebuild(func(r *registry.Registry, err error) {
			select {
			case rebuilt <- r:
			default:
			}
		}),
	)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	write(t, dir, "second")
	write(t, dir, "third")

	require.Eventually(t, func() bool { return store.Current().Len() == 3 }, 5*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, w.Stats().Rebuilds, 1)
	assert.GreaterOrEqual(t, w.Stats().Events, 2)

	require.NoError(t, os.Remove(filepath.Join(dir, "second.toml")))
	require.Eventually(t, func() bool { return store.Current().Len() == 2 }, 5*time.Second, 10*time.Millisecond)
	assert.NotEmpty(t, rebuilt)
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	store := registry.NewStore(dir, definition.Linux)

	w, err := New(store, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.toml"), []byte("x"), 0o644))
	time.Sleep(100 * time.Millisecond)

	w.Stop()
	assert.Equal(t, 0, w.Stats().Rebuilds)
	assert.Equal(t, 0, w.Stats().Events)
}

func TestWatcherStartMissingDir(t *testing.T) {
	store := registry.NewStore(filepath.Join(t.TempDir(), "missing"), definition.Linux)
	w, err := New(store)
	require.NoError(t, err)
	assert.Error(t, w.Start(context.Background()))
	w.Stop()
}

func TestWatcherStopsOnContextCancel(t *testing.T) {
	store := registry.NewStore(t.TempDir(), definition.Linux)
	w, err := New(store)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	cancel()
	w.Stop()
}
