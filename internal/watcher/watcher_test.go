package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsYAMLChanges(t *testing.T) {
	dir := t.TempDir()

	w, err := New(50*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Stop()
	require.NoError(t, w.AddDir(dir))

	changes := make(chan []string, 1)
	w.OnChange(func(paths []string) {
		select {
		case changes <- paths:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	target := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(target, []byte("sitename: X\n"), 0o644))

	select {
	case paths := <-changes:
		assert.Contains(t, paths, target)
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcherIgnoresNonYAML(t *testing.T) {
	dir := t.TempDir()

	w, err := New(50*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Stop()
	require.NoError(t, w.AddDir(dir))

	changes := make(chan []string, 1)
	w.OnChange(func(paths []string) {
		select {
		case changes <- paths:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml.swp"), []byte("x"), 0o644))

	select {
	case paths := <-changes:
		t.Fatalf("unexpected change batch: %v", paths)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestDebouncerBatchesBurst(t *testing.T) {
	dir := t.TempDir()

	w, err := New(100*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Stop()
	require.NoError(t, w.AddDir(dir))

	changes := make(chan []string, 4)
	w.OnChange(func(paths []string) { changes <- paths })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	// A burst of writes inside the debounce window produces one batch.
	for _, name := range []string{"config.yml", "taxonomy.yml", "contenttypes.yml"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("a: 1\n"), 0o644))
	}

	select {
	case paths := <-changes:
		assert.NotEmpty(t, paths)
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case <-changes:
		// A trailing second batch can arrive when writes straddle the
		// window; more than that means debouncing failed.
		select {
		case <-changes:
			t.Fatal("burst was not debounced")
		case <-time.After(300 * time.Millisecond):
		}
	case <-time.After(300 * time.Millisecond):
	}
}
