package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.trai.ch/offsync/internal/adapters/watcher"
)

func TestWatcher_NotifiesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "offsync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`version: "v1"`), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	w := &watcher.Watcher{Window: 20 * time.Millisecond}

	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, path, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// Unrelated files in the same directory are ignored; keep writing the
	// target until the watcher is registered and reports it.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o600))

	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()

loop:
	for {
		select {
		case <-changed:
			break loop
		case <-tick.C:
			require.NoError(t, os.WriteFile(path, []byte(`version: "v2"`), 0o600))
		case <-deadline:
			t.Fatal("timeout waiting for change notification")
		}
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := watcher.New(nil)
	err := w.Watch(context.Background(), filepath.Join(t.TempDir(), "missing", "offsync.yaml"), func() {})
	require.Error(t, err)
}
