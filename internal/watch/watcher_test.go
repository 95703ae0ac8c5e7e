package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcher_NotifiesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("a = 1\n"), 0644))

	fw, err := NewFileWatcher(path, nil)
	require.NoError(t, err)

	changed := make(chan struct{}, 8)
	fw.SetChangeCallback(func() { changed <- struct{}{} })
	require.NoError(t, fw.Start())
	defer fw.Stop()

	require.NoError(t, os.WriteFile(path, []byte("a = 2\n"), 0644))

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("no change notification")
	}
}

func TestFileWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("a = 1\n"), 0644))

	fw, err := NewFileWatcher(path, nil)
	require.NoError(t, err)

	changed := make(chan struct{}, 8)
	fw.SetChangeCallback(func() { changed <- struct{}{} })
	require.NoError(t, fw.Start())
	defer fw.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte("b = 1\n"), 0644))

	select {
	case <-changed:
		t.Fatal("unexpected notification for unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestFileWatcher_StopTwice(t *testing.T) {
	fw, err := NewFileWatcher(filepath.Join(t.TempDir(), "x.yaml"), nil)
	require.NoError(t, err)
	require.NoError(t, fw.Start())

	assert.NoError(t, fw.Stop())
	assert.NoError(t, fw.Stop())
}

func TestFileWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "popup.txt")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0644))

	fw, err := NewFileWatcher(path, nil)
	require.NoError(t, err)
	fw.SetDebounce(300 * time.Millisecond)

	changed := make(chan struct{}, 8)
	fw.SetChangeCallback(func() { changed <- struct{}{} })
	require.NoError(t, fw.Start())
	defer fw.Stop()

	for _, text := range []string{"b", "bc", "bcd"} {
		require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	}

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("no change notification")
	}
	select {
	case <-changed:
		t.Fatal("burst produced more than one notification")
	case <-time.After(600 * time.Millisecond):
	}
}

func TestFileWatcher_StopCancelsPendingNotification(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "popup.txt")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0644))

	fw, err := NewFileWatcher(path, nil)
	require.NoError(t, err)
	fw.SetDebounce(time.Second)

	changed := make(chan struct{}, 8)
	fw.SetChangeCallback(func() { changed <- struct{}{} })
	require.NoError(t, fw.Start())

	require.NoError(t, os.WriteFile(path, []byte("b"), 0644))
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, fw.Stop())

	select {
	case <-changed:
		t.Fatal("notification after Stop")
	case <-time.After(1500 * time.Millisecond):
	}
}
