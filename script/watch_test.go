package script

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestWatcherReportsWatchedFileOnly(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "game.tengo")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(target, []byte("a := 1"), 0o644))

	w, err := NewWatcher(zaptest.NewLogger(t), target)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("a := 2"), 0o644))

	abs, err := filepath.Abs(target)
	require.NoError(t, err)
	select {
	case name := <-w.Events:
		assert.Equal(t, abs, name)
	case <-time.After(5 * time.Second):
		t.Fatal("no change event for watched file")
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "game.tengo")
	require.NoError(t, os.WriteFile(target, nil, 0o644))

	w, err := NewWatcher(nil, target)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, ok := <-w.Events
	assert.False(t, ok)
	assert.Empty(t, w.Drain())
}
