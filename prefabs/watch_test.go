package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		kind ChangeKind
		ok   bool
	}{
		{"prefabs/character.yaml", SpecChanged, true},
		{"a/b.YML", SpecChanged, true},
		{"prefabs/scripts/wall_jump.tengo", ScriptChanged, true},
		{"prefabs/notes.txt", 0, false},
		{"prefabs/character.yaml~", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			kind, ok := classify(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestWatcherReportsEdits(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644))
	path := filepath.Join(dir, "character.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: x\n"), 0o644))

	select {
	case c := <-w.Events:
		assert.Equal(t, path, c.Path)
		assert.Equal(t, SpecChanged, c.Kind)
	case err := <-w.Errors:
		t.Fatalf("watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcherClose(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, ok := <-w.Events
	assert.False(t, ok)

	_, err = NewWatcher(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
