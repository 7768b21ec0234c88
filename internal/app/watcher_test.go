package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/kntags/internal/domain/index"
)

// newWatcherTestApp opens an App over a temp project.
func newWatcherTestApp(t *testing.T, root string) *App {
	t.Helper()
	a, err := New(root, Options{ProjectID: "test", Config: DefaultConfig()})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func findNames(t *testing.T, a *App, name string) []index.Hit {
	t.Helper()
	hits, err := a.Engine.Find(index.Query{Name: name})
	require.NoError(t, err)
	return hits
}

func TestOnFileChanged_NewFile(t *testing.T) {
	tmpDir := t.TempDir()
	a := newWatcherTestApp(t, tmpDir)

	knFile := writeFile(t, tmpDir, "hello.kn", "func helloWorld()\nend func\n")
	a.onFileChanged(knFile)

	hits := findNames(t, a, "helloWorld")
	require.Len(t, hits, 1)
	assert.Equal(t, "hello.kn", hits[0].Path)
	assert.Equal(t, uint32(1), hits[0].Line)

	// Change was persisted.
	idx, err := a.Store.LoadIndex("test")
	require.NoError(t, err)
	require.NotNil(t, idx)
	assert.Len(t, idx.Files, 1)
}

func TestOnFileChanged_ModifyFile(t *testing.T) {
	tmpDir := t.TempDir()
	a := newWatcherTestApp(t, tmpDir)

	knFile := writeFile(t, tmpDir, "funcs.kn", "func oldFunc()\nend func\n")
	a.onFileChanged(knFile)
	assert.Len(t, findNames(t, a, "oldFunc"), 1)

	writeFile(t, tmpDir, "funcs.kn", "\nfunc newFunc()\nend func\n")
	a.onFileChanged(knFile)

	assert.Empty(t, findNames(t, a, "oldFunc"), "oldFunc should be removed")
	hits := findNames(t, a, "newFunc")
	require.Len(t, hits, 1)
	assert.Equal(t, uint32(2), hits[0].Line)
	assert.Equal(t, 1, a.Engine.Stats().Files)
}

func TestOnFileChanged_DeleteFile(t *testing.T) {
	tmpDir := t.TempDir()
	a := newWatcherTestApp(t, tmpDir)

	knFile := writeFile(t, tmpDir, "todelete.kn", "func deleteMe()\n")
	a.onFileChanged(knFile)
	assert.Equal(t, 1, a.Engine.Stats().Files)

	require.NoError(t, os.Remove(knFile))
	a.onFileChanged(knFile)

	assert.Equal(t, 0, a.Engine.Stats().Files)
	idx, err := a.Store.LoadIndex("test")
	require.NoError(t, err)
	assert.Empty(t, idx.Files)
}

func TestOnFileChanged_GrownTooLarge(t *testing.T) {
	tmpDir := t.TempDir()
	a := newWatcherTestApp(t, tmpDir)
	a.Config.MaxFileSize = 32

	knFile := writeFile(t, tmpDir, "grow.kn", "func small()\n")
	a.onFileChanged(knFile)
	assert.Equal(t, 1, a.Engine.Stats().Files)

	writeFile(t, tmpDir, "grow.kn", "func small()\n; padding padding padding padding\n")
	a.onFileChanged(knFile)
	assert.Equal(t, 0, a.Engine.Stats().Files)
}

func TestOnFileChanged_UnsupportedExt(t *testing.T) {
	tmpDir := t.TempDir()
	a := newWatcherTestApp(t, tmpDir)

	txtFile := writeFile(t, tmpDir, "readme.txt", "func notKuin()\n")
	a.onFileChanged(txtFile)

	assert.Equal(t, 0, a.Engine.Stats().Files)
}

func TestOnFileChanged_ExcludedDir(t *testing.T) {
	tmpDir := t.TempDir()
	a := newWatcherTestApp(t, tmpDir)

	a.onFileChanged(writeFile(t, tmpDir, "vendor/pkg/dep.kn", "func dep()\n"))
	a.onFileChanged(writeFile(t, tmpDir, "../outside.kn", "func outside()\n"))

	assert.Equal(t, 0, a.Engine.Stats().Files)
}

func TestOnFileChanged_DeleteUnknownFileIsNoop(t *testing.T) {
	tmpDir := t.TempDir()
	a := newWatcherTestApp(t, tmpDir)

	a.onFileChanged(filepath.Join(tmpDir, "ghost.kn"))

	// Nothing was saved.
	idx, err := a.Store.LoadIndex("test")
	require.NoError(t, err)
	assert.Nil(t, idx)
}

func TestStartWatch_ReindexesOnChange(t *testing.T) {
	tmpDir := t.TempDir()
	a := newWatcherTestApp(t, tmpDir)
	require.NoError(t, a.StartWatch())
	assert.Error(t, a.StartWatch(), "second StartWatch should fail")

	writeFile(t, tmpDir, "live.kn", "class Live()\nend class\n")

	require.Eventually(t, func() bool {
		hits, err := a.Engine.Find(index.Query{Name: "Live"})
		return err == nil && len(hits) == 1
	}, 5*time.Second, 20*time.Millisecond, "watcher should index the new file")

	require.NoError(t, a.Stop())
	require.NoError(t, a.Stop(), "Stop is idempotent")
}

func TestStartWatch_FollowsExcludeDirs(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "build"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "src", "gen"), 0755))

	cfg := DefaultConfig()
	cfg.Exclude.Dirs = []string{"src/gen"}
	require.NoError(t, cfg.normalize())

	a, err := New(tmpDir, Options{ProjectID: "test", Config: cfg})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	_, err = a.Reindex()
	require.NoError(t, err)
	require.NoError(t, a.StartWatch())

	writeFile(t, tmpDir, "src/gen/out.kn", "func generated()\n")
	writeFile(t, tmpDir, "build/gen.kn", "func f()\n")

	require.Eventually(t, func() bool {
		return len(findNames(t, a, "f")) == 1
	}, 5*time.Second, 20*time.Millisecond, "build/ is watched when exclude.dirs omits it")
	assert.Empty(t, findNames(t, a, "generated"))

	// Watch and a full reindex agree.
	_, err = a.Reindex()
	require.NoError(t, err)
	assert.Len(t, findNames(t, a, "f"), 1)
	assert.Empty(t, findNames(t, a, "generated"))
}
