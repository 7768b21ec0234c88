package index

import (
	"sync"
	"testing"

	"github.com/corey/kntags/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeTestIndex creates a small two-directory project index.
func makeTestIndex() *ports.Index {
	idx := ports.NewIndex()
	idx.Files[1] = &ports.FileMeta{Path: "main.kn", Language: "Kuin"}
	idx.Files[2] = &ports.FileMeta{Path: "lib/geom.kn", Language: "Kuin"}
	idx.Files[3] = &ports.FileMeta{Path: "lib/sub/util.kn", Language: "Kuin"}
	idx.Tags[1] = []ports.Tag{
		{Name: "main", Kind: "func", Line: 1},
		{Name: "count", Kind: "var", Line: 5},
	}
	idx.Tags[2] = []ports.Tag{
		{Name: "Point", Kind: "class", Line: 2},
		{Name: "x", Kind: "var", Line: 3},
		{Name: "pointCount", Kind: "const", Line: 9},
	}
	idx.Tags[3] = []ports.Tag{
		{Name: "main", Kind: "func", Line: 4},
		{Name: "Axis", Kind: "enum", Line: 8},
	}
	return idx
}

func TestEngine_FindExact(t *testing.T) {
	e := NewEngine(makeTestIndex())

	hits, err := e.Find(Query{Name: "main"})
	require.NoError(t, err)
	assert.Equal(t, []Hit{
		{Name: "main", Kind: "func", Path: "lib/sub/util.kn", Line: 4},
		{Name: "main", Kind: "func", Path: "main.kn", Line: 1},
	}, hits)

	hits, err = e.Find(Query{Name: "point"})
	require.NoError(t, err)
	assert.Empty(t, hits, "exact match is case-sensitive")
}

func TestEngine_FindIgnoreCase(t *testing.T) {
	e := NewEngine(makeTestIndex())

	hits, err := e.Find(Query{Name: "point", IgnoreCase: true})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Point", hits[0].Name)
}

func TestEngine_FindPrefix(t *testing.T) {
	e := NewEngine(makeTestIndex())

	hits, err := e.Find(Query{Name: "point", Prefix: true})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "pointCount", hits[0].Name)

	hits, err = e.Find(Query{Name: "point", Prefix: true, IgnoreCase: true})
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestEngine_FindByKind(t *testing.T) {
	e := NewEngine(makeTestIndex())

	hits, err := e.Find(Query{Kinds: []string{"var"}})
	require.NoError(t, err)
	assert.Equal(t, []Hit{
		{Name: "x", Kind: "var", Path: "lib/geom.kn", Line: 3},
		{Name: "count", Kind: "var", Path: "main.kn", Line: 5},
	}, hits)

	hits, err = e.Find(Query{Kinds: []string{"class", "enum"}})
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestEngine_FindFileGlob(t *testing.T) {
	e := NewEngine(makeTestIndex())

	hits, err := e.Find(Query{Name: "main", FileGlob: "lib/*.kn"})
	require.NoError(t, err)
	assert.Empty(t, hits, "single star does not cross directories")

	hits, err = e.Find(Query{Name: "main", FileGlob: "lib/**.kn"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "lib/sub/util.kn", hits[0].Path)

	_, err = e.Find(Query{FileGlob: "lib/[.kn"})
	assert.Error(t, err)
}

func TestEngine_FindMaxCount(t *testing.T) {
	e := NewEngine(makeTestIndex())

	hits, err := e.Find(Query{MaxCount: 3})
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "lib/geom.kn", hits[0].Path)

	all, err := e.Find(Query{})
	require.NoError(t, err)
	assert.Len(t, all, 7)
}

func TestEngine_FileTags(t *testing.T) {
	e := NewEngine(makeTestIndex())

	hits := e.FileTags("lib/geom.kn")
	require.Len(t, hits, 3)
	assert.Equal(t, "Point", hits[0].Name)
	assert.Equal(t, uint32(9), hits[2].Line)

	assert.Nil(t, e.FileTags("missing.kn"))
}

func TestEngine_Stats(t *testing.T) {
	st := NewEngine(makeTestIndex()).Stats()
	assert.Equal(t, 3, st.Files)
	assert.Equal(t, 7, st.Tags)
	assert.Equal(t, map[string]int{"func": 2, "var": 2, "class": 1, "const": 1, "enum": 1}, st.ByKind)
}

func TestEngine_UpdateFile(t *testing.T) {
	e := NewEngine(makeTestIndex())

	// Existing file keeps its ID and replaces its tags.
	id := e.UpdateFile(ports.FileMeta{Path: "main.kn"}, []ports.Tag{{Name: "start", Kind: "func", Line: 2}})
	assert.Equal(t, uint32(1), id)
	hits, err := e.Find(Query{Name: "main"})
	require.NoError(t, err)
	assert.Len(t, hits, 1)
	hits, err = e.Find(Query{Name: "start"})
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	// New file gets max+1.
	id = e.UpdateFile(ports.FileMeta{Path: "new.kn"}, []ports.Tag{{Name: "fresh", Kind: "var", Line: 1}})
	assert.Equal(t, uint32(4), id)
	assert.Len(t, e.Files(), 4)
}

func TestEngine_UpdateFileOnEmptyEngine(t *testing.T) {
	e := NewEngine(nil)
	id := e.UpdateFile(ports.FileMeta{Path: "a.kn"}, nil)
	assert.Equal(t, uint32(1), id)
	assert.Equal(t, 1, e.Stats().Files)
}

func TestEngine_RemoveFile(t *testing.T) {
	e := NewEngine(makeTestIndex())

	assert.True(t, e.RemoveFile("lib/geom.kn"))
	assert.False(t, e.RemoveFile("lib/geom.kn"))

	hits, err := e.Find(Query{Name: "Point"})
	require.NoError(t, err)
	assert.Empty(t, hits)
	assert.Equal(t, 2, e.Stats().Files)
}

func TestEngine_SnapshotIsIndependent(t *testing.T) {
	e := NewEngine(makeTestIndex())
	snap := e.Snapshot()

	e.RemoveFile("main.kn")
	assert.Len(t, snap.Files, 3)
	assert.Equal(t, 7, snap.TagCount())
}

func TestEngine_Reset(t *testing.T) {
	e := NewEngine(makeTestIndex())

	idx := ports.NewIndex()
	idx.Files[1] = &ports.FileMeta{Path: "other.kn"}
	idx.Tags[1] = []ports.Tag{{Name: "Other", Kind: "class", Line: 1}}
	e.Reset(idx)

	hits, err := e.Find(Query{Name: "main"})
	require.NoError(t, err)
	assert.Empty(t, hits)
	assert.Len(t, e.FileTags("other.kn"), 1)

	e.Reset(nil)
	assert.Equal(t, 0, e.Stats().Files)
}

func TestEngine_ConcurrentUpdateAndFind(t *testing.T) {
	e := NewEngine(makeTestIndex())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			e.UpdateFile(ports.FileMeta{Path: "main.kn"}, []ports.Tag{{Name: "main", Kind: "func", Line: 1}})
		}()
		go func() {
			defer wg.Done()
			_, err := e.Find(Query{Name: "main"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestFormatHit(t *testing.T) {
	h := Hit{Name: "Point", Kind: "class", Path: "lib/geom.kn", Line: 2}
	assert.Equal(t, "lib/geom.kn:2: class Point", FormatHit(h))
}
