// Package index holds the in-memory tag index and answers navigation
// queries: by name (exact, prefix, case-insensitive), by kind, and per file.
package index

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gobwas/glob"

	"github.com/corey/kntags/internal/ports"
)

// Hit is one tag returned by a query.
type Hit struct {
	Name string `json:"name" yaml:"name"`
	Kind string `json:"kind" yaml:"kind"`
	Path string `json:"path" yaml:"path"`
	Line uint32 `json:"line" yaml:"line"`
}

// Query selects tags. The zero Query matches every tag.
type Query struct {
	Name       string   // empty matches every name
	Prefix     bool     // match names starting with Name
	IgnoreCase bool     // fold case when comparing names
	Kinds      []string // declaration keywords; empty means all
	FileGlob   string   // slash-separated glob on the file path ("**" crosses directories)
	MaxCount   int      // 0 = unlimited
}

// Stats summarizes the index.
type Stats struct {
	Files  int            `json:"files" yaml:"files"`
	Tags   int            `json:"tags" yaml:"tags"`
	ByKind map[string]int `json:"by_kind" yaml:"by_kind"`
}

// tagRef addresses idx.Tags[fileID][pos].
type tagRef struct {
	fileID uint32
	pos    int
}

// Engine is the queryable tag index. It is safe for concurrent use: the
// watcher updates files while queries run.
type Engine struct {
	mu  sync.RWMutex
	idx *ports.Index

	// byName and byLower map exact and lowercased names to their tags.
	// Rebuilt on every update.
	byName   map[string][]tagRef
	byLower  map[string][]tagRef
	pathToID map[string]uint32
}

// NewEngine builds an engine over idx. A nil idx starts empty.
func NewEngine(idx *ports.Index) *Engine {
	if idx == nil {
		idx = ports.NewIndex()
	}
	if idx.Files == nil {
		idx.Files = make(map[uint32]*ports.FileMeta)
	}
	if idx.Tags == nil {
		idx.Tags = make(map[uint32][]ports.Tag)
	}
	e := &Engine{idx: idx}
	e.rebuild()
	return e
}

// rebuild recomputes the lookup maps. Must be called with e.mu held for writing
// (or before the engine is shared).
func (e *Engine) rebuild() {
	e.byName = make(map[string][]tagRef)
	e.byLower = make(map[string][]tagRef)
	e.pathToID = make(map[string]uint32, len(e.idx.Files))

	for id, fm := range e.idx.Files {
		e.pathToID[fm.Path] = id
	}
	for id, tags := range e.idx.Tags {
		for pos, tag := range tags {
			ref := tagRef{fileID: id, pos: pos}
			e.byName[tag.Name] = append(e.byName[tag.Name], ref)
			lower := strings.ToLower(tag.Name)
			e.byLower[lower] = append(e.byLower[lower], ref)
		}
	}
}

// Find returns the tags matching q, ordered by path then line.
// Returns an error only for a malformed FileGlob.
func (e *Engine) Find(q Query) ([]Hit, error) {
	var fileMatch glob.Glob
	if q.FileGlob != "" {
		g, err := glob.Compile(q.FileGlob, '/')
		if err != nil {
			return nil, fmt.Errorf("file pattern %q: %w", q.FileGlob, err)
		}
		fileMatch = g
	}

	kinds := make(map[string]bool, len(q.Kinds))
	for _, k := range q.Kinds {
		kinds[k] = true
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	var hits []Hit
	for _, ref := range e.candidates(q) {
		fm := e.idx.Files[ref.fileID]
		if fm == nil {
			continue
		}
		tag := e.idx.Tags[ref.fileID][ref.pos]
		if len(kinds) > 0 && !kinds[tag.Kind] {
			continue
		}
		if fileMatch != nil && !fileMatch.Match(fm.Path) {
			continue
		}
		hits = append(hits, Hit{Name: tag.Name, Kind: tag.Kind, Path: fm.Path, Line: tag.Line})
	}

	sortHits(hits)
	if q.MaxCount > 0 && len(hits) > q.MaxCount {
		hits = hits[:q.MaxCount]
	}
	return hits, nil
}

// candidates returns the refs whose names match q.Name. Must be called with
// e.mu held.
func (e *Engine) candidates(q Query) []tagRef {
	name := q.Name
	names := e.byName
	if q.IgnoreCase {
		name = strings.ToLower(name)
		names = e.byLower
	}

	if !q.Prefix && name != "" {
		return names[name]
	}

	var refs []tagRef
	for key, r := range names {
		if strings.HasPrefix(key, name) {
			refs = append(refs, r...)
		}
	}
	return refs
}

// FileTags returns the tags of one file in line order, or nil if the path is
// not indexed.
func (e *Engine) FileTags(path string) []Hit {
	e.mu.RLock()
	defer e.mu.RUnlock()

	id, ok := e.pathToID[path]
	if !ok {
		return nil
	}
	tags := e.idx.Tags[id]
	hits := make([]Hit, len(tags))
	for i, tag := range tags {
		hits[i] = Hit{Name: tag.Name, Kind: tag.Kind, Path: path, Line: tag.Line}
	}
	return hits
}

// Files returns the indexed files sorted by path.
func (e *Engine) Files() []ports.FileMeta {
	e.mu.RLock()
	defer e.mu.RUnlock()

	files := make([]ports.FileMeta, 0, len(e.idx.Files))
	for _, fm := range e.idx.Files {
		files = append(files, *fm)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

// Stats counts files, tags, and tags per kind.
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	st := Stats{Files: len(e.idx.Files), ByKind: make(map[string]int)}
	for _, tags := range e.idx.Tags {
		st.Tags += len(tags)
		for _, tag := range tags {
			st.ByKind[tag.Kind]++
		}
	}
	return st
}

// UpdateFile replaces the tags of meta.Path, adding the file if it is new.
// Existing files keep their file ID. Returns the file ID.
func (e *Engine) UpdateFile(meta ports.FileMeta, tags []ports.Tag) uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()

	id, ok := e.pathToID[meta.Path]
	if !ok {
		// Allocate new fileID (max existing + 1)
		for existing := range e.idx.Files {
			if existing >= id {
				id = existing + 1
			}
		}
		if id == 0 {
			id = 1
		}
	}

	m := meta
	e.idx.Files[id] = &m
	e.idx.Tags[id] = tags
	e.rebuild()
	return id
}

// RemoveFile drops a file and its tags. Returns false if the path was not
// indexed.
func (e *Engine) RemoveFile(path string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	id, ok := e.pathToID[path]
	if !ok {
		return false
	}
	delete(e.idx.Files, id)
	delete(e.idx.Tags, id)
	e.rebuild()
	return true
}

// Reset replaces the whole index, as after a full reindex.
func (e *Engine) Reset(idx *ports.Index) {
	if idx == nil {
		idx = ports.NewIndex()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.idx = idx
	e.rebuild()
}

// Snapshot returns a copy of the index suitable for persisting while the
// engine keeps serving. Tag slices are shared; the engine replaces them
// rather than mutating them.
func (e *Engine) Snapshot() *ports.Index {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := ports.NewIndex()
	for id, fm := range e.idx.Files {
		m := *fm
		out.Files[id] = &m
	}
	for id, tags := range e.idx.Tags {
		out.Tags[id] = tags
	}
	return out
}

func sortHits(hits []Hit) {
	sort.Slice(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Name < b.Name
	})
}
