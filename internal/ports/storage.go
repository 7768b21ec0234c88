// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

// Storage persists the tag index to durable storage.
// The backing store (bbolt) is project-scoped: each projectID gets its own
// namespace. Concurrent reads are safe; writes are serialized by the adapter.
//
// Crash safety: SaveIndex must be transactional. A crash mid-write must not
// corrupt previously committed data.
type Storage interface {
	// SaveIndex persists the full tag index for a project.
	// Overwrites any prior index for this projectID.
	SaveIndex(projectID string, index *Index) error

	// LoadIndex retrieves the tag index for a project.
	// Returns nil, nil if no index exists (fresh project).
	LoadIndex(projectID string) (*Index, error)

	// DeleteProject removes all data for a project.
	// Idempotent: deleting a nonexistent project is not an error.
	DeleteProject(projectID string) error
}

// Index is the persisted tag index. File IDs are assigned by the indexer
// and are stable only within one Index value.
type Index struct {
	Files map[uint32]*FileMeta // file_id -> file info
	Tags  map[uint32][]Tag     // file_id -> tags in line order
}

// NewIndex returns an empty Index with its maps allocated.
func NewIndex() *Index {
	return &Index{
		Files: make(map[uint32]*FileMeta),
		Tags:  make(map[uint32][]Tag),
	}
}

// TagCount returns the total number of tags across all files.
func (idx *Index) TagCount() int {
	n := 0
	for _, tags := range idx.Tags {
		n += len(tags)
	}
	return n
}

// Tag is one declaration found in a source file.
type Tag struct {
	Name string
	Kind string // declaration keyword: "func", "class", "var", ...
	Line uint32 // 1-based physical line
}

// FileMeta contains file metadata
type FileMeta struct {
	Path         string // relative to the project root, slash-separated
	LastModified int64
	Size         int64
	Language     string
}
