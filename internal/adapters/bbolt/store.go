// Package bbolt implements the ports.Storage interface using bbolt (embedded B+ tree).
// Each project gets its own top-level bucket. Within that bucket, an "index"
// sub-bucket holds the gob-encoded files and tags maps. Writes are
// transactional: a crash mid-write cannot corrupt previously committed data.
package bbolt

import (
	"fmt"
	"time"

	"github.com/corey/kntags/internal/ports"
	bolt "go.etcd.io/bbolt"
)

// Bucket keys
var (
	bucketIndex = []byte("index")
	keyVersion  = []byte("version")
	keyFiles    = []byte("files")
	keyTags     = []byte("tags")
)

// Store implements ports.Storage backed by bbolt.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.db.Path()
}

// SaveIndex persists the full tag index for a project.
func (s *Store) SaveIndex(projectID string, idx *ports.Index) error {
	if idx == nil {
		return fmt.Errorf("nil index")
	}

	filesBlob, err := encodeGob(idx.Files)
	if err != nil {
		return fmt.Errorf("encode files: %w", err)
	}
	tagsBlob, err := encodeGob(idx.Tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		proj, err := tx.CreateBucketIfNotExists([]byte(projectID))
		if err != nil {
			return err
		}
		ib, err := proj.CreateBucketIfNotExists(bucketIndex)
		if err != nil {
			return err
		}
		if err := ib.Put(keyVersion, []byte{formatVersion}); err != nil {
			return err
		}
		if err := ib.Put(keyFiles, filesBlob); err != nil {
			return err
		}
		return ib.Put(keyTags, tagsBlob)
	})
}

// LoadIndex retrieves the tag index for a project.
// Returns nil, nil if no index exists (fresh project).
func (s *Store) LoadIndex(projectID string) (*ports.Index, error) {
	var version byte
	var filesBlob, tagsBlob []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		proj := tx.Bucket([]byte(projectID))
		if proj == nil {
			return nil
		}
		ib := proj.Bucket(bucketIndex)
		if ib == nil {
			return nil
		}
		if v := ib.Get(keyVersion); len(v) == 1 {
			version = v[0]
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := ib.Get(keyFiles); v != nil {
			filesBlob = make([]byte, len(v))
			copy(filesBlob, v)
		}
		if v := ib.Get(keyTags); v != nil {
			tagsBlob = make([]byte, len(v))
			copy(tagsBlob, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if filesBlob == nil && tagsBlob == nil {
		return nil, nil
	}
	if version != formatVersion {
		return nil, fmt.Errorf("index format version %d, want %d (re-run index)", version, formatVersion)
	}

	idx := ports.NewIndex()
	if filesBlob != nil {
		if err := decodeGob(filesBlob, &idx.Files); err != nil {
			return nil, fmt.Errorf("decode files: %w", err)
		}
	}
	if tagsBlob != nil {
		if err := decodeGob(tagsBlob, &idx.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}
	return idx, nil
}

// DeleteProject removes all data for a project.
// Idempotent: deleting a nonexistent project is not an error.
func (s *Store) DeleteProject(projectID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(projectID)); err == bolt.ErrBucketNotFound {
			return nil // idempotent
		} else {
			return err
		}
	})
}

// Projects lists the project IDs stored in this database.
func (s *Store) Projects() ([]string, error) {
	var ids []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			ids = append(ids, string(name))
			return nil
		})
	})
	return ids, err
}
