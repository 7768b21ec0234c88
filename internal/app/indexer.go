package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/corey/kntags/internal/domain/kuin"
	"github.com/corey/kntags/internal/ports"
)

// IndexResult holds statistics from a BuildIndex operation.
type IndexResult struct {
	FileCount int
	TagCount  int
	Skipped   int // oversized or unreadable files
	Elapsed   time.Duration
}

// CollectFiles walks root and returns the absolute paths of every file the
// parser accepts, in sorted order. Excluded directories are not entered.
func CollectFiles(root string, parser ports.Parser, cfg *Config) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == absRoot {
				return err
			}
			slog.Warn("walk", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			if path != absRoot && cfg.SkipDir(relSlash(absRoot, path)) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if parser.SupportsExtension(filepath.Ext(path)) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// BuildIndex walks a project root, parses every matching source file and
// builds a fresh tag index. File IDs are assigned 1..n in path order.
// Files larger than cfg.MaxFileSize and files that cannot be read or parsed
// are skipped with a warning.
func BuildIndex(root string, parser ports.Parser, cfg *Config) (*ports.Index, *IndexResult, error) {
	start := time.Now()

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, err
	}
	files, err := CollectFiles(absRoot, parser, cfg)
	if err != nil {
		return nil, nil, err
	}

	idx := ports.NewIndex()
	result := &IndexResult{}
	var fileID uint32

	for _, path := range files {
		meta, tags, ok := parseSource(absRoot, path, parser, cfg)
		if !ok {
			result.Skipped++
			continue
		}
		fileID++
		idx.Files[fileID] = meta
		idx.Tags[fileID] = tags
		result.TagCount += len(tags)
	}

	result.FileCount = len(idx.Files)
	result.Elapsed = time.Since(start)
	slog.Debug("index built", "root", absRoot, "files", result.FileCount,
		"tags", result.TagCount, "skipped", result.Skipped, "elapsed", result.Elapsed)
	return idx, result, nil
}

// ErrTooLarge is returned by ReadSource for files over max_file_size.
var ErrTooLarge = errors.New("file too large")

// ReadSource reads a source file, refusing files larger than cfg.MaxFileSize.
func ReadSource(path string, cfg *Config) ([]byte, fs.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, err
	}
	if info.Size() > cfg.MaxFileSize {
		return nil, info, fmt.Errorf("%w: %d bytes, max %d", ErrTooLarge, info.Size(), cfg.MaxFileSize)
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return source, info, nil
}

// parseSource reads and parses one file. ok is false when the file should be
// left out of the index.
func parseSource(absRoot, path string, parser ports.Parser, cfg *Config) (*ports.FileMeta, []ports.Tag, bool) {
	source, info, err := ReadSource(path, cfg)
	if err != nil {
		slog.Warn("skipped", "path", path, "error", err)
		return nil, nil, false
	}
	tags, err := parser.ParseFile(path, source)
	if err != nil {
		slog.Warn("parse", "path", path, "error", err)
		return nil, nil, false
	}

	meta := &ports.FileMeta{
		Path:         relSlash(absRoot, path),
		LastModified: info.ModTime().Unix(),
		Size:         info.Size(),
		Language:     kuin.Language,
	}
	return meta, tags, true
}

// relSlash returns path relative to root with forward slashes.
func relSlash(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return strings.TrimPrefix(filepath.ToSlash(rel), "./")
}
