// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It recursively watches a project directory, filters out noise directories and
// editor droppings, and debounces rapid events per path so a burst of writes
// produces one callback after the last of them.
package fsnotify

import (
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a path must stay quiet before its callback fires.
const DefaultDebounce = 50 * time.Millisecond

// Directories never watched. Everything else is up to WithSkipDir.
var ignoreDirs = map[string]bool{
	".git":    true,
	".hg":     true,
	".svn":    true,
	".kntags": true,
}

// File extensions/suffixes to ignore.
var ignoreFiles = map[string]bool{
	".DS_Store": true,
	".swp":      true,
	".swx":      true,
	"~":         true,
	".tmp":      true,
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the per-path debounce interval.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithSkipDir adds a predicate for directories to skip, on top of the
// built-in ignore list. It receives the directory's slash-separated path
// relative to the watched root.
func WithSkipDir(skip func(rel string) bool) Option {
	return func(w *Watcher) {
		w.skipDir = skip
	}
}

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw       *fsnotify.Watcher
	done     chan struct{}
	stopped  bool
	mu       sync.Mutex
	debounce time.Duration
	skipDir  func(rel string) bool
}

// NewWatcher creates a new file system watcher.
func NewWatcher(opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fw:       fw,
		done:     make(chan struct{}),
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch starts monitoring projectPath recursively.
// onChange is called with the absolute path of each changed file.
func (w *Watcher) Watch(projectPath string, onChange func(filePath string)) error {
	absPath, err := filepath.Abs(projectPath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(absPath); err != nil {
		return err
	}

	// Walk and add all directories
	err = filepath.Walk(absPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		if info.IsDir() {
			if path != absPath && w.shouldIgnoreDir(absPath, path) {
				return filepath.SkipDir
			}
			return w.fw.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Pending callbacks per file. Each event pushes the callback back, so it
	// fires once the path has been quiet for the debounce interval.
	pending := make(map[string]*time.Timer)
	var pmu sync.Mutex
	fire := func(path string) {
		pmu.Lock()
		delete(pending, path)
		pmu.Unlock()
		select {
		case <-w.done:
			return
		default:
		}
		onChange(path)
	}

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				path := event.Name

				// For Create events, add new directories to the watch list
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(path); err == nil && info.IsDir() {
						if !w.shouldIgnoreDir(absPath, path) {
							w.fw.Add(path)
						}
						continue
					}
				}

				if w.shouldIgnorePath(absPath, path) {
					continue
				}

				if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) {
					continue
				}

				pmu.Lock()
				if t, ok := pending[path]; ok {
					t.Reset(w.debounce)
				} else {
					pending[path] = time.AfterFunc(w.debounce, func() { fire(path) })
				}
				pmu.Unlock()

			case _, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// Errors are dropped; fsnotify keeps delivering events

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	return w.fw.Close()
}

// shouldIgnoreDir returns true if the directory at dir, below root, should be skipped.
func (w *Watcher) shouldIgnoreDir(root, dir string) bool {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return true
	}
	return w.skipRel(filepath.ToSlash(rel))
}

// skipRel checks a slash-separated directory path relative to the root.
func (w *Watcher) skipRel(rel string) bool {
	if ignoreDirs[path.Base(rel)] {
		return true
	}
	return w.skipDir != nil && w.skipDir(rel)
}

// shouldIgnorePath returns true if the file path should not trigger onChange.
// Only components below root are checked against the ignored directories.
func (w *Watcher) shouldIgnorePath(root, file string) bool {
	base := filepath.Base(file)

	if ignoreFiles[base] {
		return true
	}
	for ext := range ignoreFiles {
		if strings.HasSuffix(base, ext) {
			return true
		}
	}

	rel, err := filepath.Rel(root, file)
	if err != nil {
		return true
	}

	// Check every parent directory below root
	for dir := path.Dir(filepath.ToSlash(rel)); dir != "." && dir != "/"; dir = path.Dir(dir) {
		if w.skipRel(dir) {
			return true
		}
	}

	return false
}
