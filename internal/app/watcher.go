package app

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// onFileChanged handles a file create/modify/delete event from the watcher.
// It re-parses the file (or drops it) and saves the index.
func (a *App) onFileChanged(absPath string) {
	if !a.Parser.SupportsExtension(filepath.Ext(absPath)) {
		return
	}
	rel := relSlash(a.ProjectRoot, absPath)
	if rel == ".." || strings.HasPrefix(rel, "../") || a.excluded(rel) {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	var changed bool
	if _, err := os.Stat(absPath); errors.Is(err, fs.ErrNotExist) {
		changed = a.Engine.RemoveFile(rel)
		if changed {
			slog.Debug("file removed", "path", rel)
		}
	} else if meta, tags, ok := parseSource(a.ProjectRoot, absPath, a.Parser, a.Config); ok {
		a.Engine.UpdateFile(*meta, tags)
		changed = true
		slog.Debug("file indexed", "path", rel, "tags", len(tags))
	} else {
		// Unreadable or grown past the size limit: keep the index consistent
		// with what BuildIndex would produce.
		changed = a.Engine.RemoveFile(rel)
	}

	if !changed {
		return
	}
	if err := a.save(); err != nil {
		slog.Error("save index", "path", rel, "error", err)
	}
}

// excluded reports whether any parent directory of rel is skipped by the config.
func (a *App) excluded(rel string) bool {
	for dir := path.Dir(rel); dir != "." && dir != "/"; dir = path.Dir(dir) {
		if a.Config.SkipDir(dir) {
			return true
		}
	}
	return false
}
