// Package app wires together all components of kntags.
// It is the composition root: adapters are created here and injected into
// the tag index. The CLI builds one App per invocation.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/corey/kntags/internal/adapters/bbolt"
	"github.com/corey/kntags/internal/adapters/ctags"
	fsw "github.com/corey/kntags/internal/adapters/fsnotify"
	"github.com/corey/kntags/internal/domain/index"
	"github.com/corey/kntags/internal/ports"
)

// App is the kntags application.
type App struct {
	ProjectRoot string
	ProjectID   string
	Paths       *Paths
	Config      *Config
	Store       *bbolt.Store
	Parser      *ctags.Parser
	Engine      *index.Engine
	Watcher     ports.Watcher

	mu      sync.Mutex // serializes index rewrites and saves
	indexed bool       // an index has been persisted for this project
}

// Options holds initialization parameters for the App.
type Options struct {
	ProjectID string  // default: base name of the project root
	Config    *Config // default: loaded from .kntags/config.toml
}

// New opens the project rooted at root: it creates .kntags/, loads the
// config, opens the store and loads any persisted index into the engine.
// Does not start watching.
func New(root string, opts Options) (*App, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("project root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", absRoot)
	}
	if opts.ProjectID == "" {
		opts.ProjectID = filepath.Base(absRoot)
	}

	paths := NewPaths(absRoot)
	if err := paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("create %s: %w", paths.Root, err)
	}

	cfg := opts.Config
	if cfg == nil {
		cfg, err = LoadConfig(paths.Config)
		if err != nil {
			return nil, err
		}
	}
	parser, err := cfg.NewParser()
	if err != nil {
		return nil, err
	}

	store, err := bbolt.NewStore(paths.DB)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	idx, err := store.LoadIndex(opts.ProjectID)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("load index: %w", err)
	}

	return &App{
		ProjectRoot: absRoot,
		ProjectID:   opts.ProjectID,
		Paths:       paths,
		Config:      cfg,
		Store:       store,
		Parser:      parser,
		Engine:      index.NewEngine(idx),
		indexed:     idx != nil,
	}, nil
}

// Reindex rebuilds the whole index from disk and persists it.
func (a *App) Reindex() (*IndexResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	idx, result, err := BuildIndex(a.ProjectRoot, a.Parser, a.Config)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	a.Engine.Reset(idx)
	if err := a.Store.SaveIndex(a.ProjectID, idx); err != nil {
		return nil, fmt.Errorf("save index: %w", err)
	}
	a.indexed = true
	return result, nil
}

// Save persists the current engine state.
func (a *App) Save() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.save()
}

func (a *App) save() error {
	if err := a.Store.SaveIndex(a.ProjectID, a.Engine.Snapshot()); err != nil {
		return err
	}
	a.indexed = true
	return nil
}

// Indexed reports whether the project has a persisted index, even an empty one.
func (a *App) Indexed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.indexed
}

// Wipe deletes the persisted index for this project and empties the engine.
func (a *App) Wipe() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.Store.DeleteProject(a.ProjectID); err != nil {
		return err
	}
	a.Engine.Reset(nil)
	a.indexed = false
	return nil
}

// StartWatch begins watching the project tree. Changes to matching files
// update the index and are saved immediately.
func (a *App) StartWatch() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.Watcher != nil {
		return errors.New("already watching")
	}
	w, err := fsw.NewWatcher(
		fsw.WithDebounce(a.Config.Watch.Debounce),
		fsw.WithSkipDir(a.Config.SkipDir),
	)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Watch(a.ProjectRoot, a.onFileChanged); err != nil {
		w.Stop()
		return fmt.Errorf("watch %s: %w", a.ProjectRoot, err)
	}
	a.Watcher = w
	slog.Info("watching", "root", a.ProjectRoot, "debounce", a.Config.Watch.Debounce)
	return nil
}

// Stop ends watching. Safe to call when not watching.
func (a *App) Stop() error {
	a.mu.Lock()
	w := a.Watcher
	a.Watcher = nil
	a.mu.Unlock()

	if w == nil {
		return nil
	}
	return w.Stop()
}

// Close stops watching and closes the store.
func (a *App) Close() error {
	werr := a.Stop()
	serr := a.Store.Close()
	return errors.Join(werr, serr)
}
