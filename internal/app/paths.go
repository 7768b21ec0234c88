package app

import (
	"os"
	"path/filepath"
)

// DataDirName is the per-project directory holding the database, config and logs.
const DataDirName = ".kntags"

// Paths holds all resolved filesystem paths for the .kntags/ project directory.
type Paths struct {
	Root   string // .kntags/
	DB     string // .kntags/kntags.db
	Config string // .kntags/config.toml

	LogDir string // .kntags/log/
	Log    string // .kntags/log/kntags.log
}

// NewPaths constructs all resolved paths from a project root directory.
func NewPaths(projectRoot string) *Paths {
	root := filepath.Join(projectRoot, DataDirName)
	return &Paths{
		Root:   root,
		DB:     filepath.Join(root, "kntags.db"),
		Config: filepath.Join(root, "config.toml"),

		LogDir: filepath.Join(root, "log"),
		Log:    filepath.Join(root, "log", "kntags.log"),
	}
}

// EnsureDirs creates all subdirectories under .kntags/. Idempotent.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{p.Root, p.LogDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

// Exists reports whether the .kntags/ directory has been created.
func (p *Paths) Exists() bool {
	info, err := os.Stat(p.Root)
	return err == nil && info.IsDir()
}

// Remove deletes the whole .kntags/ directory.
func (p *Paths) Remove() error {
	return os.RemoveAll(p.Root)
}
