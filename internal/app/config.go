package app

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gobwas/glob"

	"github.com/corey/kntags/internal/adapters/ctags"
	fsw "github.com/corey/kntags/internal/adapters/fsnotify"
	"github.com/corey/kntags/internal/domain/kuin"
)

// DefaultMaxFileSize is the largest source file indexed by default.
const DefaultMaxFileSize = 1 << 20

// alwaysSkip is never indexed, whatever exclude.dirs says.
var alwaysSkip = map[string]bool{
	".git":      true,
	".hg":       true,
	".svn":      true,
	DataDirName: true,
}

// Config is the project configuration read from .kntags/config.toml.
type Config struct {
	Extensions  []string `toml:"extensions"`
	Kinds       string   `toml:"kinds"` // ctags kind letters; empty = all enabled kinds
	MaxFileSize int64    `toml:"max_file_size"`
	Exclude     Exclude  `toml:"exclude"`
	Watch       Watch    `toml:"watch"`
	Log         Log      `toml:"log"`

	dirGlobs []glob.Glob
}

type Exclude struct {
	// Dirs are glob patterns matched against a directory's base name and
	// against its slash-separated path relative to the project root.
	Dirs []string `toml:"dirs"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

type Log struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	cfg := &Config{
		Extensions:  []string{kuin.Extension},
		MaxFileSize: DefaultMaxFileSize,
		Exclude: Exclude{
			Dirs: []string{".idea", ".vscode", "vendor", "dist", "build"},
		},
		Watch: Watch{Debounce: fsw.DefaultDebounce},
		Log:   Log{Level: "info"},
	}
	if err := cfg.compile(); err != nil {
		panic(err)
	}
	return cfg
}

// LoadConfig reads a TOML config file over the defaults. A missing file is
// not an error. Unknown keys are logged and ignored.
func LoadConfig(file string) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(file, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config %s: %w", file, err)
	}
	for _, key := range md.Undecoded() {
		slog.Warn("unknown config key", "path", file, "key", key.String())
	}
	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("config %s: %w", file, err)
	}
	return cfg, nil
}

// normalize fills zero values with defaults and validates the rest.
func (c *Config) normalize() error {
	if len(c.Extensions) == 0 {
		c.Extensions = []string{kuin.Extension}
	}
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = DefaultMaxFileSize
	}
	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = fsw.DefaultDebounce
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := ctags.ParseKinds(c.Kinds); err != nil {
		return err
	}
	return c.compile()
}

func (c *Config) compile() error {
	c.dirGlobs = c.dirGlobs[:0]
	for _, p := range c.Exclude.Dirs {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return fmt.Errorf("exclude.dirs %q: %w", p, err)
		}
		c.dirGlobs = append(c.dirGlobs, g)
	}
	return nil
}

// SkipDir reports whether a directory is excluded from indexing and
// watching. rel is the slash-separated path relative to the project root.
func (c *Config) SkipDir(rel string) bool {
	name := path.Base(rel)
	if alwaysSkip[name] {
		return true
	}
	for _, g := range c.dirGlobs {
		if g.Match(name) || g.Match(rel) {
			return true
		}
	}
	return false
}

// NewParser builds the ctags parser this configuration describes.
func (c *Config) NewParser() (*ctags.Parser, error) {
	kinds, err := ctags.ParseKinds(c.Kinds)
	if err != nil {
		return nil, err
	}
	return ctags.NewParser(
		ctags.WithExtensions(c.Extensions...),
		ctags.WithKinds(kinds...),
	), nil
}

// Encode writes the configuration as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// ParseLevel maps a level name to its slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return 0, fmt.Errorf("log level %q: %w", name, err)
	}
	return level, nil
}
