package app

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/kntags/internal/domain/kuin"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, []string{".kn"}, cfg.Extensions)
	assert.Equal(t, "", cfg.Kinds)
	assert.Equal(t, int64(1<<20), cfg.MaxFileSize)
	assert.Equal(t, 50*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Contains(t, cfg.Exclude.Dirs, "vendor")
}

func TestLoadConfig_Overrides(t *testing.T) {
	path := writeConfig(t, `
extensions = [".kn", "kuin"]
kinds = "fC"
max_file_size = 2048

[exclude]
dirs = ["third_party", "gen/**"]

[watch]
debounce = "250ms"

[log]
level = "debug"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []string{".kn", "kuin"}, cfg.Extensions)
	assert.Equal(t, "fC", cfg.Kinds)
	assert.Equal(t, int64(2048), cfg.MaxFileSize)
	assert.Equal(t, []string{"third_party", "gen/**"}, cfg.Exclude.Dirs)
	assert.Equal(t, 250*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Replacing exclude.dirs drops the default list.
	assert.False(t, cfg.SkipDir("vendor"))
	assert.True(t, cfg.SkipDir("third_party"))
	assert.True(t, cfg.SkipDir("src/third_party"))
	assert.True(t, cfg.SkipDir("gen/deep/er"))
	assert.False(t, cfg.SkipDir("src/gen"))
}

func TestLoadConfig_ZeroValuesFallBack(t *testing.T) {
	path := writeConfig(t, `
extensions = []
max_file_size = 0
[log]
level = ""
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{kuin.Extension}, cfg.Extensions)
	assert.Equal(t, int64(DefaultMaxFileSize), cfg.MaxFileSize)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"syntax", "kinds = ", "config"},
		{"unknown kind letter", `kinds = "fx"`, "kind letter"},
		{"bad glob", "[exclude]\ndirs = [\"lib/[.kn\"]", "exclude.dirs"},
		{"bad level", "[log]\nlevel = \"loud\"", "log level"},
		{"bad duration", "[watch]\ndebounce = \"soon\"", "config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadConfig_UnknownKeyWarns(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	_, err := LoadConfig(writeConfig(t, "colour = true\n"))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "unknown config key")
	assert.Contains(t, buf.String(), "colour")
}

func TestConfig_SkipDirAlwaysSkipsMetadata(t *testing.T) {
	cfg := DefaultConfig()
	for _, name := range []string{".git", ".hg", ".svn", ".kntags", "src/.git"} {
		assert.True(t, cfg.SkipDir(name), name)
	}
	assert.True(t, cfg.SkipDir("build"))
	assert.False(t, cfg.SkipDir("src"))
}

func TestConfig_NewParser(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Extensions = []string{"kuin"}
	cfg.Kinds = "f"

	p, err := cfg.NewParser()
	require.NoError(t, err)
	assert.True(t, p.SupportsExtension(".kuin"))
	assert.False(t, p.SupportsExtension(".kn"))
	assert.True(t, p.Reports(kuin.Func))
	assert.False(t, p.Reports(kuin.Var))
}

func TestConfig_EncodeRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Watch.Debounce = time.Second

	var buf bytes.Buffer
	require.NoError(t, cfg.Encode(&buf))
	assert.Contains(t, buf.String(), `debounce = "1s"`)

	var back Config
	_, err := toml.Decode(buf.String(), &back)
	require.NoError(t, err)
	assert.Equal(t, cfg.Extensions, back.Extensions)
	assert.Equal(t, cfg.Exclude.Dirs, back.Exclude.Dirs)
	assert.Equal(t, time.Second, back.Watch.Debounce)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)

	_, err = ParseLevel("chatty")
	assert.Error(t, err)
}

func TestSetupLogging_VerboseForcesDebug(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger, err := SetupLogging(&buf, "error", true)
	require.NoError(t, err)
	logger.Debug("hello", "k", "v")
	assert.Contains(t, buf.String(), "msg=hello")

	buf.Reset()
	_, err = SetupLogging(&buf, "error", false)
	require.NoError(t, err)
	slog.Warn("dropped")
	assert.Empty(t, buf.String())
}
