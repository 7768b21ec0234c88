package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/kntags/internal/adapters/ctags"
	"github.com/corey/kntags/internal/app"
)

var (
	tagsOutput string
	tagsKinds  string
)

var tagsCmd = &cobra.Command{
	Use:   "tags [file|dir ...]",
	Short: "Write a ctags file",
	Long: "Scans the given files and directories (default: the project root) and writes an " +
		"extended-format ctags file. Reads sources directly; the index database is not used.",
	RunE: runTags,
}

func init() {
	tagsCmd.Flags().StringVarP(&tagsOutput, "output", "o", "tags", "Output file, relative to the project root (- for stdout)")
	tagsCmd.Flags().StringVar(&tagsKinds, "kinds", "", "Kind letters to emit, e.g. fC (default: from config)")
}

func runTags(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}

	cfg := *projectConfig
	if cmd.Flags().Changed("kinds") {
		cfg.Kinds = tagsKinds
	}
	parser, err := cfg.NewParser()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		args = []string{root}
	}
	files, err := expandSources(root, args, parser, &cfg)
	if err != nil {
		return err
	}

	var entries []ctags.Entry
	for _, path := range files {
		source, _, err := app.ReadSource(path, &cfg)
		if err != nil {
			slog.Warn("skipped", "path", path, "error", err)
			continue
		}
		tags, err := parser.ParseFile(path, source)
		if err != nil {
			slog.Warn("parse", "path", path, "error", err)
			continue
		}
		rel := relToRoot(root, path)
		for _, tag := range tags {
			entries = append(entries, ctags.Entry{Path: rel, Tag: tag})
		}
	}

	if tagsOutput == "-" {
		return ctags.WriteTags(cmd.OutOrStdout(), entries)
	}

	dest := tagsOutput
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(root, dest)
	}
	if err := writeFileAtomic(dest, func(w io.Writer) error {
		return ctags.WriteTags(w, entries)
	}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "⚡ wrote %d tags from %d files to %s\n", len(entries), len(files), dest)
	return nil
}

// expandSources resolves command-line arguments to source files. Directories
// are walked like the indexer does; files are taken as given.
func expandSources(root string, args []string, parser *ctags.Parser, cfg *app.Config) ([]string, error) {
	var files []string
	for _, arg := range args {
		path := arg
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		found, err := app.CollectFiles(path, parser, cfg)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

// relToRoot returns path relative to root with forward slashes, or the
// cleaned path itself when it lies outside root.
func relToRoot(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(filepath.Clean(path))
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return filepath.ToSlash(filepath.Clean(path))
	}
	return rel
}

// writeFileAtomic writes through a temp file in the destination directory and
// renames it into place.
func writeFileAtomic(dest string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".kntags-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}
