package ports

// Parser extracts tags (named top-level declarations) from source files.
// The concrete implementation lives in internal/adapters/ctags.
type Parser interface {
	// ParseFile extracts the tags of one source file, in line order.
	// Returns nil, nil for unsupported files (not an error).
	ParseFile(path string, source []byte) ([]Tag, error)

	// SupportsExtension returns true if the parser can handle files with this
	// extension (e.g., ".kn"). Extension includes the leading dot.
	SupportsExtension(ext string) bool
}
