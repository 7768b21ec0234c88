// Package ctags drives the Kuin scanner over source files and speaks the
// ctags formats: it implements ports.Parser for the indexer and writes
// extended-format tag files and kind listings.
//
// The scanner itself knows nothing about line numbers; Parser counts
// physical lines while feeding them and attaches the line to each tag.
package ctags

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/corey/kntags/internal/domain/kuin"
	"github.com/corey/kntags/internal/ports"
)

// DefaultMaxLineSize bounds a single physical line. Longer lines abort the file.
const DefaultMaxLineSize = 1 << 20

// Parser extracts Kuin declarations as ports.Tag values.
type Parser struct {
	exts        map[string]bool
	kinds       map[kuin.Kind]bool
	maxLineSize int
}

// Option configures a Parser.
type Option func(*Parser)

// WithExtensions replaces the recognized file extensions (default ".kn").
func WithExtensions(exts ...string) Option {
	return func(p *Parser) {
		p.exts = make(map[string]bool, len(exts))
		for _, ext := range exts {
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			p.exts[strings.ToLower(ext)] = true
		}
	}
}

// WithKinds restricts reported tags to the given kinds.
func WithKinds(kinds ...kuin.Kind) Option {
	return func(p *Parser) {
		p.kinds = make(map[kuin.Kind]bool, len(kinds))
		for _, k := range kinds {
			if k.Valid() {
				p.kinds[k] = true
			}
		}
	}
}

// WithMaxLineSize sets the longest accepted physical line in bytes.
func WithMaxLineSize(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxLineSize = n
		}
	}
}

// NewParser creates a parser for .kn files reporting every enabled kind.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		exts:        map[string]bool{kuin.Extension: true},
		kinds:       make(map[kuin.Kind]bool),
		maxLineSize: DefaultMaxLineSize,
	}
	for _, k := range kuin.Kinds() {
		p.kinds[k] = k.Enabled()
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseKinds converts a ctags kind-letter string such as "fCv" into kinds.
// An empty string selects every enabled kind.
func ParseKinds(letters string) ([]kuin.Kind, error) {
	if letters == "" {
		var out []kuin.Kind
		for _, k := range kuin.Kinds() {
			if k.Enabled() {
				out = append(out, k)
			}
		}
		return out, nil
	}
	var out []kuin.Kind
	seen := make(map[kuin.Kind]bool)
	for i := 0; i < len(letters); i++ {
		k, ok := kuin.KindByLetter(letters[i])
		if !ok {
			return nil, fmt.Errorf("unknown %s kind letter %q", kuin.Language, letters[i])
		}
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out, nil
}

// SupportsExtension returns true if the parser recognizes this file extension.
func (p *Parser) SupportsExtension(ext string) bool {
	return p.exts[strings.ToLower(ext)]
}

// Reports returns true if tags of kind k are emitted by this parser.
func (p *Parser) Reports(k kuin.Kind) bool {
	return p.kinds[k]
}

// ParseFile extracts tags from source. Returns nil, nil for unsupported
// extensions.
func (p *Parser) ParseFile(path string, source []byte) ([]ports.Tag, error) {
	if !p.SupportsExtension(filepath.Ext(path)) {
		return nil, nil
	}
	tags, err := p.ParseReader(bytes.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tags, nil
}

// ParseReader scans r line by line with a fresh scanner. Lines are split as
// bufio.ScanLines does; a dropped trailing '\r' never changes the result
// because the scanner treats it as an ordinary end-of-line character.
func (p *Parser) ParseReader(r io.Reader) ([]ports.Tag, error) {
	sc := bufio.NewScanner(r)
	initial := 64 * 1024
	if initial > p.maxLineSize {
		initial = p.maxLineSize
	}
	sc.Buffer(make([]byte, 0, initial), p.maxLineSize)

	var tags []ports.Tag
	scanner := kuin.NewScanner()
	var line uint32
	for sc.Scan() {
		line++
		for _, d := range scanner.Line(sc.Bytes()) {
			if !p.Reports(d.Kind) {
				continue
			}
			tags = append(tags, ports.Tag{Name: d.Name, Kind: d.Kind.Name(), Line: line})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", line+1, err)
	}
	return tags, nil
}
