package ctags

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/corey/kntags/internal/domain/kuin"
	"github.com/corey/kntags/internal/ports"
)

// ProgramName is written to the !_TAG_PROGRAM_NAME pseudo-tag.
const ProgramName = "kntags"

// Entry is a tag together with the file it was found in.
type Entry struct {
	Path string
	ports.Tag
}

// pseudoTags is the header of every tag file. The file is always sorted
// bytewise, so readers may binary-search it.
var pseudoTags = []string{
	"!_TAG_FILE_FORMAT\t2\t/extended format; --format=1 will not append ;\" to lines/",
	"!_TAG_FILE_SORTED\t1\t/0=unsorted, 1=sorted, 2=foldcase/",
	"!_TAG_PROGRAM_NAME\t" + ProgramName + "\t//",
}

// SortEntries orders entries by name, then path, then line.
func SortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Line < b.Line
	})
}

// KindLetter returns the ctags letter for a tag kind name, or '?'.
func KindLetter(kind string) byte {
	k, ok := kuin.KindByName(kind)
	if !ok {
		return '?'
	}
	return k.Letter()
}

// WriteTags writes an extended-format tag file. Tag addresses are line
// numbers. entries is sorted in place.
//
//	name<TAB>path<TAB>line;"<TAB>kind
func WriteTags(w io.Writer, entries []Entry) error {
	SortEntries(entries)

	bw := bufio.NewWriter(w)
	for _, h := range pseudoTags {
		bw.WriteString(h)
		bw.WriteByte('\n')
	}
	for _, e := range entries {
		fmt.Fprintf(bw, "%s\t%s\t%d;\"\t%c\n", e.Name, e.Path, e.Line, KindLetter(e.Kind))
	}
	return bw.Flush()
}

// WriteKinds lists the kind table the way `ctags --list-kinds` does. Kinds
// the parser does not report are marked [off].
func WriteKinds(w io.Writer, p *Parser) error {
	bw := bufio.NewWriter(w)
	for _, k := range kuin.Kinds() {
		fmt.Fprintf(bw, "%c  %s", k.Letter(), k.Plural())
		if p != nil && !p.Reports(k) {
			bw.WriteString(" [off]")
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
