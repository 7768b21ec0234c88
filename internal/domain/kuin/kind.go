// Package kuin extracts top-level declarations from Kuin source text.
//
// The scanner is line-oriented and single-pass. It tracks three pieces of
// state across lines: block comment nesting ({ ... } nests in Kuin), string
// interpolation depth ("...\{expr}..."), and whether the current line has
// consumed any code yet. Only keywords seen at the start of a line produce
// declarations.
package kuin

// Language is the display name registered for .kn files.
const Language = "Kuin"

// Extension is the file extension handled by this package, including the dot.
const Extension = ".kn"

// Kind is a declaration category. The set is fixed.
type Kind uint8

const (
	Alias Kind = iota
	Class
	Const
	Enum
	Func
	Var

	numKinds
)

// kindDef describes one Kind: its ctags letter, the keyword that introduces
// it, a plural label for listings, and whether it is reported by default.
type kindDef struct {
	letter  byte
	name    string
	plural  string
	enabled bool
}

// kindTable is indexed by Kind. Letters match the universal-ctags Kuin kinds.
var kindTable = [numKinds]kindDef{
	Alias: {'a', "alias", "aliases", true},
	Class: {'C', "class", "classes", true},
	Const: {'c', "const", "constants", true},
	Enum:  {'E', "enum", "enumeration types", true},
	Func:  {'f', "func", "functions", true},
	Var:   {'v', "var", "variables", true},
}

// Kinds returns every Kind in table order.
func Kinds() []Kind {
	out := make([]Kind, numKinds)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// Valid reports whether k is one of the six declaration kinds.
func (k Kind) Valid() bool { return k < numKinds }

// Letter returns the one-character ctags code, or '?' for an invalid Kind.
func (k Kind) Letter() byte {
	if !k.Valid() {
		return '?'
	}
	return kindTable[k].letter
}

// Name returns the keyword that introduces the declaration.
func (k Kind) Name() string {
	if !k.Valid() {
		return "unknown"
	}
	return kindTable[k].name
}

// Plural returns the label used when listing kinds.
func (k Kind) Plural() string {
	if !k.Valid() {
		return "unknown"
	}
	return kindTable[k].plural
}

// Enabled reports whether the kind is reported by default.
func (k Kind) Enabled() bool {
	return k.Valid() && kindTable[k].enabled
}

func (k Kind) String() string { return k.Name() }

// KindByName maps a keyword ("func", "var", ...) to its Kind.
func KindByName(name string) (Kind, bool) {
	for k, def := range kindTable {
		if def.name == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// KindByLetter maps a ctags letter to its Kind. Letters are case-sensitive:
// 'c' is const and 'C' is class.
func KindByLetter(letter byte) (Kind, bool) {
	for k, def := range kindTable {
		if def.letter == letter {
			return Kind(k), true
		}
	}
	return 0, false
}

// keywordKind matches a complete identifier run against the keyword table.
// The comparison is whole-token and case-sensitive.
func keywordKind(word []byte) (Kind, bool) {
	for k, def := range kindTable {
		if string(word) == def.name {
			return Kind(k), true
		}
	}
	return 0, false
}
