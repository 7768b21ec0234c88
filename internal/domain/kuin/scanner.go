package kuin

import "iter"

// Declaration is a keyword-led declaration recognized at the start of a line.
type Declaration struct {
	Name string
	Kind Kind
}

// State is the scanner state carried from one line to the next.
//
// CommentDepth > 0 means the scanner is inside a block comment. InterpDepth
// counts "\{" interpolations that are open inside string literals; while it
// is positive a '}' resumes the enclosing string instead of being an ordinary
// character. LineStart is true until the current line consumes code; it is
// recomputed at the beginning of every line.
type State struct {
	CommentDepth int
	InterpDepth  int
	LineStart    bool
}

// ScanLine scans one physical line (without its newline) starting from s and
// returns the state to carry into the next line together with any
// declarations found. It never fails: malformed input only leaves state
// behind for the following lines.
func (s State) ScanLine(line []byte) (State, []Declaration) {
	var decls []Declaration

	s.LineStart = s.CommentDepth == 0

	n := len(line)
	i := 0
	for i < n {
		c := line[i]

		if s.CommentDepth > 0 {
			switch c {
			case '"', '\'':
				i, _ = skipLiteral(line, i, c, false)
			case ';':
				i = n
			case '{':
				s.CommentDepth++
				i++
			case '}':
				if s.CommentDepth > 0 {
					s.CommentDepth--
				}
				i++
			default:
				i++
			}
			continue
		}

		switch {
		case c == ' ' || c == '\t':
			i++

		case isIdent(c):
			start := i
			i = identEnd(line, i)
			if s.LineStart {
				if kind, ok := keywordKind(line[start:i]); ok {
					j := skipBlank(line, i)
					if j < n && isIdent(line[j]) {
						end := identEnd(line, j)
						decls = append(decls, Declaration{Name: string(line[j:end]), Kind: kind})
						j = end
					}
					i = j
				}
			}
			s.LineStart = false

		case c == '"' || (c == '}' && s.InterpDepth > 0):
			s.LineStart = false
			if c == '}' {
				s.InterpDepth--
			}
			var opened bool
			i, opened = skipLiteral(line, i, '"', true)
			if opened {
				s.InterpDepth++
			}

		case c == '\'':
			s.LineStart = false
			i, _ = skipLiteral(line, i, '\'', false)

		case c == '{':
			s.CommentDepth = 1
			i++

		case c == ';':
			i = n

		case c == '+' || c == '*':
			i++

		default:
			s.LineStart = false
			i++
		}
	}

	return s, decls
}

// skipLiteral skips a string or character literal. i points at the opening
// delimiter, or at the '}' that closes an interpolation and resumes a string.
// A backslash escapes the next byte. With interp set, "\{" stops the skip
// and reports that an interpolation was opened. Returns the index of the
// first byte after the literal, or len(line) when the literal runs past the
// end of the line.
func skipLiteral(line []byte, i int, delim byte, interp bool) (int, bool) {
	n := len(line)
	for {
		if line[i] == '\\' {
			i++
			if i >= n {
				return n, false
			}
			if interp && line[i] == '{' {
				return i + 1, true
			}
		}
		i++
		if i >= n {
			return n, false
		}
		if line[i] == delim {
			return i + 1, false
		}
	}
}

func isIdent(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' || c == '_'
}

// identEnd returns the index just past the identifier run starting at i.
func identEnd(line []byte, i int) int {
	for i < len(line) && isIdent(line[i]) {
		i++
	}
	return i
}

// skipBlank skips the whitespace allowed between a keyword and its name.
func skipBlank(line []byte, i int) int {
	for i < len(line) {
		switch line[i] {
		case ' ', '\t', '\r', '\v', '\f':
			i++
		default:
			return i
		}
	}
	return i
}

// Scanner feeds lines through a State. One Scanner serves exactly one file;
// comments and interpolations never carry over between files.
type Scanner struct {
	state State
}

// NewScanner returns a Scanner positioned at the start of a file.
func NewScanner() *Scanner {
	return &Scanner{state: State{LineStart: true}}
}

// Line scans the next physical line and returns its declarations.
func (s *Scanner) Line(line []byte) []Declaration {
	var decls []Declaration
	s.state, decls = s.state.ScanLine(line)
	return decls
}

// State returns the state that will be applied to the next line.
func (s *Scanner) State() State { return s.state }

// Reset discards all carried state.
func (s *Scanner) Reset() { s.state = State{LineStart: true} }

// Scan returns the declarations found in lines, lazily and in input order.
// Every iteration starts a fresh Scanner; lines itself is consumed as it is
// ranged over, so a one-shot source yields its declarations only once.
func Scan(lines iter.Seq[[]byte]) iter.Seq[Declaration] {
	return func(yield func(Declaration) bool) {
		sc := NewScanner()
		for line := range lines {
			for _, d := range sc.Line(line) {
				if !yield(d) {
					return
				}
			}
		}
	}
}
