package index

import "fmt"

// FormatHit renders a hit as "path:line: kind name", the plain layout used by
// grep-style tooling and editors' quickfix lists.
func FormatHit(h Hit) string {
	return fmt.Sprintf("%s:%d: %s %s", h.Path, h.Line, h.Kind, h.Name)
}
