package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/corey/kntags/internal/domain/index"
	"github.com/corey/kntags/internal/domain/kuin"
)

// ANSI color codes for terminal output.
const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorGray    = "\033[90m"
)

// Output formats accepted by --format.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func checkFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
}

// writeStructured encodes v as JSON or YAML. It reports false for text.
func writeStructured(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	}
	return false, nil
}

// formatHits renders hits one per line:
//
//	path:line: kind name
//
// With color the path is cyan and the kind gray.
func formatHits(hits []index.Hit, color bool) string {
	var sb strings.Builder
	for _, h := range hits {
		if !color {
			sb.WriteString(index.FormatHit(h))
			sb.WriteByte('\n')
			continue
		}
		sb.WriteString(fmt.Sprintf("%s%s%s:%d: %s%s%s %s%s%s\n",
			colorCyan, h.Path, colorReset, h.Line,
			colorGray, h.Kind, colorReset,
			colorBold, h.Name, colorReset))
	}
	return sb.String()
}

// formatStats renders index statistics, kinds in registry order.
func formatStats(st index.Stats, color bool) string {
	bold, reset := "", ""
	if color {
		bold, reset = colorBold, colorReset
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s⚡ %d files, %d tags%s\n", bold, st.Files, st.Tags, reset))
	for _, k := range kuin.Kinds() {
		sb.WriteString(fmt.Sprintf("  %-18s %d\n", k.Plural(), st.ByKind[k.Name()]))
	}
	return sb.String()
}
