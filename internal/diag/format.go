package diag

import (
	"fmt"
	"strings"
)

// Formatter renders diagnostics with source context and a caret pointing at
// the offending column, the way internal compiler errors have always been
// shown in this tool's ancestor. Source is optional: when empty, Format
// falls back to the plain "file:line:col: severity [code] message" line.
type Formatter struct {
	// Color enables ANSI escapes around the severity tag and caret.
	Color bool
	// Sources maps a file name to its full text, used to print the
	// offending line under each diagnostic.
	Sources map[string]string
}

// NewFormatter creates a Formatter with no known sources; callers that want
// caret excerpts should populate Sources before calling Format.
func NewFormatter(color bool) *Formatter {
	return &Formatter{Color: color, Sources: map[string]string{}}
}

// Format renders one diagnostic, including a source excerpt and caret when
// the diagnostic carries a position and the formatter has that file's text.
func (f *Formatter) Format(d Diagnostic) string {
	var sb strings.Builder
	sb.WriteString(d.String())

	if !d.HasPos {
		return sb.String()
	}

	source, ok := f.Sources[d.Pos.File]
	if !ok || source == "" {
		return sb.String()
	}

	line := sourceLine(source, d.Pos.Line)
	if line == "" {
		return sb.String()
	}

	sb.WriteString("\n")
	lineNumStr := fmt.Sprintf("%4d | ", d.Pos.Line)
	sb.WriteString(lineNumStr)
	sb.WriteString(line)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(" ", len(lineNumStr)+d.Pos.Column-1))
	if f.Color {
		sb.WriteString("\033[1;31m")
	}
	sb.WriteString("^")
	if f.Color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

// FormatAll renders every diagnostic in the Bag, sorted per §7, separated by
// blank lines and preceded by a summary line when there is more than one.
func (f *Formatter) FormatAll(b *Bag) string {
	ds := b.Sorted()
	if len(ds) == 0 {
		return ""
	}
	if len(ds) == 1 {
		return f.Format(ds[0])
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d diagnostic(s):\n\n", len(ds)))
	for i, d := range ds {
		sb.WriteString(f.Format(d))
		if i < len(ds)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

func sourceLine(source string, lineNum int) string {
	lines := strings.Split(source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}
