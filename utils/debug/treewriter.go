// Package debug has helpers to render internal structures for troubleshooting.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

// TreeWriter builds indented text tree, two spaces per level.
type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw *TreeWriter) String() string {
	return tw.w.String()
}

func (tw *TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

// Line writes formatted line at requested depth.
func (tw *TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// TextBlock writes "label: value" with value quoted, so whitespace and
// control characters are visible. Empty value is left as is.
func (tw *TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

// Field writes "key: value" with value always quoted, flags are appended
// after it.
func (tw *TreeWriter) Field(depth int, key, value string, flags ...string) {
	tw.indent(depth)
	tw.w.WriteString(key)
	tw.w.WriteString(": ")
	tw.w.WriteString(strconv.Quote(value))
	for _, f := range flags {
		tw.w.WriteByte(' ')
		tw.w.WriteString(f)
	}
	tw.w.WriteByte('\n')
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
