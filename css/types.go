package css

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/minify/v2"
	cssmin "github.com/tdewolff/minify/v2/css"
)

// Node is a single item of the stylesheet tree. It is implemented by *Rule,
// *AtRule, *Comment and *Other only.
type Node interface {
	node()
}

// Declaration is a single "property: value" pair.
type Declaration struct {
	Property  string // lowercase property name (e.g., "border-top")
	Value     string // value without "!important"
	Important bool
}

// String returns the CSS text of the declaration without terminating semicolon.
func (d *Declaration) String() string {
	if d.Important {
		return d.Property + ": " + d.Value + " !important"
	}
	return d.Property + ": " + d.Value
}

// Rule is a qualified rule: selector with a block of declarations.
type Rule struct {
	Selector     string
	Declarations []*Declaration
}

// AtRule is an @-rule. Block at-rules keep their content in one of three
// forms depending on what the at-rule contains: nested nodes (@media,
// @supports, @keyframes...), declarations (@font-face, @page) or raw text for
// everything else.
type AtRule struct {
	Name         string // lowercase, without "@" (e.g., "media")
	Prelude      string // everything between name and block or semicolon
	Block        bool
	Nodes        []Node
	Declarations []*Declaration
	Body         string
}

// Comment is a top level comment, Text includes comment delimiters.
type Comment struct {
	Text string
}

// Other is any other top level construct (e.g., "<!--" and "-->" tokens).
type Other struct {
	Text string
}

func (*Rule) node()    {}
func (*AtRule) node()  {}
func (*Comment) node() {}
func (*Other) node()   {}

// Stylesheet represents a parsed CSS stylesheet.
type Stylesheet struct {
	Nodes    []Node   // All top-level nodes in source order
	Warnings []string // Problems encountered while parsing
}

// printer accumulates written byte count and first error, so the tree
// walking code does not have to check after every write.
type printer struct {
	w       io.Writer
	n       int64
	err     error
	compact bool
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	n, err := fmt.Fprintf(p.w, format, args...)
	p.n += int64(n)
	p.err = err
}

// indent is ignored in compact mode where everything is on a single line
// separated by spaces.
func (p *printer) line(depth int, format string, args ...any) {
	if p.compact {
		p.printf(format+" ", args...)
		return
	}
	p.printf(strings.Repeat("  ", depth)+format+"\n", args...)
}

func (p *printer) nodes(depth int, nodes []Node) {
	for i, n := range nodes {
		p.node(depth, n)
		// Blank line between top level nodes (except after last)
		if !p.compact && depth == 0 && i < len(nodes)-1 {
			p.printf("\n")
		}
	}
}

func (p *printer) node(depth int, n Node) {
	switch n := n.(type) {
	case *Rule:
		p.line(depth, "%s {", n.Selector)
		p.declarations(depth+1, n.Declarations)
		p.line(depth, "}")
	case *AtRule:
		p.atRule(depth, n)
	case *Comment:
		p.line(depth, "%s", n.Text)
	case *Other:
		p.line(depth, "%s", n.Text)
	}
}

func (p *printer) atRule(depth int, a *AtRule) {
	head := "@" + a.Name
	if len(a.Prelude) > 0 {
		head += " " + a.Prelude
	}
	if !a.Block {
		p.line(depth, "%s;", head)
		return
	}
	switch {
	case len(a.Nodes) > 0:
		p.line(depth, "%s {", head)
		for _, n := range a.Nodes {
			p.node(depth+1, n)
		}
		p.line(depth, "}")
	case len(a.Declarations) > 0:
		p.line(depth, "%s {", head)
		p.declarations(depth+1, a.Declarations)
		p.line(depth, "}")
	case len(a.Body) > 0:
		p.line(depth, "%s { %s }", head, a.Body)
	default:
		p.line(depth, "%s { }", head)
	}
}

func (p *printer) declarations(depth int, decls []*Declaration) {
	for _, d := range decls {
		p.line(depth, "%s;", d.String())
	}
}

// WriteTo writes the stylesheet to w in source order, implementing io.WriterTo.
// Nested blocks are indented by two spaces.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	p := &printer{w: w}
	p.nodes(0, s.Nodes)
	return p.n, p.err
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

// Compact returns the CSS text of the stylesheet on a single line, e.g.
// "a { color: red; } @media print { a { color: black; } }".
func (s *Stylesheet) Compact() string {
	var sb strings.Builder
	p := &printer{w: &sb, compact: true}
	p.nodes(0, s.Nodes)
	return strings.TrimSpace(sb.String())
}

var minifier = minify.New()

// Minify writes minified CSS text of the stylesheet to w.
func (s *Stylesheet) Minify(w io.Writer) error {
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return err
	}
	if err := cssmin.Minify(minifier, w, &buf, nil); err != nil {
		return fmt.Errorf("unable to minify stylesheet: %w", err)
	}
	return nil
}
