package css

import (
	"colorsonly/utils/debug"
)

// Dump returns human readable tree of the stylesheet for debugging.
func (s *Stylesheet) Dump() string {
	tw := debug.NewTreeWriter()
	tw.Line(0, "Stylesheet: %d nodes, %d warnings", len(s.Nodes), len(s.Warnings))
	for _, n := range s.Nodes {
		dumpNode(tw, 1, n)
	}
	for _, w := range s.Warnings {
		tw.TextBlock(1, "Warning", w)
	}
	return tw.String()
}

func dumpNode(tw *debug.TreeWriter, depth int, n Node) {
	switch n := n.(type) {
	case *Rule:
		tw.TextBlock(depth, "Rule", n.Selector)
		dumpDeclarations(tw, depth+1, n.Declarations)
	case *AtRule:
		tw.Line(depth, "AtRule: @%s block=%t", n.Name, n.Block)
		if len(n.Prelude) > 0 {
			tw.TextBlock(depth+1, "Prelude", n.Prelude)
		}
		for _, c := range n.Nodes {
			dumpNode(tw, depth+1, c)
		}
		dumpDeclarations(tw, depth+1, n.Declarations)
		if len(n.Body) > 0 {
			tw.TextBlock(depth+1, "Body", n.Body)
		}
	case *Comment:
		tw.TextBlock(depth, "Comment", n.Text)
	case *Other:
		tw.TextBlock(depth, "Other", n.Text)
	}
}

func dumpDeclarations(tw *debug.TreeWriter, depth int, decls []*Declaration) {
	for _, d := range decls {
		if d.Important {
			tw.Field(depth, d.Property, d.Value, "!important")
			continue
		}
		tw.Field(depth, d.Property, d.Value)
	}
}
