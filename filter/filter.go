// Package filter rewrites parsed stylesheets so that only color information
// is left in them or, in inverse mode, everything but colors.
package filter

import (
	"go.uber.org/zap"

	"colorsonly/colors"
	"colorsonly/common"
	"colorsonly/css"
)

// Options control filtering, zero value keeps colors of all kinds.
type Options struct {
	Inverse           bool // remove colors instead of keeping them
	WithoutGrey       bool // keep mode only
	WithoutMonochrome bool // keep mode only
}

// Mode returns filtering mode name.
func (o Options) Mode() common.FilterMode {
	if o.Inverse {
		return common.FilterModeNocolors
	}
	return common.FilterModeColors
}

func (o Options) extract() colors.ExtractOptions {
	if o.Inverse {
		// grey and monochrome colors are removed as any other color
		return colors.ExtractOptions{}
	}
	return colors.ExtractOptions{
		WithoutGrey:       o.WithoutGrey,
		WithoutMonochrome: o.WithoutMonochrome,
	}
}

// Filter applies options to stylesheets. It holds no per-run state and
// could be reused for any number of trees.
type Filter struct {
	opts Options
	log  *zap.Logger
}

// New creates filter with given options.
func New(opts Options, log *zap.Logger) *Filter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Filter{opts: opts, log: log.Named("filter")}
}

// Options returns filter options.
func (f *Filter) Options() Options {
	return f.opts
}

type stats struct {
	declsRemoved   int
	declsRewritten int
	rulesRemoved   int
	atRulesRemoved int
	otherRemoved   int
}

// Apply processes stylesheet in place. It never fails: every node is either
// kept (possibly rewritten) or removed.
func (f *Filter) Apply(sheet *css.Stylesheet) {
	if sheet == nil {
		return
	}

	var st stats
	sheet.Nodes = f.nodes(sheet.Nodes, &st)

	f.log.Debug("Stylesheet filtered",
		zap.Stringer("mode", f.opts.Mode()),
		zap.Int("nodes", len(sheet.Nodes)),
		zap.Int("declarations removed", st.declsRemoved),
		zap.Int("declarations rewritten", st.declsRewritten),
		zap.Int("rules removed", st.rulesRemoved),
		zap.Int("at-rules removed", st.atRulesRemoved),
		zap.Int("other removed", st.otherRemoved),
	)
}

// nodes processes every node of the list and returns surviving ones in the
// original order. Backing array of the list is reused.
func (f *Filter) nodes(list []css.Node, st *stats) []css.Node {
	kept := list[:0]
	for _, n := range list {
		if f.node(n, st) {
			kept = append(kept, n)
		}
	}
	// do not keep references to removed nodes
	clear(list[len(kept):])
	return kept
}

// node returns false if node has to be removed from its parent.
func (f *Filter) node(n css.Node, st *stats) bool {
	switch n := n.(type) {
	case *css.Rule:
		n.Declarations = f.declarations(n.Declarations, st)
		if len(n.Declarations) == 0 {
			st.rulesRemoved++
			return false
		}
		return true
	case *css.AtRule:
		if n.Name != "media" {
			st.atRulesRemoved++
			return false
		}
		n.Nodes = f.nodes(n.Nodes, st)
		if len(n.Nodes) == 0 {
			st.atRulesRemoved++
			return false
		}
		return true
	case *css.Comment, *css.Other:
		st.otherRemoved++
		return false
	default:
		// this should never happen
		panic("unknown stylesheet node type")
	}
}

func (f *Filter) declarations(list []*css.Declaration, st *stats) []*css.Declaration {
	kept := list[:0]
	for _, d := range list {
		prop, val := d.Property, d.Value
		if !f.declaration(d) {
			st.declsRemoved++
			continue
		}
		if d.Property != prop || d.Value != val {
			st.declsRewritten++
		}
		kept = append(kept, d)
	}
	clear(list[len(kept):])
	return kept
}

// declaration rewrites d in place and returns false if it has to be removed.
func (f *Filter) declaration(d *css.Declaration) bool {
	if f.opts.Inverse {
		return removeColors(d, f.opts.extract())
	}
	return keepColors(d, f.opts.extract())
}
