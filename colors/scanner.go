package colors

import (
	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// ExtractOptions narrows down which colors are reported by Extract.
type ExtractOptions struct {
	WithoutGrey       bool // skip grey colors (black and white are still reported)
	WithoutMonochrome bool // skip black, white and grey colors
}

// Extract returns color literals found in declaration value in left to right
// order. Duplicates are preserved. Gradient functions are unwrapped so their
// color stops are reported individually.
func Extract(value string, opts ExtractOptions) []string {
	var found []string
	for _, tok := range Tokens(value) {
		c, ok := Parse(tok)
		if !ok {
			continue
		}
		if opts.WithoutGrey && c.Grey {
			continue
		}
		if opts.WithoutMonochrome && c.Monochrome() {
			continue
		}
		found = append(found, c.Literal)
	}
	return found
}

// Tokens splits value on top level commas and whitespace. Functions,
// parenthesized groups, strings and urls are kept whole with their source
// text, except gradient functions which are replaced by tokens of their
// argument list.
func Tokens(value string) []string {
	var (
		out       []string
		unit      []byte
		depth     int // open groups inside current unit
		gradients int // open gradient functions being unwrapped
	)
	flush := func() {
		if len(unit) > 0 {
			out = append(out, string(unit))
			unit = unit[:0]
		}
	}

	l := css.NewLexer(parse.NewInputString(value))
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			flush()
			return out
		}

		if depth == 0 {
			switch {
			case tt == css.WhitespaceToken, tt == css.CommaToken, tt == css.CommentToken:
				flush()
				continue
			case tt == css.FunctionToken && tables().gradient.Match(data):
				flush()
				gradients++
				continue
			case tt == css.RightParenthesisToken && gradients > 0:
				flush()
				gradients--
				continue
			}
		}

		switch tt {
		case css.FunctionToken, css.LeftParenthesisToken:
			depth++
		case css.RightParenthesisToken:
			if depth > 0 {
				depth--
			}
		}
		unit = append(unit, data...)
	}
}
