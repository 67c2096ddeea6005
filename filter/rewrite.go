package filter

import (
	"strings"

	parse "github.com/tdewolff/parse/v2"
	tcss "github.com/tdewolff/parse/v2/css"

	"colorsonly/colors"
	"colorsonly/css"
)

// colorProperties lists properties which may carry colors in keep mode,
// everything else is removed.
var colorProperties = map[string]struct{}{
	"color":               {},
	"background":          {},
	"background-color":    {},
	"background-image":    {},
	"border":              {},
	"border-top":          {},
	"border-right":        {},
	"border-bottom":       {},
	"border-left":         {},
	"border-color":        {},
	"border-top-color":    {},
	"border-right-color":  {},
	"border-bottom-color": {},
	"border-left-color":   {},
	"outline":             {},
	"outline-color":       {},
	"text-shadow":         {},
	"box-shadow":          {},
}

// shorthands maps shorthand property to its color longhand.
var shorthands = map[string]string{
	"background":    "background-color",
	"border":        "border-color",
	"border-top":    "border-top-color",
	"border-right":  "border-right-color",
	"border-bottom": "border-bottom-color",
	"border-left":   "border-left-color",
	"outline":       "outline-color",
}

// preserved marks declarations inverse mode never touches.
var preserved = []string{"gradient", "text-shadow"}

// keepColors leaves only color information in declaration. Returns false
// when there is none.
func keepColors(d *css.Declaration, opts colors.ExtractOptions) bool {
	if _, ok := colorProperties[strings.ToLower(d.Property)]; !ok {
		return false
	}
	found := colors.Extract(d.Value, opts)
	if len(found) == 0 {
		return false
	}
	collapseShorthand(d, found)
	return true
}

// removeColors strips colors from declaration value. Returns false when
// nothing is left.
func removeColors(d *css.Declaration, opts colors.ExtractOptions) bool {
	for _, p := range preserved {
		if strings.Contains(d.Property, p) || strings.Contains(d.Value, p) {
			return true
		}
	}

	found := colors.Extract(d.Value, opts)
	if len(found) == 0 {
		collapseShorthand(d, found)
	} else {
		value := d.Value
		for _, c := range found {
			value = cutToken(value, c)
		}
		d.Value = tidySeparators(value)
	}
	return len(d.Value) > 0
}

// collapseShorthand replaces shorthand with its color longhand when value
// has exactly one color.
func collapseShorthand(d *css.Declaration, found []string) {
	longhand, ok := shorthands[strings.ToLower(d.Property)]
	if !ok || len(found) != 1 {
		return
	}
	d.Property = longhand
	d.Value = found[0]
}

// cutToken removes first top level occurrence of token in value which is not
// a part of a longer word. Whitespace around removed token is collapsed.
func cutToken(value, token string) string {
	if len(token) == 0 {
		return value
	}
	for from := 0; from < len(value); {
		i := strings.Index(value[from:], token)
		if i < 0 {
			break
		}
		start, end := from+i, from+i+len(token)
		if isBoundary(value, start-1) && isBoundary(value, end) && !nested(value, start) {
			left := strings.TrimRight(value[:start], " \t\n")
			right := strings.TrimLeft(value[end:], " \t\n")
			if len(left) == 0 || len(right) == 0 ||
				strings.HasSuffix(left, "(") || strings.HasPrefix(right, ")") || strings.HasPrefix(right, ",") {
				return left + right
			}
			return left + " " + right
		}
		from = start + 1
	}
	return value
}

// isBoundary reports whether byte at i separates tokens, positions outside of
// value are boundaries.
func isBoundary(value string, i int) bool {
	if i < 0 || i >= len(value) {
		return true
	}
	switch value[i] {
	case ' ', '\t', '\n', '\r', '\f', ',', '(', ')', '/':
		return true
	}
	return false
}

// nested reports whether byte at i belongs to a string, url or parenthesized
// group.
func nested(value string, i int) bool {
	l := tcss.NewLexer(parse.NewInputString(value))
	for pos, depth := 0, 0; ; {
		tt, data := l.Next()
		if tt == tcss.ErrorToken {
			return false
		}
		if pos += len(data); i < pos {
			switch tt {
			case tcss.StringToken, tcss.BadStringToken, tcss.URLToken, tcss.BadURLToken:
				return true
			}
			return depth > 0
		}
		switch tt {
		case tcss.FunctionToken, tcss.LeftParenthesisToken:
			depth++
		case tcss.RightParenthesisToken:
			if depth > 0 {
				depth--
			}
		}
	}
}

// tidySeparators drops empty top level comma separated parts left after
// removal, so "red, blue" with both colors gone becomes empty.
func tidySeparators(value string) string {
	var (
		parts []string
		part  []byte
		depth int
	)
	flush := func() {
		if p := strings.TrimSpace(string(part)); len(p) > 0 {
			parts = append(parts, p)
		}
		part = part[:0]
	}

	l := tcss.NewLexer(parse.NewInputString(value))
	for {
		tt, data := l.Next()
		if tt == tcss.ErrorToken {
			break
		}
		switch tt {
		case tcss.FunctionToken, tcss.LeftParenthesisToken:
			depth++
		case tcss.RightParenthesisToken:
			if depth > 0 {
				depth--
			}
		case tcss.CommaToken:
			if depth == 0 {
				flush()
				continue
			}
		}
		part = append(part, data...)
	}
	flush()
	return strings.Join(parts, ", ")
}
