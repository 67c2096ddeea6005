// Package colors recognizes CSS color literals in declaration values and
// classifies them as black/white, grey or chromatic.
package colors

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// Kind is the syntactic form of a recognized color literal.
type Kind int

const (
	KindNone Kind = iota
	KindNamed
	KindHex
	KindRGB
	KindRGBA
	KindHSL
	KindHSLA
)

// String returns the CSS name of the color form.
func (k Kind) String() string {
	switch k {
	case KindNamed:
		return "named"
	case KindHex:
		return "hex"
	case KindRGB:
		return "rgb"
	case KindRGBA:
		return "rgba"
	case KindHSL:
		return "hsl"
	case KindHSLA:
		return "hsla"
	default:
		return "none"
	}
}

// Classification tells black/white and grey colors apart from chromatic
// ones. At most one of the fields is set: black and white are never grey.
type Classification struct {
	BlackOrWhite bool
	Grey         bool
}

// Monochrome returns true for black, white and grey colors.
func (c Classification) Monochrome() bool {
	return c.BlackOrWhite || c.Grey
}

// Color is a single recognized color literal.
type Color struct {
	Literal string // token exactly as it appeared in the value
	Kind    Kind
	Classification
}

const number = `[+-]?(?:\d+(?:\.\d*)?|\.\d+)`

// grammar holds compiled patterns and keyword sets. It is built once on first
// use and never modified afterwards.
type grammar struct {
	hex      *regexp.Regexp
	rgb      *regexp.Regexp
	hsl      *regexp.Regexp
	gradient *regexp.Regexp
	greyName *regexp.Regexp
	named    map[string]struct{}
}

var tables = sync.OnceValue(newGrammar)

func newGrammar() *grammar {
	g := &grammar{
		hex: regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`),
		rgb: regexp.MustCompile(`(?i)^(rgba?)\(\s*(` + number + `%?)\s*,\s*(` + number + `%?)\s*,\s*(` + number + `%?)\s*(?:,\s*` + number + `%?\s*)?\)$`),
		hsl: regexp.MustCompile(`(?i)^(hsla?)\(\s*(` + number + `)(?:deg)?\s*,\s*(` + number + `)%?\s*,\s*(` + number + `)%?\s*(?:,\s*` + number + `%?\s*)?\)$`),
		// function token: vendor prefix, optional "repeating-"
		gradient: regexp.MustCompile(`(?i)^(?:-[a-z]+-)?(?:repeating-)?(?:linear|radial)-gradient\($`),
		greyName: regexp.MustCompile(`^(?:light|dark|dim)?gr[ae]y$`),
		named:    make(map[string]struct{}, len(basicColorNames)+len(extendedColorNames)),
	}
	for _, n := range basicColorNames {
		g.named[n] = struct{}{}
	}
	for _, n := range extendedColorNames {
		g.named[n] = struct{}{}
	}
	return g
}

// IsColor returns true if token is a color literal: a named color, 3 or 6
// digit hex color or rgb(), rgba(), hsl(), hsla() function.
func IsColor(token string) bool {
	_, ok := Parse(token)
	return ok
}

// Classify returns classification of the color token. Tokens which are not
// colors are reported as chromatic (zero Classification).
func Classify(token string) Classification {
	c, _ := Parse(token)
	return c.Classification
}

// Parse recognizes token as a color literal and classifies it. Black and
// white are checked first, grey only when color is neither.
func Parse(token string) (Color, bool) {
	token = strings.TrimSpace(token)
	if len(token) == 0 {
		return Color{}, false
	}

	g := tables()
	c := Color{Literal: token}

	switch {
	case token[0] == '#':
		if !g.hex.MatchString(token) {
			return Color{}, false
		}
		c.Kind = KindHex
		c.Classification = classifyHex(strings.ToLower(token[1:]))

	case strings.HasSuffix(token, ")"):
		if m := g.rgb.FindStringSubmatch(token); m != nil {
			c.Kind = KindRGB
			if strings.EqualFold(m[1], "rgba") {
				c.Kind = KindRGBA
			}
			c.Classification = classifyRGB(m[2], m[3], m[4])
			break
		}
		if m := g.hsl.FindStringSubmatch(token); m != nil {
			c.Kind = KindHSL
			if strings.EqualFold(m[1], "hsla") {
				c.Kind = KindHSLA
			}
			c.Classification = classifyHSL(m[2], m[3], m[4])
			break
		}
		return Color{}, false

	default:
		name := strings.ToLower(token)
		if _, ok := g.named[name]; !ok {
			return Color{}, false
		}
		c.Kind = KindNamed
		switch {
		case name == "black" || name == "white":
			c.BlackOrWhite = true
		case g.greyName.MatchString(name):
			c.Grey = true
		}
	}
	return c, true
}

func classifyHex(digits string) Classification {
	var r, g, b string
	if len(digits) == 3 {
		r, g, b = digits[0:1], digits[1:2], digits[2:3]
	} else {
		r, g, b = digits[0:2], digits[2:4], digits[4:6]
	}
	if r != g || g != b {
		return Classification{}
	}
	if strings.Trim(r, "0") == "" || strings.Trim(r, "f") == "" {
		return Classification{BlackOrWhite: true}
	}
	return Classification{Grey: true}
}

func classifyRGB(rs, gs, bs string) Classification {
	r, okR := channel(rs)
	g, okG := channel(gs)
	b, okB := channel(bs)
	if !okR || !okG || !okB || r != g || g != b {
		return Classification{}
	}
	if r == 0 || r == 255 {
		return Classification{BlackOrWhite: true}
	}
	return Classification{Grey: true}
}

func classifyHSL(hs, ss, ls string) Classification {
	h, okH := strconv.ParseFloat(hs, 64)
	s, okS := strconv.ParseFloat(ss, 64)
	l, okL := strconv.ParseFloat(ls, 64)
	if okH != nil || okS != nil || okL != nil {
		return Classification{}
	}
	if l == 0 || l == 100 {
		return Classification{BlackOrWhite: true}
	}
	if h == 0 && s == 0 {
		return Classification{Grey: true}
	}
	return Classification{}
}

// channel converts rgb() argument to 0-255 range, percentages are scaled.
func channel(s string) (float64, bool) {
	pct := strings.HasSuffix(s, "%")
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, false
	}
	if pct {
		v = v * 255 / 100
	}
	return v, true
}
