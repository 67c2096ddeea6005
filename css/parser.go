package css

import (
	"bytes"
	"fmt"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser parses CSS stylesheets into ordered node tree.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses CSS text into a Stylesheet. Parsing never fails, malformed
// constructs are skipped and reported in Stylesheet.Warnings.
// The optional source parameter identifies what's being parsed (for debug logging).
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	sheet := &Stylesheet{
		Nodes:    make([]Node, 0),
		Warnings: make([]string, 0),
	}

	// Log parsing start with source identifier if provided
	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	input := parse.NewInput(bytes.NewReader(data))
	parser := css.NewParser(input, false)

	sheet.Nodes = p.parseNodes(parser, sheet, false)

	p.log.Debug("CSS parsed", zap.Int("nodes", len(sheet.Nodes)), zap.Int("warnings", len(sheet.Warnings)))
	return sheet
}

func (p *Parser) warn(sheet *Stylesheet, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.log.Debug("CSS parse problem", zap.String("details", msg))
	sheet.Warnings = append(sheet.Warnings, msg)
}

// parseNodes consumes grammar until end of input or, when nested, until end
// of enclosing at-rule block.
func (p *Parser) parseNodes(parser *css.Parser, sheet *Stylesheet, nested bool) []Node {
	nodes := make([]Node, 0)

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if parser.HasParseError() {
				p.warn(sheet, "%v", parser.Err())
				continue
			}
			// End of input or read error
			if err := parser.Err(); err != nil && err.Error() != "EOF" {
				p.warn(sheet, "unable to read stylesheet: %v", err)
			}
			return nodes

		case css.CommentGrammar:
			nodes = append(nodes, &Comment{Text: string(data)})

		case css.TokenGrammar:
			// CDO and CDC tokens
			nodes = append(nodes, &Other{Text: string(data)})

		case css.AtRuleGrammar:
			nodes = append(nodes, &AtRule{
				Name:    atRuleName(data),
				Prelude: tokensText(parser.Values()),
			})

		case css.BeginAtRuleGrammar:
			nodes = append(nodes, p.parseAtRule(parser, sheet, data))

		case css.EndAtRuleGrammar:
			if nested {
				return nodes
			}

		case css.BeginRulesetGrammar:
			rule := &Rule{Selector: tokensText(parser.Values())}
			rule.Declarations = p.parseDeclarations(parser, sheet)
			nodes = append(nodes, rule)

		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			p.warn(sheet, "declaration %q outside of block ignored", string(data))
		}
	}
}

// parseAtRule reads block at-rule content. Which at-rules contain nested
// rules and which contain declarations is decided by the tokenizer, here we
// only follow its decision.
func (p *Parser) parseAtRule(parser *css.Parser, sheet *Stylesheet, data []byte) *AtRule {
	at := &AtRule{
		Name:    atRuleName(data),
		Prelude: tokensText(parser.Values()),
		Block:   true,
	}

	switch vendorless(at.Name) {
	case "media", "supports", "document", "keyframes", "layer":
		at.Nodes = p.parseNodes(parser, sheet, true)
	case "font-face", "page":
		at.Declarations = p.parseDeclarations(parser, sheet)
	default:
		at.Body = p.parseBody(parser)
	}
	return at
}

// parseDeclarations reads declarations until end of the current block.
func (p *Parser) parseDeclarations(parser *css.Parser, sheet *Stylesheet) []*Declaration {
	decls := make([]*Declaration, 0)

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if parser.HasParseError() {
				p.warn(sheet, "%v", parser.Err())
				continue
			}
			return decls

		case css.EndRulesetGrammar, css.EndAtRuleGrammar:
			return decls

		case css.DeclarationGrammar:
			decls = append(decls, newDeclaration(string(data), parser.Values()))

		case css.CustomPropertyGrammar:
			var value string
			if values := parser.Values(); len(values) > 0 {
				value = strings.TrimSpace(string(values[0].Data))
			}
			decls = append(decls, &Declaration{Property: string(data), Value: value})

		case css.BeginAtRuleGrammar:
			p.warn(sheet, "nested %s block inside declarations ignored", string(data))
			p.skipAtRuleBlock(parser)

		case css.AtRuleGrammar:
			p.warn(sheet, "nested %s inside declarations ignored", string(data))
		}
	}
}

// parseBody collects raw text of unknown at-rule block.
func (p *Parser) parseBody(parser *css.Parser) string {
	var sb strings.Builder
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar, css.EndAtRuleGrammar:
			return strings.Join(strings.Fields(sb.String()), " ")
		default:
			sb.Write(data)
		}
	}
}

// skipAtRuleBlock skips tokens until the matching end of an @-rule block.
func (p *Parser) skipAtRuleBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if parser.HasParseError() {
				continue
			}
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

func newDeclaration(property string, values []css.Token) *Declaration {
	d := &Declaration{Property: property}
	values = trimWhitespace(values)

	// "!important" comes as two separate tokens: delimiter and identifier
	if n := len(values); n >= 2 &&
		values[n-1].TokenType == css.IdentToken && strings.EqualFold(string(values[n-1].Data), "important") &&
		values[n-2].TokenType == css.DelimToken && string(values[n-2].Data) == "!" {
		d.Important = true
		values = values[:n-2]
	}
	d.Value = tokensText(values)
	return d
}

func trimWhitespace(tokens []css.Token) []css.Token {
	for len(tokens) > 0 && tokens[0].TokenType == css.WhitespaceToken {
		tokens = tokens[1:]
	}
	for len(tokens) > 0 && tokens[len(tokens)-1].TokenType == css.WhitespaceToken {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}

// tokensText rebuilds text from tokens. Whitespace runs are collapsed to a
// single space and commas are always followed by one space.
func tokensText(tokens []css.Token) string {
	buf := make([]byte, 0, 64)
	for _, t := range trimWhitespace(tokens) {
		switch t.TokenType {
		case css.WhitespaceToken:
			if len(buf) > 0 && buf[len(buf)-1] != ' ' {
				buf = append(buf, ' ')
			}
		case css.CommaToken:
			buf = bytes.TrimRight(buf, " ")
			buf = append(buf, ", "...)
		default:
			buf = append(buf, t.Data...)
		}
	}
	return string(bytes.TrimSpace(buf))
}

func atRuleName(data []byte) string {
	return strings.ToLower(strings.TrimPrefix(string(data), "@"))
}

// vendorless strips vendor prefix: "-webkit-keyframes" becomes "keyframes".
func vendorless(name string) string {
	if !strings.HasPrefix(name, "-") {
		return name
	}
	if i := strings.IndexByte(name[1:], '-'); i >= 0 {
		return name[i+2:]
	}
	return name
}
