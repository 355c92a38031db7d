package css

import (
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	pstrconv "github.com/tdewolff/parse/v2/strconv"

	"cssexpr/expr"
)

// unitKinds maps dimension units to numeric kinds.
var unitKinds = map[string]expr.Kind{
	"px": expr.KindLength, "em": expr.KindLength, "rem": expr.KindLength,
	"vw": expr.KindLength, "vh": expr.KindLength, "vmin": expr.KindLength, "vmax": expr.KindLength,
	"cm": expr.KindLength, "mm": expr.KindLength, "q": expr.KindLength, "in": expr.KindLength,
	"pt": expr.KindLength, "pc": expr.KindLength, "ex": expr.KindLength, "ch": expr.KindLength,
	"deg": expr.KindAngle, "rad": expr.KindAngle, "grad": expr.KindAngle, "turn": expr.KindAngle,
	"s": expr.KindTime, "ms": expr.KindTime,
}

// ParseLiteral decodes literal CSS value text into expression nodes.
// Numbers, percentages and dimensions become numeric nodes, url() becomes
// url node, identifiers, colors, strings and the "/" separator are kept as
// passthrough components of a space separated sequence. Text with any other
// syntax (functions, commas, operators) is returned as a single passthrough
// node.
func ParseLiteral(text string) expr.Node {
	text = strings.TrimSpace(text)

	var parts []expr.Node
	l := css.NewLexer(parse.NewInputString(text))
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			switch len(parts) {
			case 0:
				return expr.NewPassthrough(text)
			case 1:
				return parts[0]
			}
			return expr.NewConcat(parts...)
		case css.WhitespaceToken, css.CommentToken:
			continue
		case css.NumberToken:
			num, _ := pstrconv.ParseFloat(data)
			parts = append(parts, expr.NewNumber(num))
		case css.PercentageToken:
			num, _ := pstrconv.ParseFloat(data)
			parts = append(parts, expr.NewPercent(num))
		case css.DimensionToken:
			parts = append(parts, dimension(data))
		case css.URLToken:
			parts = append(parts, expr.NewURL(urlTokenValue(data)))
		case css.FunctionToken:
			// only url("...") is literal
			if !strings.EqualFold(string(data), "url(") {
				return expr.NewPassthrough(text)
			}
			tt, data = nextToken(l)
			if tt != css.StringToken {
				return expr.NewPassthrough(text)
			}
			url := unquote(string(data))
			if tt, _ = nextToken(l); tt != css.RightParenthesisToken {
				return expr.NewPassthrough(text)
			}
			parts = append(parts, expr.NewURL(url))
		case css.IdentToken, css.HashToken, css.StringToken:
			parts = append(parts, expr.NewPassthrough(string(data)))
		case css.DelimToken:
			if string(data) != "/" {
				return expr.NewPassthrough(text)
			}
			parts = append(parts, expr.NewPassthrough("/"))
		default:
			return expr.NewPassthrough(text)
		}
	}
}

// nextToken returns next token skipping whitespace.
func nextToken(l *css.Lexer) (css.TokenType, []byte) {
	for {
		tt, data := l.Next()
		if tt != css.WhitespaceToken && tt != css.CommentToken {
			return tt, data
		}
	}
}

// dimension returns numeric node for dimension token, unknown units are kept
// as passthrough.
func dimension(data []byte) expr.Node {
	num, n := pstrconv.ParseFloat(data)
	units := strings.ToLower(string(data[n:]))
	kind, ok := unitKinds[units]
	if !ok {
		return expr.NewPassthrough(string(data))
	}
	return expr.NewNumeric(kind, num, units)
}
