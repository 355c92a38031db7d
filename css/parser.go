package css

import (
	"bytes"
	"errors"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser parses CSS stylesheets into rules and declarations.
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

// Parse parses CSS text into a Stylesheet.
// The optional source parameter identifies what's being parsed (for debug logging).
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	sheet := &Stylesheet{
		Items:    make([]StylesheetItem, 0),
		Warnings: make([]string, 0),
	}

	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			p.checkErr(parser, sheet)
			return sheet

		case css.BeginAtRuleGrammar:
			prelude := strings.TrimSpace(string(data) + " " + rawValue(parser.Values()))
			rules, ok := p.parseBlockRules(parser, sheet)
			if !ok {
				return sheet
			}
			p.log.Debug("Parsed block", zap.String("prelude", prelude), zap.Int("rules", len(rules)))
			sheet.Items = append(sheet.Items, StylesheetItem{
				Block: &Block{Prelude: prelude, Rules: rules},
			})

		case css.AtRuleGrammar:
			// Simple @-rule without block (e.g., @import)
			atRule := strings.ToLower(string(data))
			if atRule == "@import" {
				url := extractImportURL(parser.Values())
				if url != "" {
					sheet.Items = append(sheet.Items, StylesheetItem{Import: &url})
					p.log.Debug("Parsed @import", zap.String("url", url))
				}
			} else {
				p.log.Debug("Skipping @-rule", zap.String("rule", atRule))
			}

		case css.BeginRulesetGrammar:
			rule := Rule{Selector: parseSelectors(data, parser.Values())}
			rule.Declarations = p.parseDeclarations(parser)
			sheet.Items = append(sheet.Items, StylesheetItem{Rule: &rule})
		}
	}
}

func (p *Parser) checkErr(parser *css.Parser, sheet *Stylesheet) {
	if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
		sheet.Warnings = append(sheet.Warnings, err.Error())
		p.log.Debug("CSS parse error", zap.Error(err))
	}
}

// extractImportURL extracts the URL from @import tokens.
// Handles: @import "url"; @import url("url"); @import url(url);
func extractImportURL(tokens []css.Token) string {
	for i, t := range tokens {
		switch t.TokenType {
		case css.StringToken:
			return unquote(string(t.Data))
		case css.URLToken:
			return urlTokenValue(t.Data)
		case css.FunctionToken:
			// url("...") is a function with string argument
			if strings.EqualFold(string(t.Data), "url(") && i+1 < len(tokens) && tokens[i+1].TokenType == css.StringToken {
				return unquote(string(tokens[i+1].Data))
			}
		}
	}
	return ""
}

// urlTokenValue returns url of the url(something) token.
func urlTokenValue(data []byte) string {
	s := string(data)
	if len(s) > 4 {
		s = s[4:]
	}
	s = strings.TrimSuffix(s, ")")
	return unquote(strings.TrimSpace(s))
}

// parseSelectors builds normalized selector list from token data.
func parseSelectors(data []byte, values []css.Token) string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}

	// Split by comma for grouped selectors
	var selectors []string
	for s := range strings.SplitSeq(sb.String(), ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			selectors = append(selectors, s)
		}
	}
	return strings.Join(selectors, ", ")
}

// parseDeclarations parses property declarations until EndRulesetGrammar.
func (p *Parser) parseDeclarations(parser *css.Parser) []Declaration {
	var decls []Declaration

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar, css.EndRulesetGrammar:
			return decls

		case css.DeclarationGrammar:
			values := parser.Values()
			if len(values) == 0 {
				continue
			}
			d := Declaration{Property: string(data)}
			d.Value, d.Important = splitImportant(values)
			decls = append(decls, d)

		case css.CustomPropertyGrammar:
			var value string
			if values := parser.Values(); len(values) > 0 {
				value = strings.TrimSpace(string(values[0].Data))
			}
			decls = append(decls, Declaration{Property: string(data), Value: value, Custom: true})
		}
	}
}

// splitImportant returns value text and whether it is marked !important.
func splitImportant(tokens []css.Token) (string, bool) {
	n := len(tokens)
	if n >= 2 && tokens[n-2].TokenType == css.DelimToken && string(tokens[n-2].Data) == "!" &&
		tokens[n-1].TokenType == css.IdentToken && strings.EqualFold(string(tokens[n-1].Data), "important") {
		return rawValue(tokens[:n-2]), true
	}
	return rawValue(tokens), false
}

// rawValue builds value text from tokens.
func rawValue(tokens []css.Token) string {
	var sb strings.Builder
	for i, t := range tokens {
		if t.TokenType == css.WhitespaceToken {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			continue
		}
		sb.Write(t.Data)
		// parser drops whitespace after separators
		if t.TokenType == css.CommaToken || (t.TokenType == css.DelimToken && string(t.Data) == "/") {
			if i+1 < len(tokens) && tokens[i+1].TokenType != css.WhitespaceToken {
				sb.WriteByte(' ')
			}
		}
	}
	return strings.TrimSpace(sb.String())
}

// parseBlockRules parses rules inside an at-rule block and returns them,
// ok is false when input ends prematurely.
func (p *Parser) parseBlockRules(parser *css.Parser, sheet *Stylesheet) ([]Rule, bool) {
	var rules []Rule

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			p.checkErr(parser, sheet)
			return rules, false

		case css.EndAtRuleGrammar:
			return rules, true

		case css.BeginAtRuleGrammar:
			sheet.Warnings = append(sheet.Warnings, "unsupported nested block: "+string(data))
			p.log.Debug("Skipping nested @-rule", zap.ByteString("rule", data))
			p.skipAtRuleBlock(parser)

		case css.BeginRulesetGrammar:
			rule := Rule{Selector: parseSelectors(data, parser.Values())}
			rule.Declarations = p.parseDeclarations(parser)
			rules = append(rules, rule)

		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			// @font-face, @page and friends hold declarations directly
			if len(rules) == 0 || rules[len(rules)-1].Selector != "" {
				rules = append(rules, Rule{})
			}
			last := &rules[len(rules)-1]
			d := Declaration{Property: string(data), Custom: gt == css.CustomPropertyGrammar}
			if d.Custom {
				if values := parser.Values(); len(values) > 0 {
					d.Value = strings.TrimSpace(string(values[0].Data))
				}
			} else {
				d.Value, d.Important = splitImportant(parser.Values())
			}
			last.Declarations = append(last.Declarations, d)
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
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

// unquote removes surrounding quotes from a string.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return s
	}
	if (s[0] == '"' && s[len(s)-1] == '"') ||
		(s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
