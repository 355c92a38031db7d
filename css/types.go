package css

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// cssEscapeDoubleQuoted escapes a string for use inside CSS double quotes.
// Backslashes and double quotes are escaped per CSS syntax: \" and \\.
func cssEscapeDoubleQuoted(s string) string {
	// Fast path: nothing to escape.
	if !strings.ContainsAny(s, `"\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Declaration is a single property declaration.
type Declaration struct {
	Property  string // Lower cased, custom properties keep their case
	Value     string // Value text without !important
	Custom    bool   // --name: value
	Important bool
}

// Rule represents a single CSS rule (selector list + declarations in source order).
type Rule struct {
	Selector     string
	Declarations []Declaration
}

// Get returns the last declaration of the property.
func (r Rule) Get(property string) (Declaration, bool) {
	for i := len(r.Declarations) - 1; i >= 0; i-- {
		if r.Declarations[i].Property == property {
			return r.Declarations[i], true
		}
	}
	return Declaration{}, false
}

// Block is an at-rule block with nested rules: @media, @supports, @keyframes.
type Block struct {
	Prelude string // "@media screen and (min-width: 100px)", "@keyframes fade"
	Rules   []Rule
}

// StylesheetItem is a single top-level item in a stylesheet.
// Exactly one of Rule, Block, or Import is non-nil.
type StylesheetItem struct {
	Rule   *Rule
	Block  *Block
	Import *string
}

// Stylesheet represents a parsed CSS stylesheet.
type Stylesheet struct {
	Items    []StylesheetItem // All top-level items in source order
	Warnings []string         // Parse problems
}

// Imports returns all @import URLs from the stylesheet in source order.
func (s *Stylesheet) Imports() []string {
	var urls []string
	for _, item := range s.Items {
		if item.Import != nil {
			urls = append(urls, *item.Import)
		}
	}
	return urls
}

// EachDeclaration calls fn for every declaration in source order, including
// declarations inside at-rule blocks. Prelude is empty for top-level rules.
// Declarations may be modified in place.
func (s *Stylesheet) EachDeclaration(fn func(prelude string, rule *Rule, decl *Declaration)) {
	visit := func(prelude string, rule *Rule) {
		for i := range rule.Declarations {
			fn(prelude, rule, &rule.Declarations[i])
		}
	}
	for _, item := range s.Items {
		switch {
		case item.Rule != nil:
			visit("", item.Rule)
		case item.Block != nil:
			for i := range item.Block.Rules {
				visit(item.Block.Prelude, &item.Block.Rules[i])
			}
		}
	}
}

// Variables returns custom properties declared in the stylesheet. When a
// property is declared more than once, the last declaration wins.
func (s *Stylesheet) Variables() map[string]string {
	vars := make(map[string]string)
	s.EachDeclaration(func(_ string, _ *Rule, d *Declaration) {
		if d.Custom {
			vars[d.Property] = d.Value
		}
	})
	return vars
}

// Selectors returns unique rule selectors in natural order.
func (s *Stylesheet) Selectors() []string {
	seen := make(map[string]bool)
	var selectors []string
	s.EachDeclaration(func(_ string, r *Rule, _ *Declaration) {
		if !seen[r.Selector] {
			seen[r.Selector] = true
			selectors = append(selectors, r.Selector)
		}
	})
	sort.Sort(natural.StringSlice(selectors))
	return selectors
}

// WriteTo writes the stylesheet to w in source order, implementing io.WriterTo.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i, item := range s.Items {
		var n int
		var err error

		switch {
		case item.Import != nil:
			n, err = fmt.Fprintf(w, "@import url(\"%s\");\n", cssEscapeDoubleQuoted(*item.Import))
		case item.Block != nil:
			n, err = writeBlock(w, item.Block)
		case item.Rule != nil:
			n, err = writeRule(w, item.Rule, "")
		}

		total += int64(n)
		if err != nil {
			return total, err
		}

		// Add blank line between items (except after last)
		if i < len(s.Items)-1 {
			n, err = fmt.Fprint(w, "\n")
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

// writeRule writes a single CSS rule to w. Rule without selector holds
// declarations of the enclosing block (@font-face) and is written without
// braces.
func writeRule(w io.Writer, rule *Rule, indent string) (int, error) {
	if rule.Selector == "" {
		return writeDeclarations(w, rule.Declarations, indent)
	}
	var total int
	n, err := fmt.Fprintf(w, "%s%s {\n", indent, rule.Selector)
	total += n
	if err != nil {
		return total, err
	}
	n, err = writeDeclarations(w, rule.Declarations, indent+"  ")
	total += n
	if err != nil {
		return total, err
	}
	n, err = fmt.Fprintf(w, "%s}\n", indent)
	total += n
	return total, err
}

// writeDeclarations writes declarations in source order.
func writeDeclarations(w io.Writer, decls []Declaration, indent string) (int, error) {
	var total int
	for _, d := range decls {
		important := ""
		if d.Important {
			important = " !important"
		}
		n, err := fmt.Fprintf(w, "%s%s: %s%s;\n", indent, d.Property, d.Value, important)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// writeBlock writes an at-rule block to w.
func writeBlock(w io.Writer, b *Block) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "%s {\n", b.Prelude)
	total += n
	if err != nil {
		return total, err
	}

	for i := range b.Rules {
		n, err = writeRule(w, &b.Rules[i], "  ")
		total += n
		if err != nil {
			return total, err
		}

		// Blank line between rules in a block (except after last)
		if i < len(b.Rules)-1 {
			n, err = fmt.Fprint(w, "\n")
			total += n
			if err != nil {
				return total, err
			}
		}
	}

	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}
