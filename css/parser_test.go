package css_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"cssexpr/css"
)

// allRules collects all top-level rules from a stylesheet's Items.
func allRules(sheet *css.Stylesheet) []css.Rule {
	var rules []css.Rule
	for _, item := range sheet.Items {
		if item.Rule != nil {
			rules = append(rules, *item.Rule)
		}
	}
	return rules
}

func TestParser_Declarations(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	input := []byte(`.box, p.x { Width: calc(100% - 2em); margin: 10% 5%; color: red !important; }`)
	sheet := p.Parse(input, "inline")

	rules := allRules(sheet)
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
	rule := rules[0]
	if rule.Selector != ".box, p.x" {
		t.Errorf("expected selector '.box, p.x', got '%s'", rule.Selector)
	}

	want := []css.Declaration{
		{Property: "width", Value: "calc(100% - 2em)"},
		{Property: "margin", Value: "10% 5%"},
		{Property: "color", Value: "red", Important: true},
	}
	if diff := cmp.Diff(want, rule.Declarations); diff != "" {
		t.Errorf("declarations mismatch (-want +got):\n%s", diff)
	}

	d, ok := rule.Get("margin")
	if !ok || d.Value != "10% 5%" {
		t.Errorf("Get(margin) = %v, %v", d, ok)
	}
	if _, ok := rule.Get("padding"); ok {
		t.Error("unexpected padding declaration")
	}
}

func TestParser_CustomProperties(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	input := []byte(`:root { --Gap: 10px; --w: calc(1px + 2px); }
.a { --Gap: 2em; left: var(--Gap); }`)
	sheet := p.Parse(input)

	vars := sheet.Variables()
	want := map[string]string{"--Gap": "2em", "--w": "calc(1px + 2px)"}
	if diff := cmp.Diff(want, vars); diff != "" {
		t.Errorf("variables mismatch (-want +got):\n%s", diff)
	}
}

func TestParser_Blocks(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	input := []byte(`@import url("base.css");
@import 'more.css';
@media screen and (min-width: 100px) {
  .a { width: 50vw; }
  .b { height: 10vh; }
}
@keyframes fade {
  from { opacity: 0; }
  50% { transform: translateX(10%); }
}
@font-face { font-family: "Serif"; src: url(serif.woff); }
@charset "utf-8";`)
	sheet := p.Parse(input)

	if diff := cmp.Diff([]string{"base.css", "more.css"}, sheet.Imports()); diff != "" {
		t.Errorf("imports mismatch (-want +got):\n%s", diff)
	}

	var preludes []string
	for _, item := range sheet.Items {
		if item.Block != nil {
			preludes = append(preludes, item.Block.Prelude)
		}
	}
	wantPreludes := []string{"@media screen and (min-width:100px)", "@keyframes fade", "@font-face"}
	if len(preludes) != len(wantPreludes) {
		t.Fatalf("blocks = %q", preludes)
	}
	for i := range preludes {
		// whitespace inside media features is not significant
		if strings.ReplaceAll(preludes[i], " ", "") != strings.ReplaceAll(wantPreludes[i], " ", "") {
			t.Errorf("block %d prelude = %q, want %q", i, preludes[i], wantPreludes[i])
		}
	}

	type seen struct{ prelude, selector, property, value string }
	var got []seen
	sheet.EachDeclaration(func(prelude string, r *css.Rule, d *css.Declaration) {
		got = append(got, seen{
			prelude:  strings.Fields(prelude + " x")[0],
			selector: r.Selector,
			property: d.Property,
			value:    d.Value,
		})
	})
	want := []seen{
		{"@media", ".a", "width", "50vw"},
		{"@media", ".b", "height", "10vh"},
		{"@keyframes", "from", "opacity", "0"},
		{"@keyframes", "50%", "transform", "translateX(10%)"},
		{"@font-face", "", "font-family", `"Serif"`},
		{"@font-face", "", "src", "url(serif.woff)"},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(seen{})); diff != "" {
		t.Errorf("declarations mismatch (-want +got):\n%s", diff)
	}
}

func TestParser_Selectors(t *testing.T) {
	p := css.NewParser(nil)

	sheet := p.Parse([]byte(`.item10 { top: 0; } .item2 { top: 0; } .item1 { top: 0; } .item2 { left: 0; }`))
	want := []string{".item1", ".item2", ".item10"}
	if diff := cmp.Diff(want, sheet.Selectors()); diff != "" {
		t.Errorf("selectors mismatch (-want +got):\n%s", diff)
	}
}

func TestParser_Broken(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`.a { width: 10px; } .b { height: 1px`))
	rules := allRules(sheet)
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}
	if d, ok := rules[1].Get("height"); !ok || d.Value != "1px" {
		t.Errorf("Get(height) = %v, %v", d, ok)
	}
}

func TestStylesheet_WriteTo(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`@import "a.css"; .a{width:10px;color:red!important} @media print{.b{top:0}}`))
	sheet.EachDeclaration(func(_ string, _ *css.Rule, d *css.Declaration) {
		if d.Property == "width" {
			d.Value = "20px"
		}
	})

	want := `@import url("a.css");

.a {
  width: 20px;
  color: red !important;
}

@media print {
  .b {
    top: 0;
  }
}
`
	if got := sheet.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}
