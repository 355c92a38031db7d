package expr

import (
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	pstrconv "github.com/tdewolff/parse/v2/strconv"
)

// varFunctions are functions which make CSS value variable.
var varFunctions = map[string]bool{
	"calc": true, "min": true, "max": true, "clamp": true,
	"var": true, "url": true, "rand": true, "index": true,
	"width": true, "height": true, "num": true, "length": true,
	"x": true, "y": true,
}

// normUnits are units which change when value is normalized.
var normUnits = map[string]bool{
	"em": true, "rem": true, "vw": true, "vh": true, "vmin": true, "vmax": true,
	"s": true, "deg": true, "grad": true,
}

// IsVarCSS returns true if CSS text contains variable components and has to
// be parsed and evaluated. When normalize is set, values in non-canonical
// units are variable as well. The check only tokenizes the text, so it is
// much cheaper than full parse/evaluate.
func IsVarCSS(text string, normalize bool) bool {
	l := css.NewLexer(parse.NewInputString(text))
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			return false
		case css.FunctionToken:
			name := strings.ToLower(strings.TrimSuffix(string(data), "("))
			if varFunctions[name] {
				return true
			}
		case css.URLToken, css.BadURLToken:
			return true
		case css.PercentageToken:
			if normalize {
				return true
			}
		case css.DimensionToken:
			if normalize && normUnits[dimensionUnits(data)] {
				return true
			}
		}
	}
}

// dimensionUnits returns lower cased units of a dimension token: "10Em" -> "em".
func dimensionUnits(data []byte) string {
	_, n := pstrconv.ParseFloat(data)
	return strings.ToLower(string(data[n:]))
}
