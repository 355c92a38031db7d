package expr

import (
	"math"
	"strings"

	pstrconv "github.com/tdewolff/parse/v2/strconv"
)

// Func is a generic function: `rgb(1, 1, 1)`, `translateX(300px)`, etc.
type Func struct {
	name string
	args []Node
	dims []Dimension
}

// NewFunc returns function node, name is lower cased.
func NewFunc(name string, args ...Node) *Func {
	return &Func{name: strings.ToLower(name), args: args}
}

// NewFuncWithDimensions returns function node which resolves every argument
// under its own dimension. There must be exactly one dimension per argument.
func NewFuncWithDimensions(name string, args []Node, dims []Dimension) (*Func, error) {
	if len(dims) != len(args) {
		return nil, arity("%s: %d dimensions for %d arguments", name, len(dims), len(args))
	}
	return &Func{name: strings.ToLower(name), args: args, dims: dims}, nil
}

func (f *Func) Name() string                { return f.name }
func (f *Func) Args() []Node                { return f.args }
func (f *Func) Dimensions() []Dimension     { return f.dims }
func (f *Func) IsConst(normalize bool) bool { return allConst(f.args, normalize) }

func (f *Func) CSS() (string, error) {
	args, err := joinCSS(f.args, ",")
	if err != nil {
		return "", err
	}
	return f.name + "(" + args + ")", nil
}

func (f *Func) Calc(s Scope) (Node, error) {
	resolved, err := resolveArray(f.args, f.dims, s)
	if err != nil || resolved == nil {
		return nil, err
	}
	return &Func{name: f.name, args: resolved}, nil
}

// NewTranslate returns one of the translate family functions, suffix selects
// the function and the dimensions of its arguments:
//
//	""   translate(x, y)
//	"x"  translateX(x)
//	"y"  translateY(y)
//	"z"  translateZ(z)
//	"3d" translate3d(x, y, z)
//
// Arguments past the dimensions known for the suffix inherit dimension.
func NewTranslate(suffix string, args ...Node) *Func {
	suffix = strings.ToLower(suffix)
	var known []Dimension
	switch suffix {
	case "":
		known = []Dimension{DimWidth, DimHeight}
	case "x":
		known = []Dimension{DimWidth}
	case "y":
		known = []Dimension{DimHeight}
	case "z":
		known = []Dimension{DimDepth}
	case "3d":
		known = []Dimension{DimWidth, DimHeight, DimDepth}
	}
	f := &Func{name: "translate" + suffix, args: args}
	if known != nil {
		f.dims = make([]Dimension, len(args))
		for i := range f.dims {
			if i < len(known) {
				f.dims[i] = known[i]
			} else {
				f.dims[i] = DimInherit
			}
		}
	}
	return f
}

// RectField selects which part of the element rect is queried.
type RectField string

const (
	RectWidth  RectField = "w"
	RectHeight RectField = "h"
	RectX      RectField = "x"
	RectY      RectField = "y"
)

func (f RectField) of(r Rect) float64 {
	switch f {
	case RectWidth:
		return r.Width
	case RectHeight:
		return r.Height
	case RectX:
		return r.X
	case RectY:
		return r.Y
	}
	return 0
}

// RectQuery is `width()`, `height()`, `x()` or `y()`: measures the current
// element or the element found with selector.
type RectQuery struct {
	field    RectField
	selector string
	method   string
}

// NewRectQuery returns rect query. Empty selector means current element,
// method is either empty or "closest".
func NewRectQuery(field RectField, selector, method string) *RectQuery {
	return &RectQuery{field: field, selector: selector, method: method}
}

func (q *RectQuery) CSS() (string, error) { return "", ErrNoCSS }
func (q *RectQuery) IsConst(bool) bool    { return false }

func (q *RectQuery) Calc(s Scope) (Node, error) {
	rect := s.Context.CurrentElementRect()
	if q.selector != "" {
		var err error
		if rect, err = s.Context.ElementRect(q.selector, q.method); err != nil {
			return nil, err
		}
	}
	return NewLength(q.field.of(rect), "px"), nil
}

// NumConvert is `num(value)`: numeric part of the value, e.g. `11px` -> 11,
// `12em` -> 12, `10s` -> 10.
type NumConvert struct {
	value Node
}

// NewNumConvert returns num() node.
func NewNumConvert(value Node) *NumConvert {
	return &NumConvert{value: value}
}

func (c *NumConvert) CSS() (string, error) { return "", ErrNoCSS }
func (c *NumConvert) IsConst(bool) bool    { return false }

func (c *NumConvert) Calc(s Scope) (Node, error) {
	value, err := Resolve(c.value, s)
	if err != nil || value == nil {
		return nil, err
	}
	if n, ok := value.(Numeric); ok {
		return NewNumber(n.num), nil
	}
	css, err := value.CSS()
	if err != nil {
		return nil, err
	}
	num, ok := parseFloatPrefix(css)
	if !ok {
		return nil, nil
	}
	return NewNumber(num), nil
}

// parseFloatPrefix parses leading number of the string ignoring whatever
// follows it: "11x" -> 11.
func parseFloatPrefix(css string) (float64, bool) {
	css = strings.TrimSpace(css)
	sign := 1.0
	rest := css
	if len(rest) > 0 && (rest[0] == '+' || rest[0] == '-') {
		if rest[0] == '-' {
			sign = -1
		}
		rest = rest[1:]
	}
	if strings.HasPrefix(rest, "Infinity") {
		return sign * math.Inf(1), true
	}
	num, n := pstrconv.ParseFloat([]byte(css))
	if n == 0 || math.IsNaN(num) {
		return 0, false
	}
	return num, true
}

// Index is `index()`: 0-based index of the current target among all selected
// targets.
type Index struct{}

// NewIndex returns index() node.
func NewIndex() *Index { return &Index{} }

func (*Index) CSS() (string, error) { return "", ErrNoCSS }
func (*Index) IsConst(bool) bool    { return false }

func (*Index) Calc(s Scope) (Node, error) {
	return NewNumber(float64(s.Context.CurrentIndex())), nil
}

// LengthFunc is `length()`: number of selected targets.
type LengthFunc struct{}

// NewLengthFunc returns length() node.
func NewLengthFunc() *LengthFunc { return &LengthFunc{} }

func (*LengthFunc) CSS() (string, error) { return "", ErrNoCSS }
func (*LengthFunc) IsConst(bool) bool    { return false }

func (*LengthFunc) Calc(s Scope) (Node, error) {
	return NewNumber(float64(s.Context.TargetLength())), nil
}
