package expr

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Kind is the type of numeric value.
type Kind int

const (
	KindNumber  Kind = iota // unitless: 100, 1e-2
	KindPercent             // 50%
	KindLength              // 10px, 2em, 80vw
	KindAngle               // 45deg, 0.5rad
	KindTime                // 1s, 600ms
)

// String returns short kind name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kinds) {
		return "UNKNOWN"
	}
	return kinds[k].name
}

const (
	degToRad  = 2 * math.Pi / 360
	gradToRad = math.Pi / 200
)

// kindOps is per kind numeric behavior.
type kindOps struct {
	name        string
	isNorm      func(units string) bool
	norm        func(n Numeric, s Scope) (Numeric, error)
	calcPercent func(n Numeric, percent float64, s Scope) (Numeric, error)
}

var kinds [KindTime + 1]kindOps

func init() {
	kinds = [...]kindOps{
		KindNumber: {
			name:        "NUM",
			isNorm:      func(string) bool { return true },
			norm:        func(n Numeric, _ Scope) (Numeric, error) { return n, nil },
			calcPercent: noPercent,
		},
		KindPercent: {
			name:   "PRC",
			isNorm: func(string) bool { return false },
			norm: func(n Numeric, s Scope) (Numeric, error) {
				if !s.Dimension.Active() {
					return n, nil
				}
				return NewLength(0, "px").CalcPercent(n.num, s)
			},
			calcPercent: noPercent,
		},
		KindLength: {
			name:        "LEN",
			isNorm:      func(units string) bool { return units == "px" },
			norm:        normLength,
			calcPercent: percentOfLength,
		},
		KindAngle: {
			name:        "ANG",
			isNorm:      func(units string) bool { return units == "rad" },
			norm:        normAngle,
			calcPercent: noPercent,
		},
		KindTime: {
			name:   "TME",
			isNorm: func(units string) bool { return units == "ms" },
			norm: func(n Numeric, _ Scope) (Numeric, error) {
				ms, err := n.millis()
				if err != nil {
					return Numeric{}, err
				}
				return NewTime(ms, "ms"), nil
			},
			calcPercent: noPercent,
		},
	}
}

// Numeric is a number with units. Units are always lower case.
type Numeric struct {
	kind  Kind
	num   float64
	units string
}

// NewNumeric returns numeric node of the kind.
func NewNumeric(kind Kind, num float64, units string) Numeric {
	return Numeric{kind: kind, num: num, units: strings.ToLower(units)}
}

// NewNumber returns unitless number.
func NewNumber(num float64) Numeric { return NewNumeric(KindNumber, num, "") }

// NewPercent returns percent value.
func NewPercent(num float64) Numeric { return NewNumeric(KindPercent, num, "%") }

// NewLength returns length value: px, em, rem, vw, vh, vmin, vmax...
func NewLength(num float64, units string) Numeric { return NewNumeric(KindLength, num, units) }

// NewAngle returns angle value: rad, deg, grad.
func NewAngle(num float64, units string) Numeric { return NewNumeric(KindAngle, num, units) }

// NewTime returns time value: ms, s.
func NewTime(num float64, units string) Numeric { return NewNumeric(KindTime, num, units) }

func (n Numeric) Kind() Kind      { return n.kind }
func (n Numeric) Num() float64    { return n.num }
func (n Numeric) Units() string   { return n.units }
func (n Numeric) ops() *kindOps   { return &kinds[n.kind] }
func (n Numeric) IsNumber() bool  { return n.kind == KindNumber }
func (n Numeric) IsPercent() bool { return n.kind == KindPercent }

func (n Numeric) CSS() (string, error) {
	return formatNum(n.num) + n.units, nil
}

func (n Numeric) IsConst(normalize bool) bool {
	return !normalize || n.IsNorm()
}

func (n Numeric) Calc(s Scope) (Node, error) {
	if !s.Normalize {
		return n, nil
	}
	norm, err := n.Norm(s)
	if err != nil {
		return nil, err
	}
	return norm, nil
}

// CreateSameUnits returns value of the same kind and units.
func (n Numeric) CreateSameUnits(num float64) Numeric {
	return Numeric{kind: n.kind, num: num, units: n.units}
}

// IsNorm reports whether the value is in canonical units of its kind.
func (n Numeric) IsNorm() bool {
	return n.ops().isNorm(n.units)
}

// Norm converts value to canonical units of its kind (px, rad, ms).
func (n Numeric) Norm(s Scope) (Numeric, error) {
	if n.IsNorm() {
		return n, nil
	}
	return n.ops().norm(n, s)
}

// CalcPercent returns percent of this value type in the scope dimension.
// Only lengths have meaningful percentages.
func (n Numeric) CalcPercent(percent float64, s Scope) (Numeric, error) {
	return n.ops().calcPercent(n, percent, s)
}

func (n Numeric) millis() (float64, error) {
	switch n.units {
	case "ms":
		return n.num, nil
	case "s":
		return n.num * 1000, nil
	}
	return 0, &UnknownUnitsError{Kind: n.kind, Units: n.units}
}

func normLength(n Numeric, s Scope) (Numeric, error) {
	switch n.units {
	case "em":
		return NewLength(n.num*s.Context.CurrentFontSize(), "px"), nil
	case "rem":
		return NewLength(n.num*s.Context.RootFontSize(), "px"), nil
	case "vw", "vh", "vmin", "vmax":
		vp := s.Context.ViewportSize()
		vw := vp.Width * n.num / 100
		vh := vp.Height * n.num / 100
		var num float64
		switch n.units {
		case "vw":
			num = vw
		case "vh":
			num = vh
		case "vmin":
			num = math.Min(vw, vh)
		case "vmax":
			num = math.Max(vw, vh)
		}
		return NewLength(num, "px"), nil
	}
	// cm, in, pt, pc and friends have no conversion to px at this time
	return Numeric{}, &UnknownUnitsError{Kind: n.kind, Units: n.units}
}

func percentOfLength(_ Numeric, percent float64, s Scope) (Numeric, error) {
	rect := s.Context.CurrentElementRect()
	return NewLength(s.Dimension.side(rect)*percent/100, "px"), nil
}

func normAngle(n Numeric, _ Scope) (Numeric, error) {
	switch n.units {
	case "deg":
		return NewAngle(n.num*degToRad, "rad"), nil
	case "grad":
		return NewAngle(n.num*gradToRad, "rad"), nil
	}
	return Numeric{}, &UnknownUnitsError{Kind: n.kind, Units: n.units}
}

func noPercent(n Numeric, _ float64, _ Scope) (Numeric, error) {
	return Numeric{}, mismatch("cannot calculate percent for %s", n.kind)
}

var infinity = regexp.MustCompile(`(?i)^(infinity|infinite)$`)

// NumOf returns numerical value of the node if possible. Infinity is one of
// the possible results.
func NumOf(n Node) (float64, bool) {
	if num, ok := n.(Numeric); ok && num.IsNumber() {
		return num.num, true
	}
	css, err := n.CSS()
	if err != nil {
		return 0, false
	}
	if infinity.MatchString(css) {
		return math.Inf(1), true
	}
	return 0, false
}

// Millis returns time in milliseconds for time nodes and magnitude for plain
// numbers.
func Millis(n Node) (float64, bool) {
	num, ok := n.(Numeric)
	if !ok {
		return 0, false
	}
	switch num.kind {
	case KindTime:
		ms, err := num.millis()
		if err != nil {
			return 0, false
		}
		return ms, true
	case KindNumber:
		return num.num, true
	}
	return 0, false
}

func formatNum(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		// no negative zero in CSS
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
