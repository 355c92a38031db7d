package expr

import (
	"math"
)

// numericOperands converts resolved operands to numerics.
func numericOperands(left, right Node) (Numeric, Numeric, error) {
	l, lok := left.(Numeric)
	r, rok := right.(Numeric)
	if !lok || !rok {
		return Numeric{}, Numeric{}, mismatch("left and right must be both numerical")
	}
	return l, r, nil
}

// resolveOperands resolves both operands, ok is false when either is
// unresolvable.
func resolveOperands(left, right Node, s Scope) (Numeric, Numeric, bool, error) {
	l, err := Resolve(left, s)
	if err != nil {
		return Numeric{}, Numeric{}, false, err
	}
	r, err := Resolve(right, s)
	if err != nil {
		return Numeric{}, Numeric{}, false, err
	}
	if l == nil || r == nil {
		return Numeric{}, Numeric{}, false, nil
	}
	ln, rn, err := numericOperands(l, r)
	if err != nil {
		return Numeric{}, Numeric{}, false, err
	}
	return ln, rn, true, nil
}

// normPair brings both values to canonical units when their units differ.
func normPair(left, right Numeric, s Scope) (Numeric, Numeric, error) {
	if left.units == right.units {
		return left, right, nil
	}
	l, err := left.Norm(s)
	if err != nil {
		return Numeric{}, Numeric{}, err
	}
	r, err := right.Norm(s)
	if err != nil {
		return Numeric{}, Numeric{}, err
	}
	return l, r, nil
}

// CalcSum is `calc()` sum: `100px + 20em`, `80vw - 30em`, etc.
type CalcSum struct {
	left, right Node
	op          byte
}

// NewCalcSum returns sum node, op is either '+' or '-'.
func NewCalcSum(left, right Node, op byte) *CalcSum {
	return &CalcSum{left: left, right: right, op: op}
}

func (c *CalcSum) CSS() (string, error) {
	return binaryCSS(c.left, c.right, c.op)
}

func (c *CalcSum) IsConst(bool) bool { return false }

// Calc follows css-values: both sides must have the same type. Percent is the
// exception, it resolves against the type of the other side.
func (c *CalcSum) Calc(s Scope) (Node, error) {
	left, right, ok, err := resolveOperands(c.left, c.right, s)
	if !ok {
		return nil, err
	}
	if left.kind != right.kind {
		switch {
		case left.IsPercent():
			left, err = right.CalcPercent(left.num, s)
		case right.IsPercent():
			right, err = left.CalcPercent(right.num, s)
		default:
			err = mismatch("left and right must be the same type: %s and %s", left.kind, right.kind)
		}
		if err != nil {
			return nil, err
		}
	}
	if left, right, err = normPair(left, right, s); err != nil {
		return nil, err
	}
	sign := 1.0
	if c.op == '-' {
		sign = -1
	}
	return left.CreateSameUnits(left.num + sign*right.num), nil
}

// CalcProduct is `calc()` product: `100px * 2`, `80vw / 2`, etc.
type CalcProduct struct {
	left, right Node
	op          byte
}

// NewCalcProduct returns product node, op is either '*' or '/'.
func NewCalcProduct(left, right Node, op byte) *CalcProduct {
	return &CalcProduct{left: left, right: right, op: op}
}

func (c *CalcProduct) CSS() (string, error) {
	return binaryCSS(c.left, c.right, c.op)
}

func (c *CalcProduct) IsConst(bool) bool { return false }

// Calc requires exactly one side of multiplication to be a number, and the
// divisor to be a number. Non-finite results (division by zero) are
// unresolvable.
func (c *CalcProduct) Calc(s Scope) (Node, error) {
	left, right, ok, err := resolveOperands(c.left, c.right, s)
	if !ok {
		return nil, err
	}
	var (
		base  Numeric
		multi float64
	)
	if c.op == '*' {
		switch {
		case left.IsNumber() && right.IsNumber():
			return nil, mismatch("only one of sides in multiplication can be a number")
		case left.IsNumber():
			base, multi = right, left.num
		case right.IsNumber():
			base, multi = left, right.num
		default:
			return nil, mismatch("one of sides in multiplication must be a number")
		}
	} else {
		if !right.IsNumber() {
			return nil, mismatch("denominator must be a number")
		}
		base, multi = left, 1/right.num
	}
	num := base.num * multi
	if math.IsInf(num, 0) || math.IsNaN(num) {
		return nil, nil
	}
	return base.CreateSameUnits(num), nil
}

func binaryCSS(left, right Node, op byte) (string, error) {
	l, err := left.CSS()
	if err != nil {
		return "", err
	}
	r, err := right.CSS()
	if err != nil {
		return "", err
	}
	return l + " " + string(op) + " " + r, nil
}
