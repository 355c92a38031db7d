package expr

import (
	"fmt"
	"math"
	"strings"
)

// MinMax is `min()`, `max()` or `clamp(min, preferred, max)`.
type MinMax struct {
	name string
	args []Node
}

// NewMinMax returns min(), max() or clamp() node.
func NewMinMax(name string, args ...Node) (*MinMax, error) {
	name = strings.ToLower(name)
	switch name {
	case "min", "max":
		if len(args) == 0 {
			return nil, arity("%s requires at least one argument", name)
		}
	case "clamp":
		if len(args) != 3 {
			return nil, arity("clamp requires 3 arguments, got %d", len(args))
		}
	default:
		return nil, fmt.Errorf("unknown function %s", name)
	}
	return &MinMax{name: name, args: args}, nil
}

func (m *MinMax) Name() string { return m.name }

func (m *MinMax) CSS() (string, error) {
	args, err := joinCSS(m.args, ",")
	if err != nil {
		return "", err
	}
	return m.name + "(" + args + ")", nil
}

// IsConst is always false: even constant arguments have to be computed.
func (m *MinMax) IsConst(bool) bool { return false }

func (m *MinMax) Calc(s Scope) (Node, error) {
	resolved, err := resolveArray(m.args, nil, s)
	if err != nil || resolved == nil {
		return nil, err
	}

	args := make([]Numeric, len(resolved))
	pivot := -1
	for i, n := range resolved {
		num, ok := n.(Numeric)
		if !ok {
			return nil, mismatch("%s arguments must be numerical", m.name)
		}
		args[i] = num
		if pivot < 0 && !num.IsPercent() {
			pivot = i
		}
	}

	rewrite := false
	if pivot >= 0 {
		for _, a := range args {
			if a.IsPercent() {
				rewrite = true
				continue
			}
			if a.kind != args[pivot].kind {
				return nil, mismatch("%s arguments must be the same type: %s and %s", m.name, args[pivot].kind, a.kind)
			}
			if a.units != args[pivot].units {
				rewrite = true
			}
		}
	}
	if rewrite {
		base, err := args[pivot].Norm(s)
		if err != nil {
			return nil, err
		}
		for i, a := range args {
			if a.IsPercent() {
				args[i], err = base.CalcPercent(a.num, s)
			} else {
				args[i], err = a.Norm(s)
			}
			if err != nil {
				return nil, err
			}
		}
	}

	var num float64
	switch m.name {
	case "min":
		num = args[0].num
		for _, a := range args[1:] {
			num = math.Min(num, a.num)
		}
	case "max":
		num = args[0].num
		for _, a := range args[1:] {
			num = math.Max(num, a.num)
		}
	case "clamp":
		// clamp(MIN, VAL, MAX) = max(MIN, min(VAL, MAX))
		num = math.Max(args[0].num, math.Min(args[1].num, args[2].num))
	}
	return args[0].CreateSameUnits(num), nil
}
