package expr

import (
	"math"
)

// Rand is `rand()` or `rand(left, right)`. With no arguments it produces a
// number in [0,1), otherwise a value between left and right of the same type,
// so `rand(1s, 5s)` may produce `2.1s`.
type Rand struct {
	left, right Node
}

// NewRand returns rand() node when both bounds are nil, rand(left, right)
// otherwise.
func NewRand(left, right Node) *Rand {
	return &Rand{left: left, right: right}
}

func (r *Rand) CSS() (string, error) { return "", ErrNoCSS }

func (r *Rand) IsConst(bool) bool { return false }

func (r *Rand) Calc(s Scope) (Node, error) {
	if r.left == nil || r.right == nil {
		return NewNumber(s.random()), nil
	}
	left, right, ok, err := resolveOperands(r.left, r.right, s)
	if !ok {
		return nil, err
	}
	if left.kind != right.kind {
		return nil, mismatch("left and right must be the same type: %s and %s", left.kind, right.kind)
	}
	if left, right, err = normPair(left, right, s); err != nil {
		return nil, err
	}
	lo := math.Min(left.num, right.num)
	hi := math.Max(left.num, right.num)
	rnd := s.random()
	// rand(A, B) = A * (1 - R) + B * R
	return left.CreateSameUnits(lo*(1-rnd) + hi*rnd), nil
}
