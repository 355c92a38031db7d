package expr

import (
	"math/rand/v2"
)

// Size is a width/height pair in CSS pixels.
type Size struct {
	Width  float64
	Height float64
}

// Rect is an element box in CSS pixels.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Context supplies everything evaluation needs from the host document.
// All methods are synchronous and may read live state.
type Context interface {
	// ResolveURL returns an absolute URL that is allowed for use, or an error
	// when the URL cannot be used.
	ResolveURL(url string) (string, error)
	// Var returns the value of a CSS variable, ok is false if it is not defined.
	Var(name string) (Node, bool)
	// CurrentIndex returns 0-based index of the current target among all
	// selected targets.
	CurrentIndex() int
	// TargetLength returns the number of selected targets.
	TargetLength() int
	CurrentFontSize() float64
	RootFontSize() float64
	ViewportSize() Size
	CurrentElementRect() Rect
	// ElementRect returns the rect of the element found with selector. Method
	// is either empty (document-wide query) or "closest" (ancestor lookup).
	ElementRect(selector, method string) (Rect, error)
}

// Dimension tells which axis percentages resolve against.
type Dimension string

const (
	// DimNone resets dimension: percentages stay unresolved.
	DimNone Dimension = ""
	// DimWidth resolves percentages against element width.
	DimWidth Dimension = "w"
	// DimHeight resolves percentages against element height.
	DimHeight Dimension = "h"
	// DimDepth is used by translateZ, there is no element side to resolve
	// against so percentages become 0px.
	DimDepth Dimension = "z"
	// DimInherit keeps whatever dimension is already in force.
	DimInherit Dimension = "*"
)

// Active returns true if percentages resolve under this dimension.
func (d Dimension) Active() bool {
	return d != DimNone && d != DimInherit
}

func (d Dimension) String() string {
	switch d {
	case DimNone:
		return "none"
	case DimInherit:
		return "inherit"
	}
	return string(d)
}

// side returns the rect side for the dimension, 0 when there is none.
func (d Dimension) side(r Rect) float64 {
	switch d {
	case DimWidth:
		return r.Width
	case DimHeight:
		return r.Height
	default:
		return 0
	}
}

// Scope is the state threaded through a single resolve call tree. It is passed
// by value, so narrowing the dimension for a subtree never leaks to siblings.
type Scope struct {
	Context   Context
	Dimension Dimension
	Normalize bool
	// Rand returns uniformly distributed values in [0,1). When nil
	// math/rand/v2 is used.
	Rand func() float64
}

// NewScope returns scope without active dimension.
func NewScope(ctx Context, normalize bool) Scope {
	return Scope{Context: ctx, Normalize: normalize}
}

// WithDimension returns copy of the scope with dimension replaced.
// DimInherit leaves scope as is.
func (s Scope) WithDimension(dim Dimension) Scope {
	if dim == DimInherit {
		return s
	}
	s.Dimension = dim
	return s
}

func (s Scope) random() float64 {
	if s.Rand != nil {
		return s.Rand()
	}
	return rand.Float64()
}
