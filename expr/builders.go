package expr

import (
	"strings"
)

// Builders shape parsed shorthand values into nodes carrying dimension hints
// for percentages. They never look at numeric content, errors in it surface
// during resolve.

var boxDimensions = []Dimension{DimHeight, DimWidth, DimHeight, DimWidth}

// components returns sequence components of the value.
func components(value Node) []Node {
	if c, ok := value.(*Concat); ok {
		return c.nodes
	}
	return []Node{value}
}

// CreateBoxNode returns box shorthand (`top right bottom left` as in margin,
// inset) tagged with vertical/horizontal dimensions.
func CreateBoxNode(value Node) (*Concat, error) {
	return CreateBoxNodeWithDimensions(value, boxDimensions)
}

// CreateBoxNodeWithDimensions returns box shorthand of 1 to 4 components
// tagged with dims. A single value is duplicated before tagging. Empty dims
// leave components untagged.
func CreateBoxNodeWithDimensions(value Node, dims []Dimension) (*Concat, error) {
	nodes := components(value)
	if len(nodes) < 1 || len(nodes) > 4 {
		return nil, arity("box must have between 1 and 4 components, got %d", len(nodes))
	}
	if len(dims) == 0 {
		return NewConcat(nodes...), nil
	}
	if len(nodes) == 1 {
		nodes = []Node{nodes[0], nodes[0]}
	}
	if len(dims) < len(nodes) {
		return nil, arity("%d dimensions for %d box components", len(dims), len(nodes))
	}
	return NewConcatWithDimensions(nodes, dims[:len(nodes)])
}

// CreateBorderRadiusNode returns border radius: `box1` or `box1 / box2`.
// With two boxes the first one holds horizontal radii and the second one
// vertical.
func CreateBorderRadiusNode(box1, box2 Node) (*Concat, error) {
	horizontal, err := CreateBoxNodeWithDimensions(box1, nil)
	if err != nil {
		return nil, err
	}
	if box2 == nil {
		return horizontal, nil
	}
	vertical, err := CreateBoxNodeWithDimensions(box2, nil)
	if err != nil {
		return nil, err
	}
	return NewConcatWithDimensions(
		[]Node{horizontal, NewPassthrough("/"), vertical},
		[]Dimension{DimWidth, DimNone, DimHeight})
}

// CreatePositionNode returns position of 1, 2 or 4 components:
//
//	10%                  horizontal
//	10% 20%              horizontal vertical
//	left 10% top 20%     keyword/offset pairs, axis taken from the keyword
func CreatePositionNode(value Node) (*Concat, error) {
	nodes := components(value)
	var dims []Dimension
	switch len(nodes) {
	case 1:
		dims = []Dimension{DimWidth}
	case 2:
		dims = []Dimension{DimWidth, DimHeight}
	case 4:
		dims = make([]Dimension, 4)
		for i := 0; i < 4; i += 2 {
			dim := keywordDimension(nodes[i])
			dims[i], dims[i+1] = dim, dim
		}
	default:
		return nil, arity("position must have 1, 2 or 4 components, got %d", len(nodes))
	}
	return NewConcatWithDimensions(nodes, dims)
}

func keywordDimension(n Node) Dimension {
	css, err := n.CSS()
	if err != nil {
		return DimNone
	}
	switch strings.ToLower(strings.TrimSpace(css)) {
	case "left", "right":
		return DimWidth
	case "top", "bottom":
		return DimHeight
	}
	return DimNone
}

// CreateInsetNode returns `inset(box [round radius])`, round is the result of
// CreateBorderRadiusNode or nil.
func CreateInsetNode(box, round Node) (*Func, error) {
	b, err := CreateBoxNode(box)
	if err != nil {
		return nil, err
	}
	if round == nil {
		return NewFunc("inset", b), nil
	}
	return NewFunc("inset", NewConcat(b, NewPassthrough("round"), round)), nil
}

// CreateCircleNode returns `circle([radius] [at position])`. Percent radius
// refers to the diagonal and stays unresolved.
func CreateCircleNode(radius, position Node) (*Func, error) {
	if radius != nil {
		var err error
		if radius, err = NewConcatWithDimensions([]Node{radius}, []Dimension{DimNone}); err != nil {
			return nil, err
		}
	}
	return createShapeNode("circle", radius, position), nil
}

// CreateEllipseNode returns `ellipse([rx ry] [at position])`.
func CreateEllipseNode(radii, position Node) (*Func, error) {
	if radii != nil {
		nodes := components(radii)
		if len(nodes) != 2 {
			return nil, arity("ellipse must have 2 radii, got %d", len(nodes))
		}
		var err error
		if radii, err = NewConcatWithDimensions(nodes, []Dimension{DimWidth, DimHeight}); err != nil {
			return nil, err
		}
	}
	return createShapeNode("ellipse", radii, position), nil
}

func createShapeNode(name string, radii, position Node) *Func {
	var parts []Node
	if radii != nil {
		parts = append(parts, radii)
	}
	if position != nil {
		parts = append(parts, NewPassthrough("at"), position)
	}
	if len(parts) == 0 {
		return NewFunc(name)
	}
	return NewFunc(name, NewConcat(parts...))
}

// CreatePolygonNode returns `polygon([fill-rule,] x1 y1, x2 y2, ...)`.
// Single component entries such as fill rule are kept untagged.
func CreatePolygonNode(tuples []Node) (*Func, error) {
	points := make([]Node, 0, len(tuples))
	for i, t := range tuples {
		nodes := components(t)
		if len(nodes) == 1 {
			points = append(points, t)
			continue
		}
		if len(nodes) != 2 {
			return nil, arity("polygon point %d must have 2 components, got %d", i, len(nodes))
		}
		p, err := NewConcatWithDimensions(nodes, []Dimension{DimWidth, DimHeight})
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return NewFunc("polygon", points...), nil
}
