package css

import (
	"strings"

	"cssexpr/expr"
)

// propertyDimensions maps properties with a single value to the dimension
// their percentages refer to.
var propertyDimensions = map[string]expr.Dimension{
	"width": expr.DimWidth, "min-width": expr.DimWidth, "max-width": expr.DimWidth,
	"left": expr.DimWidth, "right": expr.DimWidth,
	"margin-left": expr.DimWidth, "margin-right": expr.DimWidth,
	"padding-left": expr.DimWidth, "padding-right": expr.DimWidth,
	"height": expr.DimHeight, "min-height": expr.DimHeight, "max-height": expr.DimHeight,
	"top": expr.DimHeight, "bottom": expr.DimHeight,
	"margin-top": expr.DimHeight, "margin-bottom": expr.DimHeight,
	"padding-top": expr.DimHeight, "padding-bottom": expr.DimHeight,
}

// Bind shapes decoded value of the property: box shorthands, border radius
// and positions get per component dimensions. Returned dimension is the one
// the whole value has to be resolved under.
func Bind(property string, value expr.Node) (expr.Node, expr.Dimension, error) {
	property = strings.ToLower(property)
	switch property {
	case "margin", "padding", "inset", "scroll-margin", "scroll-padding":
		n, err := expr.CreateBoxNode(value)
		if err != nil {
			return nil, expr.DimNone, err
		}
		return n, expr.DimNone, nil

	case "border-radius":
		box1, box2 := splitSlash(value)
		n, err := expr.CreateBorderRadiusNode(box1, box2)
		if err != nil {
			return nil, expr.DimNone, err
		}
		return n, expr.DimNone, nil

	case "transform-origin", "perspective-origin", "background-position", "object-position", "offset-anchor":
		n, err := expr.CreatePositionNode(value)
		if err != nil {
			return nil, expr.DimNone, err
		}
		return n, expr.DimNone, nil
	}
	return value, propertyDimensions[property], nil
}

// splitSlash splits `a b / c d` sequence at the slash, second part is nil
// when there is no slash.
func splitSlash(value expr.Node) (expr.Node, expr.Node) {
	c, ok := value.(*expr.Concat)
	if !ok {
		return value, nil
	}
	nodes := c.Nodes()
	for i, n := range nodes {
		if p, ok := n.(*expr.Passthrough); ok {
			if css, _ := p.CSS(); css == "/" {
				return sequence(nodes[:i]), sequence(nodes[i+1:])
			}
		}
	}
	return value, nil
}

func sequence(nodes []expr.Node) expr.Node {
	if len(nodes) == 1 {
		return nodes[0]
	}
	return expr.NewConcat(nodes...)
}
