package expr

import (
	"fmt"
	"strconv"
	"strings"
)

type treeWriter struct {
	w *strings.Builder
}

func (tw treeWriter) line(depth int, format string, args ...any) {
	for range depth {
		tw.w.WriteString("  ")
	}
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// Dump returns indented description of the expression tree, one node per
// line. It is intended for troubleshooting only, format may change.
func Dump(n Node) string {
	tw := treeWriter{w: &strings.Builder{}}
	dumpNode(tw, 0, "", n)
	return tw.w.String()
}

func dumpNode(tw treeWriter, depth int, label string, n Node) {
	if label != "" {
		label += ": "
	}
	switch v := n.(type) {
	case nil:
		tw.line(depth, "%snil", label)
	case *Passthrough:
		tw.line(depth, "%spassthrough %s", label, strconv.Quote(v.css))
	case *URL:
		tw.line(depth, "%surl %s", label, strconv.Quote(v.url))
	case Numeric:
		tw.line(depth, "%s%s %s%s", label, v.kind, strconv.FormatFloat(v.num, 'g', -1, 64), v.units)
	case *Concat:
		tw.line(depth, "%sconcat", label)
		dumpArgs(tw, depth+1, v.nodes, v.dims)
	case *Func:
		tw.line(depth, "%sfunc %s", label, v.name)
		dumpArgs(tw, depth+1, v.args, v.dims)
	case *MinMax:
		tw.line(depth, "%s%s", label, v.name)
		dumpArgs(tw, depth+1, v.args, nil)
	case *Calc:
		tw.line(depth, "%scalc", label)
		dumpNode(tw, depth+1, "", v.expr)
	case *CalcSum:
		tw.line(depth, "%ssum %c", label, v.op)
		dumpNode(tw, depth+1, "left", v.left)
		dumpNode(tw, depth+1, "right", v.right)
	case *CalcProduct:
		tw.line(depth, "%sproduct %c", label, v.op)
		dumpNode(tw, depth+1, "left", v.left)
		dumpNode(tw, depth+1, "right", v.right)
	case *Var:
		tw.line(depth, "%svar %s", label, v.name)
		if v.def != nil {
			dumpNode(tw, depth+1, "default", v.def)
		}
	case *Rand:
		tw.line(depth, "%srand", label)
		if v.left != nil {
			dumpNode(tw, depth+1, "min", v.left)
			dumpNode(tw, depth+1, "max", v.right)
		}
	case *RectQuery:
		tw.line(depth, "%squery %s selector=%s method=%s", label, v.field, strconv.Quote(v.selector), strconv.Quote(v.method))
	case *NumConvert:
		tw.line(depth, "%snum", label)
		dumpNode(tw, depth+1, "", v.value)
	case *Index:
		tw.line(depth, "%sindex", label)
	case *LengthFunc:
		tw.line(depth, "%slength", label)
	default:
		tw.line(depth, "%s%T", label, n)
	}
}

func dumpArgs(tw treeWriter, depth int, args []Node, dims []Dimension) {
	for i, a := range args {
		label := strconv.Itoa(i)
		if i < len(dims) {
			label += " [" + dims[i].String() + "]"
		}
		dumpNode(tw, depth, label, a)
	}
}
