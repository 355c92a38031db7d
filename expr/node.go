package expr

import (
	"fmt"
	"regexp"
	"strings"
)

// Node is a component of a CSS expression. Nodes are immutable once
// constructed and can be evaluated any number of times.
type Node interface {
	// CSS returns the CSS text of the node. Nodes which depend on the context
	// (width(), rand(), index(), etc.) return ErrNoCSS and must be resolved
	// first.
	CSS() (string, error)
	// IsConst reports whether the node is context independent. When normalize
	// is set, it also has to be in canonical units already. The check is
	// conservative.
	IsConst(normalize bool) bool
	// Calc computes the value of all variable components. A nil node with nil
	// error means the value cannot be resolved in the given scope.
	Calc(s Scope) (Node, error)
}

// Resolve returns n itself when it is constant, otherwise the result of
// n.Calc. A nil result without error means n is unresolvable.
func Resolve(n Node, s Scope) (Node, error) {
	if n.IsConst(s.Normalize) {
		return n, nil
	}
	return n.Calc(s)
}

// Passthrough is opaque pre-rendered CSS text: keywords, colors, etc.
type Passthrough struct {
	css string
}

// NewPassthrough returns node for the CSS text.
func NewPassthrough(css string) *Passthrough {
	return &Passthrough{css: css}
}

func (p *Passthrough) CSS() (string, error) { return p.css, nil }

func (p *Passthrough) IsConst(bool) bool { return true }

func (p *Passthrough) Calc(Scope) (Node, error) { return p, nil }

// Concat is a space separated sequence: `translateX(...) rotate(...)`,
// `1s normal`, etc.
type Concat struct {
	nodes []Node
	dims  []Dimension
}

// NewConcat returns sequence of nodes.
func NewConcat(nodes ...Node) *Concat {
	return &Concat{nodes: nodes}
}

// NewConcatWithDimensions returns sequence of nodes with every node resolved
// under its own dimension. There must be exactly one dimension per node.
func NewConcatWithDimensions(nodes []Node, dims []Dimension) (*Concat, error) {
	if len(dims) != len(nodes) {
		return nil, arity("%d dimensions for %d components", len(dims), len(nodes))
	}
	return &Concat{nodes: nodes, dims: dims}, nil
}

// ConcatOf concatenates two nodes, flattening both if they are sequences
// already. Dimensions of the operands are kept, untagged nodes inherit.
func ConcatOf(a, b Node) *Concat {
	var (
		nodes []Node
		dims  []Dimension
	)
	tagged := false
	add := func(n Node) {
		c, ok := n.(*Concat)
		if !ok {
			nodes = append(nodes, n)
			dims = append(dims, DimInherit)
			return
		}
		nodes = append(nodes, c.nodes...)
		if c.dims == nil {
			for range c.nodes {
				dims = append(dims, DimInherit)
			}
			return
		}
		tagged = true
		dims = append(dims, c.dims...)
	}
	add(a)
	add(b)
	if !tagged {
		dims = nil
	}
	return &Concat{nodes: nodes, dims: dims}
}

// Nodes returns sequence components.
func (c *Concat) Nodes() []Node { return c.nodes }

// Dimensions returns per component dimensions or nil.
func (c *Concat) Dimensions() []Dimension { return c.dims }

func (c *Concat) CSS() (string, error) {
	return joinCSS(c.nodes, " ")
}

func (c *Concat) IsConst(normalize bool) bool {
	return allConst(c.nodes, normalize)
}

func (c *Concat) Calc(s Scope) (Node, error) {
	resolved, err := resolveArray(c.nodes, c.dims, s)
	if err != nil || resolved == nil {
		return nil, err
	}
	return &Concat{nodes: resolved}, nil
}

var finalURL = regexp.MustCompile(`(?i)^(data|https):`)

// URL is a `url()` reference. Only data: and https: URLs are final, anything
// else has to be resolved by the context.
type URL struct {
	url string
}

// NewURL returns node for url("...").
func NewURL(url string) *URL {
	return &URL{url: url}
}

func (u *URL) CSS() (string, error) {
	if u.url == "" {
		return "", nil
	}
	return fmt.Sprintf(`url("%s")`, u.url), nil
}

func (u *URL) IsConst(bool) bool {
	return u.url == "" || finalURL.MatchString(u.url)
}

func (u *URL) Calc(s Scope) (Node, error) {
	url, err := s.Context.ResolveURL(u.url)
	if err != nil {
		return nil, fmt.Errorf("unable to resolve url %q: %w", u.url, err)
	}
	// passthrough, so resolved url is never evaluated again
	return NewPassthrough(fmt.Sprintf(`url("%s")`, url)), nil
}

// resolveArray resolves every node, using per node dimension when dims are
// present. If any node is unresolvable the whole array is (nil, nil).
func resolveArray(nodes []Node, dims []Dimension, s Scope) ([]Node, error) {
	resolved := make([]Node, 0, len(nodes))
	for i, n := range nodes {
		ns := s
		if i < len(dims) {
			ns = s.WithDimension(dims[i])
		}
		r, err := Resolve(n, ns)
		if err != nil {
			return nil, err
		}
		if r == nil {
			return nil, nil
		}
		resolved = append(resolved, r)
	}
	return resolved, nil
}

func allConst(nodes []Node, normalize bool) bool {
	for _, n := range nodes {
		if !n.IsConst(normalize) {
			return false
		}
	}
	return true
}

func joinCSS(nodes []Node, sep string) (string, error) {
	var sb strings.Builder
	for i, n := range nodes {
		css, err := n.CSS()
		if err != nil {
			return "", err
		}
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(css)
	}
	return sb.String(), nil
}
