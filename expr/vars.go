package expr

// Var is `var(--name)` or `var(--name, default)`.
type Var struct {
	name string
	def  Node
}

// NewVar returns variable reference, def may be nil.
func NewVar(name string, def Node) *Var {
	return &Var{name: name, def: def}
}

func (v *Var) Name() string { return v.name }

func (v *Var) CSS() (string, error) {
	if v.def == nil {
		return "var(" + v.name + ")", nil
	}
	def, err := v.def.CSS()
	if err != nil {
		return "", err
	}
	return "var(" + v.name + "," + def + ")", nil
}

func (v *Var) IsConst(bool) bool { return false }

func (v *Var) Calc(s Scope) (Node, error) {
	if n, ok := s.Context.Var(v.name); ok && n != nil {
		return Resolve(n, s)
	}
	if v.def != nil {
		return Resolve(v.def, s)
	}
	return nil, nil
}

// Calc is `calc(expr)`, transparent wrapper of its expression.
type Calc struct {
	expr Node
}

// NewCalc returns calc() node.
func NewCalc(expr Node) *Calc {
	return &Calc{expr: expr}
}

func (c *Calc) CSS() (string, error) {
	expr, err := c.expr.CSS()
	if err != nil {
		return "", err
	}
	return "calc(" + expr + ")", nil
}

func (c *Calc) IsConst(bool) bool { return false }

func (c *Calc) Calc(s Scope) (Node, error) {
	return Resolve(c.expr, s)
}
