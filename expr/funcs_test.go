package expr

import (
	"errors"
	"testing"
)

func TestFunc(t *testing.T) {
	s := NewScope(newTestContext(), true)

	t.Run("const", func(t *testing.T) {
		f := NewFunc("RGB", NewNumber(1), NewNumber(2), NewNumber(3))
		if !f.IsConst(true) {
			t.Error("expected const")
		}
		if got := resolvedCSS(t, f, s); got != "rgb(1,2,3)" {
			t.Errorf("resolved = %q", got)
		}
	})

	t.Run("normalized", func(t *testing.T) {
		f := NewFunc("rotate", NewAngle(0, "deg"))
		if f.IsConst(true) {
			t.Error("expected non-const")
		}
		if got := resolvedCSS(t, f, s); got != "rotate(0rad)" {
			t.Errorf("resolved = %q", got)
		}
	})

	t.Run("dimensions", func(t *testing.T) {
		f, err := NewFuncWithDimensions("f", []Node{NewPercent(10), NewPercent(10)}, []Dimension{DimHeight, DimWidth})
		if err != nil {
			t.Fatal(err)
		}
		if got := resolvedCSS(t, f, s); got != "f(22px,11px)" {
			t.Errorf("resolved = %q", got)
		}
		if _, err := NewFuncWithDimensions("f", []Node{NewPercent(10)}, nil); !errors.Is(err, ErrArity) {
			t.Errorf("error = %v, want ErrArity", err)
		}
	})

	t.Run("unresolvable", func(t *testing.T) {
		f := NewFunc("f", NewNumber(1), NewVar("--none", nil))
		if got := resolvedCSS(t, f, s); got != "<nil>" {
			t.Errorf("resolved = %q", got)
		}
	})
}

func TestTranslate(t *testing.T) {
	s := NewScope(newTestContext(), false)

	tests := []struct {
		suffix string
		args   []Node
		want   string
	}{
		{"", []Node{dimProbe("X"), dimProbe("Y")}, "translate(Xw,Yh)"},
		{"X", []Node{dimProbe("X")}, "translatex(Xw)"},
		{"y", []Node{dimProbe("Y")}, "translatey(Yh)"},
		{"Z", []Node{dimProbe("Z")}, "translatez(Zz)"},
		{"3d", []Node{dimProbe("X"), dimProbe("Y"), dimProbe("Z")}, "translate3d(Xw,Yh,Zz)"},
		{"x", []Node{dimProbe("X"), dimProbe("E")}, "translatex(Xw,E)"},
	}
	for _, tt := range tests {
		t.Run("translate"+tt.suffix, func(t *testing.T) {
			if got := resolvedCSS(t, NewTranslate(tt.suffix, tt.args...), s); got != tt.want {
				t.Errorf("resolved = %q, want %q", got, tt.want)
			}
		})
	}

	// percent in translateZ has no side to refer to
	if got := resolvedCSS(t, NewTranslate("z", NewPercent(10)), NewScope(newTestContext(), true)); got != "translatez(0px)" {
		t.Errorf("translateZ(10%%) = %q", got)
	}
}

func TestRectQuery(t *testing.T) {
	s := NewScope(newTestContext(), false)

	tests := []struct {
		name string
		node Node
		want string
	}{
		{"width", NewRectQuery(RectWidth, "", ""), "110px"},
		{"height", NewRectQuery(RectHeight, "", ""), "220px"},
		{"x", NewRectQuery(RectX, "", ""), "5px"},
		{"y", NewRectQuery(RectY, "", ""), "7px"},
		{"selector", NewRectQuery(RectWidth, ".class", ""), "111px"},
		{"closest", NewRectQuery(RectHeight, ".class > div", "closest"), "224px"},
		{"in calc", NewCalcSum(NewRectQuery(RectX, ".class", ""), NewLength(1, "px"), '+'), "2px"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolvedCSS(t, tt.node, s); got != tt.want {
				t.Errorf("resolved = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := Resolve(NewRectQuery(RectWidth, "#missing", ""), s); err == nil {
		t.Error("expected error for missing element")
	}
}

func TestNumConvert(t *testing.T) {
	ctx := newTestContext()
	ctx.vars["--x"] = NewPassthrough("11x")
	ctx.vars["--a"] = NewPassthrough("A")
	s := NewScope(ctx, false)

	tests := []struct {
		name string
		node Node
		want string
	}{
		{"number", NewNumber(11), "11"},
		{"length", NewLength(11, "px"), "11"},
		{"em", NewLength(12, "em"), "12"},
		{"time", NewTime(10, "s"), "10"},
		{"percent", NewPercent(-5.5), "-5.5"},
		{"prefix", NewVar("--x", nil), "11"},
		{"not a number", NewVar("--a", nil), "<nil>"},
		{"infinity", NewPassthrough("-Infinity"), "-Infinity"},
		{"unresolvable", NewVar("--none", nil), "<nil>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolvedCSS(t, NewNumConvert(tt.node), s); got != tt.want {
				t.Errorf("resolved = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIndexLength(t *testing.T) {
	ctx := newTestContext()
	ctx.index = 2
	ctx.length = 5
	s := NewScope(ctx, false)

	if got := resolvedCSS(t, NewIndex(), s); got != "2" {
		t.Errorf("index() = %q", got)
	}
	if got := resolvedCSS(t, NewLengthFunc(), s); got != "5" {
		t.Errorf("length() = %q", got)
	}
	// stagger: calc(index() * 100ms)
	if got := resolvedCSS(t, NewCalcProduct(NewIndex(), NewTime(100, "ms"), '*'), s); got != "200ms" {
		t.Errorf("stagger = %q", got)
	}
}

func TestNoCSS(t *testing.T) {
	for _, n := range []Node{
		NewRectQuery(RectWidth, "", ""),
		NewNumConvert(NewNumber(1)),
		NewRand(nil, nil),
		NewIndex(),
		NewLengthFunc(),
	} {
		if _, err := n.CSS(); !errors.Is(err, ErrNoCSS) {
			t.Errorf("%T: CSS() error = %v, want ErrNoCSS", n, err)
		}
		if n.IsConst(false) {
			t.Errorf("%T: must not be const", n)
		}
	}
}
