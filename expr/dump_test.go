package expr

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDump(t *testing.T) {
	box, err := CreateBoxNode(seq(NewPercent(10), NewLength(1.5, "em")))
	if err != nil {
		t.Fatal(err)
	}
	clamp, err := NewMinMax("clamp", NewLength(1, "px"), NewVar("--x", NewLength(2, "rem")), NewCalc(NewCalcProduct(NewIndex(), NewTime(0.2, "s"), '*')))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		node Node
		want string
	}{
		{"nil", nil, "nil\n"},
		{"numeric", NewAngle(45, "DEG"), "ANG 45deg\n"},
		{"box", box, `concat
  0 [h]: PRC 10%
  1 [w]: LEN 1.5em
`},
		{"clamp", clamp, `clamp
  0: LEN 1px
  1: var --x
    default: LEN 2rem
  2: calc
    product *
      left: index
      right: TME 0.2s
`},
		{"queries", NewConcat(NewRectQuery(RectWidth, ".a", "closest"), NewRand(nil, nil), NewURL("a.png")), `concat
  0: query w selector=".a" method="closest"
  1: rand
  2: url "a.png"
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Dump(tt.node)); diff != "" {
				t.Errorf("Dump() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
