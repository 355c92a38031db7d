package expr

import (
	"errors"
	"testing"
)

func TestRandBounds(t *testing.T) {
	s := NewScope(newTestContext(), false)
	n := NewRand(NewTime(1, "s"), NewTime(5000, "ms"))

	const trials = 2000
	var sum float64
	for range trials {
		r, err := Resolve(n, s)
		if err != nil {
			t.Fatal(err)
		}
		ms, ok := Millis(r)
		if !ok {
			t.Fatalf("result %v is not time", r)
		}
		if ms < 1000 || ms > 5000 {
			t.Fatalf("result %vms is out of bounds", ms)
		}
		sum += ms
	}
	if mean := sum / trials; mean < 2700 || mean > 3300 {
		t.Errorf("mean = %v, want about 3000", mean)
	}
}

func TestRandFixed(t *testing.T) {
	s := NewScope(newTestContext(), false)
	s.Rand = func() float64 { return 0.25 }

	tests := []struct {
		name string
		node Node
		want string
	}{
		{"no args", NewRand(nil, nil), "0.25"},
		{"numbers", NewRand(NewNumber(10), NewNumber(20)), "12.5"},
		{"reversed", NewRand(NewNumber(200), NewNumber(100)), "125"},
		{"lengths", NewRand(NewLength(10, "px"), NewLength(20, "px")), "12.5px"},
		{"mixed units", NewRand(NewTime(10, "s"), NewTime(20000, "ms")), "12500ms"},
		{"var", NewRand(NewVar("--none", NewLength(10, "px")), NewLength(25, "px")), "13.75px"},
		{"unresolvable", NewRand(NewVar("--none", nil), NewNumber(1)), "<nil>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolvedCSS(t, tt.node, s); got != tt.want {
				t.Errorf("resolved = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRandErrors(t *testing.T) {
	s := NewScope(newTestContext(), false)

	if _, err := Resolve(NewRand(NewLength(1, "px"), NewTime(1, "s")), s); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("error = %v, want ErrTypeMismatch", err)
	}
	if _, err := NewRand(nil, nil).CSS(); !errors.Is(err, ErrNoCSS) {
		t.Errorf("CSS() error = %v, want ErrNoCSS", err)
	}
}
