package expr

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCSS is returned by CSS() of nodes which must be resolved first.
	ErrNoCSS = errors.New("no css")
	// ErrUnknownUnits is matched by every UnknownUnitsError.
	ErrUnknownUnits = errors.New("unknown units")
	// ErrTypeMismatch reports non-numeric operands or incompatible numeric kinds.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrArity reports wrong number of components or arguments.
	ErrArity = errors.New("wrong number of components")
)

// UnknownUnitsError is returned when units have no conversion to the
// canonical units of their kind.
type UnknownUnitsError struct {
	Kind  Kind
	Units string
}

func (e *UnknownUnitsError) Error() string {
	return fmt.Sprintf("unknown units: %s (%s)", e.Units, e.Kind)
}

func (e *UnknownUnitsError) Is(target error) bool {
	return target == ErrUnknownUnits
}

func mismatch(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrTypeMismatch, fmt.Sprintf(format, args...))
}

func arity(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrArity, fmt.Sprintf(format, args...))
}
