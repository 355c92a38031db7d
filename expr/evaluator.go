package expr

import (
	"errors"

	"go.uber.org/zap"
)

// Evaluator resolves expressions for a host and reports outcomes to the log.
type Evaluator struct {
	log       *zap.Logger
	normalize bool
	rand      func() float64
}

// NewEvaluator creates evaluator. When normalize is set all numeric values
// are converted to canonical units (px, rad, ms).
func NewEvaluator(log *zap.Logger, normalize bool) *Evaluator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Evaluator{log: log.Named("evaluator"), normalize: normalize}
}

// WithRand returns copy of evaluator using rnd as source of rand() values.
func (e *Evaluator) WithRand(rnd func() float64) *Evaluator {
	c := *e
	c.rand = rnd
	return &c
}

// Resolve resolves node in the context with dimension in force. Nil node
// without error means value cannot be computed and should not be applied.
func (e *Evaluator) Resolve(n Node, ctx Context, dim Dimension) (Node, error) {
	s := NewScope(ctx, e.normalize).WithDimension(dim)
	s.Rand = e.rand
	resolved, err := Resolve(n, s)
	if err != nil {
		var uerr *UnknownUnitsError
		if errors.As(err, &uerr) {
			e.log.Debug("Unsupported units", zap.String("units", uerr.Units), zap.Stringer("kind", uerr.Kind))
		}
		return nil, err
	}
	if resolved == nil {
		e.log.Debug("Expression is unresolvable", zap.Stringer("dim", dim))
	}
	return resolved, nil
}

// Evaluate resolves node and returns resulting CSS text, ok is false when
// value cannot be computed.
func (e *Evaluator) Evaluate(n Node, ctx Context, dim Dimension) (string, bool, error) {
	resolved, err := e.Resolve(n, ctx, dim)
	if err != nil || resolved == nil {
		return "", false, err
	}
	css, err := resolved.CSS()
	if err != nil {
		return "", false, err
	}
	e.log.Debug("Expression resolved", zap.String("css", css))
	return css, true, nil
}
