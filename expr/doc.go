// Package expr implements evaluation of CSS values with variable components.
//
// Expressions are trees of nodes built by an external parser or by the
// shorthand builders of this package. Supported variable components:
//
//   - calc() with sums and products, following css-values type rules
//   - var() with optional default
//   - min(), max(), clamp()
//   - rand(), rand(a, b)
//   - index(), length() - position of the current target and target count
//   - num() - numeric part of a value
//   - width(), height(), x(), y() - element measurements
//   - url() - resolved by the host unless data: or https:
//
// # Evaluation
//
// Resolve returns a node unchanged when it is constant, and computes it
// otherwise. A nil result without error means the value is unresolvable (a
// missing variable, division by zero) and should not be applied; errors are
// reserved for faults: ErrTypeMismatch, ErrArity, ErrNoCSS and
// UnknownUnitsError.
//
// With normalization requested, numeric values are converted to canonical
// units: px for lengths, rad for angles, ms for times. Percentages resolve
// against the current element side selected by the Scope dimension. Absolute
// length units (cm, in, pt, pc) cannot be converted.
//
// # Usage
//
//	ev := expr.NewEvaluator(logger, true)
//	node := expr.NewCalcSum(expr.NewPercent(50), expr.NewLength(20, "px"), '+')
//	css, ok, err := ev.Evaluate(node, ctx, expr.DimWidth)
package expr
