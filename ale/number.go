// Package ale implements the iterative operator-precedence arithmetic and
// logic expression evaluator, with variable resolution and equality
// deferred to a host-supplied Callback.
package ale

// Number is the evaluator's operand: either an already-resolved f64, or an
// unresolved (Offset, Length) range into the source that a Callback may
// still be able to compare as a string (a bareword literal, or a `{name}`
// lookup that didn't resolve to a number).
type Number struct {
	Evaluated bool
	Value     float64
	Offset    int
	Length    int
}
