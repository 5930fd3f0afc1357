package ale

// Callback is the host interface the evaluator defers variable resolution
// and equality to. Both methods signal "could not resolve" by returning
// ok == false. A ResolveName miss leaves the operand unresolved (Compare
// may still match it); Evaluate returns an *ErrUnresolved when an
// unresolved operand is used numerically or Compare reports ok == false.
type Callback interface {
	// ResolveName is given the identifier inside a `{name}` lookup (braces
	// already stripped) and returns its numeric value, if it has one.
	ResolveName(name []rune) (value float64, ok bool)

	// Compare implements == and != when at least one side didn't resolve
	// to a number. content is the full source the evaluator was given;
	// left and right are Number values carrying either an evaluated f64
	// or an (Offset, Length) range into content — for a `{name}` side that
	// range spans the full `{name}` token including braces, so Compare can
	// tell a name lookup (content[Offset] == '{') from a bare literal and
	// resolve it the same way ResolveName would.
	Compare(content []rune, left, right Number, leftEvaluated, rightEvaluated bool) (equal bool, ok bool)
}
