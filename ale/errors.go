package ale

import "fmt"

// ErrMalformed reports a syntax error: a stray bracket, an invalid
// operator, or a dangling token.
type ErrMalformed struct {
	At int
}

func (e *ErrMalformed) Error() string {
	return fmt.Sprintf("ale: malformed expression at offset %d", e.At)
}

// ErrUnresolved reports that a `{name}` lookup, a bareword literal in a
// numeric context, or an equality comparison could not be resolved by the
// Callback (or no Callback was supplied).
type ErrUnresolved struct {
	Offset int
	Length int
}

func (e *ErrUnresolved) Error() string {
	return fmt.Sprintf("ale: unresolved token at offset %d length %d", e.Offset, e.Length)
}

// ErrDivideByZero reports a `/` or `%` with a zero right-hand operand.
type ErrDivideByZero struct{}

func (e *ErrDivideByZero) Error() string { return "ale: division by zero" }

// ErrBadExponent reports a `^` whose right-hand operand is non-integral
// with magnitude >= 1.
type ErrBadExponent struct {
	Exponent float64
}

func (e *ErrBadExponent) Error() string {
	return fmt.Sprintf("ale: bad exponent %v", e.Exponent)
}
