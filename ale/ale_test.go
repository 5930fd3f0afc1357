package ale

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func eval(t *testing.T, expr string, cb Callback) (float64, error) {
	t.Helper()
	return Evaluate([]rune(expr), cb)
}

func TestLeadingUnaryPlusChain(t *testing.T) {
	v, err := eval(t, "+1+1", nil)
	require.NoError(t, err)
	require.Equal(t, 2.0, v)
}

func TestLeadingUnaryMinusChainFoldsOddCountNegative(t *testing.T) {
	v, err := eval(t, "---1", nil)
	require.NoError(t, err)
	require.Equal(t, -1.0, v)
}

func TestIntegerExponent(t *testing.T) {
	v, err := eval(t, "2^8", nil)
	require.NoError(t, err)
	require.Equal(t, 256.0, v)
}

func TestNestedParensAndExponentAndDivision(t *testing.T) {
	v, err := eval(t, "((1+2)^(1+2))/2", nil)
	require.NoError(t, err)
	require.Equal(t, 13.5, v)
}

func TestFullPrecedenceChainWithEqualityAndAnd(t *testing.T) {
	v, err := eval(t, "5+2*4-8/2==9 && 1", nil)
	require.NoError(t, err)
	require.Equal(t, 1.0, v)
}

func TestBarewordInArithmeticFails(t *testing.T) {
	_, err := eval(t, "a+2", nil)
	require.Error(t, err)
}

func TestDivideByZeroFails(t *testing.T) {
	_, err := eval(t, "8/0", nil)
	require.Error(t, err)
	var divErr *ErrDivideByZero
	require.ErrorAs(t, err, &divErr)
}

func TestZeroToTheZeroIsOne(t *testing.T) {
	v, err := eval(t, "0^0", nil)
	require.NoError(t, err)
	require.Equal(t, 1.0, v)
}

func TestNonIntegralExponentWithMagnitudeOverOneFails(t *testing.T) {
	_, err := eval(t, "2^1.5", nil)
	require.Error(t, err)
	var expErr *ErrBadExponent
	require.ErrorAs(t, err, &expErr)
}

func TestAndOrTreatOnlyStrictlyPositiveAsTrue(t *testing.T) {
	v, err := eval(t, "-1 && 1", nil)
	require.NoError(t, err)
	require.Equal(t, 0.0, v, "non-positive operand must be treated as false")
}

// numberVarCallback resolves "{eq}" recursively through another Evaluate
// call, demonstrating that nested variable expansion lives entirely in the
// host Callback and needs no special parser support.
type numberVarCallback struct {
	vars map[string]float64
	subs map[string]string
}

func (c numberVarCallback) ResolveName(name []rune) (float64, bool) {
	n := string(name)
	if v, ok := c.vars[n]; ok {
		return v, true
	}
	if expr, ok := c.subs[n]; ok {
		v, err := Evaluate([]rune(expr), c)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	return 0, false
}

func (c numberVarCallback) Compare([]rune, Number, Number, bool, bool) (bool, bool) {
	return false, false
}

func TestNestedNameResolutionViaCallback(t *testing.T) {
	cb := numberVarCallback{
		vars: map[string]float64{"one": 1},
		subs: map[string]string{"eq": "(8+1+{one})"},
	}
	v, err := eval(t, "{eq}", cb)
	require.NoError(t, err)
	require.Equal(t, 10.0, v)
}

// stringVarCallback resolves `{name}` to a string value and compares it
// byte-for-byte against a bareword literal on the other side, matching the
// original's "== is string equality for non-numeric sides" behavior.
type stringVarCallback struct {
	strings map[string]string
}

func (c stringVarCallback) ResolveName([]rune) (float64, bool) { return 0, false }

func (c stringVarCallback) Compare(content []rune, left, right Number, leftEval, rightEval bool) (bool, bool) {
	resolve := func(n Number, evaluated bool) (string, bool) {
		if evaluated {
			return "", false
		}
		text := string(content[n.Offset : n.Offset+n.Length])
		if len(text) >= 2 && text[0] == '{' && text[len(text)-1] == '}' {
			v, ok := c.strings[text[1:len(text)-1]]
			return v, ok
		}
		return text, true
	}
	l, ok1 := resolve(left, leftEval)
	r, ok2 := resolve(right, rightEval)
	if !ok1 || !ok2 {
		return false, false
	}
	return l == r, true
}

func TestStringEqualityThroughCallback(t *testing.T) {
	cb := stringVarCallback{strings: map[string]string{"name": "Qentem"}}
	v, err := eval(t, "{name} == Qentem", cb)
	require.NoError(t, err)
	require.Equal(t, 1.0, v)
}

func TestUnknownNameWithNoCallbackFails(t *testing.T) {
	_, err := eval(t, "{missing}", nil)
	require.Error(t, err)
	var unresolved *ErrUnresolved
	require.ErrorAs(t, err, &unresolved)
}
