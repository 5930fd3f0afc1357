package container

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArrayPushGrowsAndPreservesOrder(t *testing.T) {
	h := newTestHandle(t)
	a := NewArray[int, Double](h)

	for i := 0; i < 100; i++ {
		a.Push(i)
	}
	require.Equal(t, 100, a.Len())
	require.GreaterOrEqual(t, a.Cap(), 100)
	for i := 0; i < 100; i++ {
		require.Equal(t, i, *a.At(i))
	}
}

func TestArrayPopBackReturnsLastAndShrinksLen(t *testing.T) {
	h := newTestHandle(t)
	a := NewArray[string, Double](h)
	a.Push("x")
	a.Push("y")

	v, ok := a.PopBack()
	require.True(t, ok)
	require.Equal(t, "y", v)
	require.Equal(t, 1, a.Len())

	_, _ = a.PopBack()
	_, ok = a.PopBack()
	require.False(t, ok)
}

func TestArrayCompressNeverMovesSurvivingElements(t *testing.T) {
	h := newTestHandle(t)
	a := NewArray[int64, Triple](h)
	for i := 0; i < 10; i++ {
		a.Push(int64(i))
	}
	for i := 0; i < 7; i++ {
		_, _ = a.PopBack()
	}
	require.Equal(t, 3, a.Len())

	a.Compress()
	for i := 0; i < 3; i++ {
		require.Equal(t, int64(i), *a.At(i))
	}
}

func TestArrayDistinctGrowthPoliciesAreDistinctTypes(t *testing.T) {
	h := newTestHandle(t)
	d := NewArray[int, Double](h)
	tr := NewArray[int, Triple](h)
	d.Push(1)
	tr.Push(1)
	require.Equal(t, 1, d.Len())
	require.Equal(t, 1, tr.Len())
}
