package hcontainer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHArrayStringKeyedRoundTrip(t *testing.T) {
	a := NewHArray[int](newTestHandle(t))
	a.Set("x", 10)
	a.Set("y", 20)

	v, ok := a.Get("x")
	require.True(t, ok)
	require.Equal(t, 10, v)
	require.Equal(t, 2, a.Len())
}

func TestHListAssignsIncreasingIdentityKeys(t *testing.T) {
	l := NewHList[string](newTestHandle(t))
	id1 := l.Add("first")
	id2 := l.Add("second")
	require.Less(t, id1, id2)

	v, ok := l.Get(id1)
	require.True(t, ok)
	require.Equal(t, "first", v)
}
