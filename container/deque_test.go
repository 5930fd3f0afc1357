package container

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDequeCapacityIsAlwaysPowerOfTwo(t *testing.T) {
	h := newTestHandle(t)
	d := NewDeque[int, Double](h)
	for i := 0; i < 37; i++ {
		d.PushBack(i)
		require.LessOrEqual(t, d.Len(), d.Cap())
		require.Zero(t, d.Cap()&(d.Cap()-1), "Cap must be a power of two")
	}
}

func TestDequePushFrontAndBackOrdering(t *testing.T) {
	h := newTestHandle(t)
	d := NewDeque[int, Double](h)
	d.PushBack(2)
	d.PushFront(1)
	d.PushBack(3)

	for i, want := range []int{1, 2, 3} {
		got, ok := d.Get(i)
		require.True(t, ok)
		require.Equal(t, want, *got)
	}
}

func TestDequeAbsoluteIndexSurvivesPopFrontAndGrowth(t *testing.T) {
	h := newTestHandle(t)
	d := NewDeque[string, Double](h)

	for i := 0; i < 5; i++ {
		d.PushBack("filler")
	}
	abs := d.NextAbsoluteIndex()
	d.PushBack("keep")
	for i := 0; i < 40; i++ {
		d.PushBack("more-filler") // forces several growths
	}

	for i := 0; i < 5; i++ {
		_, ok := d.PopFront()
		require.True(t, ok)
	}

	v, ok := d.GetAbsolute(abs)
	require.True(t, ok)
	require.Equal(t, "keep", *v)
}

func TestDequePoppedAbsoluteIndexIsGone(t *testing.T) {
	h := newTestHandle(t)
	d := NewDeque[int, Double](h)
	abs := d.NextAbsoluteIndex()
	d.PushBack(42)

	_, ok := d.PopFront()
	require.True(t, ok)

	_, ok = d.GetAbsolute(abs)
	require.False(t, ok)
}

func TestDequePopBackAndFrontOnEmptyFail(t *testing.T) {
	h := newTestHandle(t)
	d := NewDeque[int, Double](h)
	_, ok := d.PopFront()
	require.False(t, ok)
	_, ok = d.PopBack()
	require.False(t, ok)
}
