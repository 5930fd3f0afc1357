package platform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindFirstBit(t *testing.T) {
	require.EqualValues(t, 0, FindFirstBit(1<<63))
	require.EqualValues(t, 63, FindFirstBit(1))
	require.EqualValues(t, 32, FindFirstBit(1<<31))
}

func TestFindLastBit(t *testing.T) {
	require.EqualValues(t, 63, FindLastBit(1))
	require.EqualValues(t, 0, FindLastBit(1<<63))
	require.EqualValues(t, 31, FindLastBit(1<<32))
}

func TestPageSizeIsPowerOfTwo(t *testing.T) {
	p := PageSize()
	require.NotZero(t, p)
	require.Zero(t, p&(p-1))
}

func TestCoreCountAtLeastOne(t *testing.T) {
	require.GreaterOrEqual(t, CoreCount(), 1)
}

func TestCurrentCoreIDInRange(t *testing.T) {
	n := CoreCount()
	for i := 0; i < n*3; i++ {
		id := CurrentCoreID()
		require.GreaterOrEqual(t, id, 0)
		require.Less(t, id, n)
	}
}

func TestReserveReleaseRoundTrip(t *testing.T) {
	p, err := Reserve(uintptr(PageSize()))
	require.NoError(t, err)
	require.NotNil(t, p)
	require.NoError(t, Release(p, uintptr(PageSize())))
}
