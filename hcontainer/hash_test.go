package hcontainer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringHasherSatisfiesOrderAndZeroRules(t *testing.T) {
	var h StringHasher
	require.NotZero(t, h.Hash(""))
	require.NotEqual(t, h.Hash("1"), h.Hash("0"))
	require.NotEqual(t, h.Hash("10"), h.Hash("01"))
	require.NotEqual(t, h.Hash("abc"), h.Hash("cba"))
}

func TestUint64HasherRemapsZero(t *testing.T) {
	var h Uint64Hasher
	require.NotZero(t, h.Hash(0))
	require.Equal(t, uint64(5), h.Hash(5))
}
