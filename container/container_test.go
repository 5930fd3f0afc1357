package container

import (
	"testing"

	"github.com/stretchr/testify/require"

	"qentem/reserver"
)

func newTestHandle(t *testing.T) *reserver.Handle {
	t.Helper()
	r, err := reserver.New(reserver.WithBlockSize(4096), reserver.WithCoreCount(1))
	require.NoError(t, err)
	t.Cleanup(r.ResetAll)
	return r.AcquireCore(0)
}
