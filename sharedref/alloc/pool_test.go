//go:build unit

package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LerianStudio/lib-sharedref/sharedref"
)

func TestPoolAllocReturnsZeroedCells(t *testing.T) {
	t.Parallel()

	pool := NewPool()

	counter, err := pool.AllocCounter()
	require.NoError(t, err)
	require.NotNil(t, counter)
	assert.Zero(t, *counter)

	// Dirty the cell, recycle it, and make sure the next owner never sees
	// the stale count.
	*counter = 41
	pool.FreeCounter(counter)

	recycled, err := pool.AllocCounter()
	require.NoError(t, err)
	assert.Zero(t, *recycled)
}

func TestPoolFreeNilIsIgnored(t *testing.T) {
	t.Parallel()

	pool := NewPool()

	assert.NotPanics(t, func() {
		pool.FreeCounter(nil)
	})
}

func TestPoolBacksGroupLifecycle(t *testing.T) {
	t.Parallel()

	pool := NewPool()
	finalized := 0

	value := struct{ n int }{n: 1}

	ref, err := sharedref.NewWithFinalizer(&value, func(_ *struct{ n int }) {
		finalized++
	}, sharedref.WithAllocator(pool))
	require.NoError(t, err)

	shared := ref.Share()
	assert.EqualValues(t, 2, shared.UseCount())

	shared.Release()
	ref.Release()

	assert.Equal(t, 1, finalized)
}
