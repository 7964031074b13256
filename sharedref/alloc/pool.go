package alloc

import (
	"sync"

	"github.com/LerianStudio/lib-sharedref/sharedref"
)

// Pool recycles counter cells through a sync.Pool. Allocation never fails;
// cells retired by dead groups are reused for new ones, which keeps
// counter churn off the garbage collector in group-heavy workloads.
//
// Reuse sharpens the usual contract: a struct copy of a released handle may
// observe its old counter cell serving a brand-new group. Copies of released
// handles are already forbidden; with Pool the mistake corrupts another
// group instead of panicking.
type Pool struct {
	pool sync.Pool
}

var _ sharedref.Allocator = (*Pool)(nil)

// NewPool returns an empty pool.
//
// Example:
//
//	pool := alloc.NewPool()
//	ref, err := sharedref.New(&value, sharedref.WithAllocator(pool))
func NewPool() *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any { return new(uint32) },
		},
	}
}

// AllocCounter returns a zeroed cell, recycled when one is available.
func (p *Pool) AllocCounter() (*uint32, error) {
	counter, ok := p.pool.Get().(*uint32)
	if !ok {
		counter = new(uint32)
	}

	*counter = 0

	return counter, nil
}

// FreeCounter returns a cell to the pool for reuse.
func (p *Pool) FreeCounter(counter *uint32) {
	if counter == nil {
		return
	}

	p.pool.Put(counter)
}
