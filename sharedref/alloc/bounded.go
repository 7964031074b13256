package alloc

import (
	"errors"
	"fmt"
	"sync"

	"github.com/LerianStudio/lib-sharedref/sharedref"
)

// ErrBudgetExhausted is returned by Bounded.AllocCounter when every budgeted
// cell is in use. Constructors surface it wrapped in
// sharedref.ErrCounterAllocation; check either sentinel with errors.Is.
var ErrBudgetExhausted = errors.New("counter budget exhausted")

// Bounded caps the number of live counter cells drawn from an underlying
// allocator. It turns group construction into a deterministic admission
// point: once limit groups are alive, New fails until one is torn down.
type Bounded struct {
	base  sharedref.Allocator
	limit int

	mu    sync.Mutex
	inUse int
}

var _ sharedref.Allocator = (*Bounded)(nil)

// NewBounded wraps base with a budget of limit live cells. A nil base means
// the default heap allocator; a negative limit is treated as zero.
//
// Example:
//
//	budget := alloc.NewBounded(nil, 1024)
//	ref, err := sharedref.New(&value, sharedref.WithAllocator(budget))
//	if errors.Is(err, alloc.ErrBudgetExhausted) {
//	    // shed load, too many live groups
//	}
func NewBounded(base sharedref.Allocator, limit int) *Bounded {
	if base == nil {
		base = sharedref.NewHeapAllocator()
	}

	if limit < 0 {
		limit = 0
	}

	return &Bounded{base: base, limit: limit}
}

// AllocCounter draws a cell from the underlying allocator if the budget
// allows it.
func (b *Bounded) AllocCounter() (*uint32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.inUse >= b.limit {
		return nil, fmt.Errorf("%w: %d of %d cells in use", ErrBudgetExhausted, b.inUse, b.limit)
	}

	counter, err := b.base.AllocCounter()
	if err != nil {
		return nil, err
	}

	b.inUse++

	return counter, nil
}

// FreeCounter returns a cell to the underlying allocator and releases its
// budget slot.
func (b *Bounded) FreeCounter(counter *uint32) {
	if counter == nil {
		return
	}

	b.mu.Lock()
	if b.inUse > 0 {
		b.inUse--
	}
	b.mu.Unlock()

	b.base.FreeCounter(counter)
}

// InUse returns the number of budget slots currently held by live groups.
func (b *Bounded) InUse() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.inUse
}

// Limit returns the budget.
func (b *Bounded) Limit() int {
	return b.limit
}
