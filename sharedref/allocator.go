package sharedref

import "errors"

// ErrCounterAllocation is the sentinel error for failed counter cell
// allocation. Constructors wrap allocator failures with it; check with
// errors.Is.
var ErrCounterAllocation = errors.New("counter allocation failed")

// ErrNilPayload is returned by constructors when the payload pointer is nil.
var ErrNilPayload = errors.New("payload must not be nil")

// Allocator provides storage for reference counter cells. The alloc
// subpackage ships pooled, budget-bounded, and off-heap implementations;
// the default allocates ordinary Go heap cells and never fails.
type Allocator interface {
	// AllocCounter returns zeroed storage for one reference counter.
	AllocCounter() (*uint32, error)

	// FreeCounter gives counter storage back. It is called exactly once per
	// successful AllocCounter, always after the group's payload reference has
	// been dropped. Failures are the implementation's concern to report;
	// release paths have no error channel.
	FreeCounter(counter *uint32)
}

// heapAllocator is the zero-configuration default. Cells live on the Go heap
// and are reclaimed by the collector once the last handle lets go.
type heapAllocator struct{}

var defaultAllocator Allocator = heapAllocator{}

// NewHeapAllocator returns the default Go heap allocator. It is the base
// layer for wrapping allocators such as alloc.NewBounded.
func NewHeapAllocator() Allocator {
	return heapAllocator{}
}

func (heapAllocator) AllocCounter() (*uint32, error) {
	return new(uint32), nil
}

func (heapAllocator) FreeCounter(_ *uint32) {}
