package alloc

import (
	"context"
	"fmt"
	"sync"
	"unsafe"

	"modernc.org/memory"

	"github.com/LerianStudio/lib-sharedref/sharedref"
	"github.com/LerianStudio/lib-sharedref/sharedref/log"
)

const counterSize = int(unsafe.Sizeof(uint32(0)))

// Manual places counter cells in memory managed outside the Go heap, so both
// allocation and free are real, fallible operations. It exists for processes
// that account group overhead against an explicit memory region rather than
// the garbage collector, and for exercising counter allocation failure
// end to end.
//
// Free failures have nowhere to surface on release paths, so Manual reports
// them through its logger and moves on.
type Manual struct {
	mu        sync.Mutex
	allocator memory.Allocator
	cells     map[*uint32][]byte
	logger    log.Logger
}

var _ sharedref.Allocator = (*Manual)(nil)

// NewManual returns an empty off-heap allocator. Call Close when done with
// it to return every outstanding region to the operating system.
func NewManual() *Manual {
	return &Manual{
		cells:  make(map[*uint32][]byte),
		logger: log.NewNop(),
	}
}

// SetLogger sets the logger used for free failures and foreign-pointer
// reports. Passing nil restores the no-op logger.
func (m *Manual) SetLogger(logger log.Logger) {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if logger == nil {
		logger = log.NewNop()
	}

	m.logger = logger
}

// AllocCounter carves one zeroed cell out of off-heap memory.
func (m *Manual) AllocCounter() (*uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	block, err := m.allocator.Calloc(counterSize)
	if err != nil {
		return nil, fmt.Errorf("off-heap calloc: %w", err)
	}

	counter := (*uint32)(unsafe.Pointer(&block[0]))
	m.cells[counter] = block

	return counter, nil
}

// FreeCounter returns a cell's backing block. Pointers this allocator did
// not hand out are reported and ignored.
func (m *Manual) FreeCounter(counter *uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	block, ok := m.cells[counter]
	if !ok {
		m.logger.Log(context.Background(), log.LevelWarn, "free of unknown counter cell")

		return
	}

	delete(m.cells, counter)

	if err := m.allocator.Free(block); err != nil {
		m.logger.Log(context.Background(), log.LevelWarn, "counter cell free failed", log.Err(err))
	}
}

// Live returns the number of outstanding cells.
func (m *Manual) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.cells)
}

// Close releases every outstanding region back to the operating system.
// Counter cells still referenced by live groups become invalid; tear the
// groups down first.
func (m *Manual) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cells = make(map[*uint32][]byte)

	if err := m.allocator.Close(); err != nil {
		return fmt.Errorf("close off-heap allocator: %w", err)
	}

	return nil
}
