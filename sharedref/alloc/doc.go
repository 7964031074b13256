// Package alloc provides counter cell allocators for sharedref groups.
//
// Pool recycles cells through a sync.Pool, Bounded enforces a fixed cell
// budget on top of any allocator, and Manual places cells in off-Go-heap
// memory where both allocation and free can genuinely fail. All three are
// safe for concurrent use; they back independent groups from many
// goroutines even though each group itself stays single-goroutine.
package alloc
