// Package sharedref provides manually managed shared ownership of a single
// payload across multiple handles.
//
// A group starts with New or NewWithFinalizer, which allocate a reference
// counter cell through an Allocator and return the first handle. Share mints
// additional handles against the same counter; Release gives one handle back.
// The Release that drops the count to zero runs the group finalizer, drops the
// payload reference, and returns the counter cell to its allocator, in that
// order. Pair every handle with a deferred Release, or register handles with
// a Scope to release a whole frame in reverse acquisition order.
//
// Groups are deliberately not safe for concurrent use: the counter is a plain
// integer and Share/Release perform unsynchronized read-modify-write on it.
// Handles belonging to one group must stay on a single goroutine, or the
// caller must provide external synchronization. Releasing the same handle
// twice is harmless; releasing two copies of one handle, or touching a handle
// whose group is gone, is a caller bug and panics when detected.
package sharedref
