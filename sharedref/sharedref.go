package sharedref

import (
	"fmt"
	"reflect"
)

// Finalizer runs against the payload once, when the last handle of a group is
// released. The payload reference is still live for the duration of the call
// and is dropped immediately after it returns.
type Finalizer[T any] func(payload *T)

// Ref is a single handle on a group of owners sharing one payload. Handles
// are created by New, NewWithFinalizer, and Share, and retired by Release.
// Each handle is owned by exactly one scope; hand a copy to another scope via
// Share (the count grows) or Steal (ownership moves), never by copying the
// struct.
//
// The zero value is a released handle to no group; it is not useful.
type Ref[T any] struct {
	cell *cell[T]
}

// cell is the group state every handle of one group points at. The counter
// lives in separately allocated storage so its lifetime is controlled by the
// group's Allocator rather than by the handles.
type cell[T any] struct {
	count     *uint32
	payload   *T
	finalizer Finalizer[T]
	allocator Allocator
	tracker   Tracker
	trackID   string
}

// New creates a group owning payload and returns its first handle. The
// group's counter cell is drawn from the configured Allocator (Go heap by
// default). On allocator failure the returned error wraps
// ErrCounterAllocation and the payload remains solely the caller's.
//
// Example:
//
//	ref, err := sharedref.New(&session)
//	if err != nil {
//	    return fmt.Errorf("share session: %w", err)
//	}
//	defer ref.Release()
func New[T any](payload *T, opts ...Option) (*Ref[T], error) {
	return NewWithFinalizer(payload, nil, opts...)
}

// NewWithFinalizer creates a group owning payload and returns its first
// handle. finalizer, if non-nil, runs exactly once, during the Release that
// retires the last handle. A nil finalizer means the payload needs no
// teardown beyond dropping the reference.
//
// Example:
//
//	ref, err := sharedref.NewWithFinalizer(conn, func(c *Conn) { c.Close() })
//	if err != nil {
//	    return fmt.Errorf("share conn: %w", err)
//	}
//	defer ref.Release()
func NewWithFinalizer[T any](payload *T, finalizer Finalizer[T], opts ...Option) (*Ref[T], error) {
	if payload == nil {
		return nil, ErrNilPayload
	}

	built := buildOptions(opts)

	count, err := built.allocator.AllocCounter()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCounterAllocation, err)
	}

	*count = 1

	group := &cell[T]{
		count:     count,
		payload:   payload,
		finalizer: finalizer,
		allocator: built.allocator,
	}

	if tracker := CurrentTracker(); tracker != nil {
		group.tracker = tracker
		group.trackID = tracker.TrackConstruct(typeName[T]())
	}

	return &Ref[T]{cell: group}, nil
}

// Share mints a new handle on the receiver's group and bumps the owner count
// by one. Share never allocates through the group's Allocator and cannot
// fail. The two handles are not interchangeable: each must be released on
// its own.
//
// Panics if the receiver has already been released.
func (r *Ref[T]) Share() *Ref[T] {
	group := r.live("Share")
	*group.count++

	return &Ref[T]{cell: group}
}

// Release retires the handle. The Release that brings the owner count to
// zero runs the finalizer against the payload, drops the payload reference,
// and gives the counter cell back to the allocator, in that order; the two
// deallocations happen even if the finalizer panics (the panic then resumes
// in the caller).
//
// Release is idempotent per handle: a second call on the same handle is a
// no-op, so a deferred Release composes with an early manual one. Releasing
// a struct copy of an already-released handle is a double release on the
// group and panics.
func (r *Ref[T]) Release() {
	if r == nil || r.cell == nil {
		return
	}

	group := r.cell
	r.cell = nil
	group.release()
}

// Value returns the shared payload. The pointer stays valid until the last
// handle of the group is released.
//
// Panics if the receiver has already been released.
func (r *Ref[T]) Value() *T {
	return r.live("Value").payload
}

// UseCount returns the group's current owner count, or 0 for a released
// handle. It is a point-in-time reading for diagnostics and tests.
func (r *Ref[T]) UseCount() uint32 {
	if r == nil || r.cell == nil || r.cell.count == nil {
		return 0
	}

	return *r.cell.count
}

// IsValid reports whether the handle can be dereferenced, i.e. Value will
// return without panicking. It may be called on a nil handle.
func (r *Ref[T]) IsValid() bool {
	return r != nil && r.cell != nil && r.cell.count != nil
}

// Steal moves ownership out of the receiver: the receiver becomes released
// and the returned handle takes its place in the group, with the owner count
// unchanged. Useful for handing a handle to a struct field or another scope
// while making further use of the original a detectable bug.
//
// Panics if the receiver has already been released.
func (r *Ref[T]) Steal() *Ref[T] {
	group := r.live("Steal")
	r.cell = nil

	return &Ref[T]{cell: group}
}

// live returns the group behind a usable handle, panicking with the
// operation name otherwise. Handle released and group freed are reported
// separately; the latter only occurs through struct copies of released
// handles, which the contract forbids.
func (r *Ref[T]) live(op string) *cell[T] {
	if r == nil || r.cell == nil {
		panic("sharedref: " + op + " on released ref")
	}

	if r.cell.count == nil {
		panic("sharedref: " + op + " on freed group")
	}

	return r.cell
}

func (c *cell[T]) release() {
	if c.count == nil || *c.count == 0 {
		panic("sharedref: release of freed group")
	}

	*c.count--
	if *c.count > 0 {
		return
	}

	defer c.teardown()

	if c.finalizer != nil {
		c.finalizer(c.payload)
	}
}

// teardown drops the payload reference, then frees the counter cell. It is
// deferred from release so the group is dismantled even when the finalizer
// panics.
func (c *cell[T]) teardown() {
	count := c.count
	c.payload = nil
	c.finalizer = nil
	c.count = nil
	c.allocator.FreeCounter(count)

	if c.tracker != nil && c.trackID != "" {
		c.tracker.TrackFinalize(c.trackID)
	}
}

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}
