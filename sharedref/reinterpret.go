package sharedref

import "unsafe"

// UnsafePointer returns the shared payload as an untyped pointer. It exists
// for interop with code that erases payload types (cgo handles, binary
// codecs); prefer Value wherever the payload type is in scope.
//
// Panics if the receiver has already been released.
func (r *Ref[T]) UnsafePointer() unsafe.Pointer {
	return unsafe.Pointer(r.live("UnsafePointer").payload)
}

// As reinterprets the shared payload of ref as a U. No layout check of any
// kind is performed: if U and T do not share size and layout, the returned
// pointer misreads memory. The group still owns the payload; the returned
// pointer must not outlive the group.
//
// Example:
//
//	type wire struct{ a, b uint32 }
//	type pair struct{ lo, hi uint32 }
//
//	w := ref.Value()     // *wire
//	p := sharedref.As[pair](ref)
//	_ = w.a == p.lo      // same bytes
//
// Panics if ref has already been released.
func As[U, T any](ref *Ref[T]) *U {
	return (*U)(ref.UnsafePointer())
}
