package sharedref

import (
	"context"
	"errors"
	"fmt"

	"github.com/LerianStudio/lib-sharedref/sharedref/log"
)

// ErrFinalizerPanic is returned by Scope.Close when a finalizer panics during
// teardown. The panic value is carried in the error message; the owning
// group is still fully dismantled.
var ErrFinalizerPanic = errors.New("sharedref: finalizer panic recovered")

// Releasable is the handle surface Scope manages. Every Ref instantiation
// satisfies it; other owned resources may implement it to join a scope's
// teardown.
type Releasable interface {
	Release()
}

// Scope releases a frame's handles in reverse registration order. It exists
// for functions that own several handles at once: register each with Own,
// defer a single Close, and every handle is released on all exit paths,
// including panics unwinding through the frame.
//
// Example:
//
//	scope := sharedref.NewScope()
//	defer scope.Close(ctx)
//
//	first, err := sharedref.New(&a)
//	if err != nil {
//	    return err
//	}
//	scope.Own(first)
//
//	second := first.Share()
//	scope.Own(second)
//
// A Scope is not safe for concurrent use, matching the handles it manages.
type Scope struct {
	owned  []Releasable
	closed bool
	logger log.Logger
}

// NewScope returns an empty scope.
func NewScope() *Scope {
	return &Scope{}
}

// SetLogger sets an optional logger for teardown observability. When set,
// finalizer panics recovered during Close are logged before being folded
// into the returned error, which matters for the common deferred Close whose
// return value nobody reads.
func (s *Scope) SetLogger(logger log.Logger) {
	if s == nil {
		return
	}

	s.logger = logger
}

// Own registers a handle for release when the scope closes. Registration
// order is acquisition order; Close walks it backwards.
//
// Panics if the scope is already closed: a late registration would never be
// released.
func (s *Scope) Own(handle Releasable) {
	if s.closed {
		panic("sharedref: Own on closed scope")
	}

	if handle == nil {
		return
	}

	s.owned = append(s.owned, handle)
}

// Owned returns the number of handles currently registered.
func (s *Scope) Owned() int {
	if s == nil {
		return 0
	}

	return len(s.owned)
}

// Close releases every owned handle in reverse registration order. A
// finalizer panic is recovered, logged, and converted into an error wrapping
// ErrFinalizerPanic so the remaining handles are still released; Close
// returns all such errors joined. Close is idempotent.
func (s *Scope) Close(ctx context.Context) error {
	if s == nil || s.closed {
		return nil
	}

	s.closed = true

	var errs []error

	for i := len(s.owned) - 1; i >= 0; i-- {
		if err := s.releaseOwned(ctx, s.owned[i]); err != nil {
			errs = append(errs, err)
		}
	}

	s.owned = nil

	return errors.Join(errs...)
}

func (s *Scope) releaseOwned(ctx context.Context, handle Releasable) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("%w: %v", ErrFinalizerPanic, recovered)

			if s.logger != nil {
				s.logger.Log(ctx, log.LevelError, "finalizer panicked during scope teardown", log.Err(err))
			}
		}
	}()

	handle.Release()

	return nil
}
