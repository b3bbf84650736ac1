package ptr

import (
	"github.com/wippyai/ownership/errors"
)

// control is the state shared by every handle aliasing one allocation.
type control[T any] struct {
	raw     *T
	release ReleaseFunc[T]
	track   tracking
	count   int
}

// Shared owns one allocation of T jointly with the other handles cloned from it.
//
// The zero value is an empty handle. Sharing is established only by Clone and
// Assign; a Shared has no move operation and must not be copied by value.
// The reference count is not synchronized: aliasing handles must stay on one
// goroutine or be guarded by the caller.
type Shared[T any] struct {
	_    noCopy
	ctrl *control[T]
}

// NewShared takes shared ownership of raw with a count of one. release runs
// when the last handle lets go; nil means DefaultRelease.
//
// raw must be freshly allocated and not owned by any other handle.
func NewShared[T any](raw *T, release ReleaseFunc[T], opts ...Option) *Shared[T] {
	s := &Shared[T]{ctrl: &control[T]{
		raw:     raw,
		release: release,
		track:   newTracking(raw, opts),
		count:   1,
	}}
	trace("shared constructed with release action", &s.ctrl.track, 1)
	return s
}

// MakeShared allocates a new T holding v and shares it with DefaultRelease.
func MakeShared[T any](v T, opts ...Option) *Shared[T] {
	raw := new(T)
	*raw = v
	s := &Shared[T]{ctrl: &control[T]{
		raw:   raw,
		track: newTracking(raw, opts),
		count: 1,
	}}
	trace("shared constructed", &s.ctrl.track, 1)
	return s
}

// MakeSharedFunc allocates a zero T, lets init construct it in place and
// shares the result with DefaultRelease. If init fails the allocation is
// discarded without running any release action.
func MakeSharedFunc[T any](init func(*T) error, opts ...Option) (*Shared[T], error) {
	raw := new(T)
	if err := init(raw); err != nil {
		return nil, errors.Construction(typeName[T](), err)
	}
	s := &Shared[T]{ctrl: &control[T]{
		raw:   raw,
		track: newTracking(raw, opts),
		count: 1,
	}}
	trace("shared constructed", &s.ctrl.track, 1)
	return s, nil
}

// Clone returns a new handle aliasing the same allocation and increments the
// count. Cloning an empty handle yields an empty handle.
func (s *Shared[T]) Clone() *Shared[T] {
	c := s.ctrl
	if c == nil {
		return &Shared[T]{}
	}
	c.count++
	c.track.retain()
	trace("shared copied", &c.track, c.count)
	return &Shared[T]{ctrl: c}
}

// Assign makes s alias the allocation of src. The allocation s held before
// is let go first, and released if s was its last handle, before the new
// count is incremented. Assigning between handles that already alias the
// same allocation, including s to itself, does nothing.
func (s *Shared[T]) Assign(src *Shared[T]) {
	c := src.ctrl
	if s.ctrl == c {
		return
	}
	s.Release()
	if c != nil {
		c.count++
		c.track.retain()
		trace("shared copy assigned", &c.track, c.count)
	}
	s.ctrl = c
}

// Deref returns the shared value; mutations are visible through every alias.
// s must not be empty.
func (s *Shared[T]) Deref() *T {
	return s.ctrl.raw
}

// UseCount returns the number of live handles aliasing the allocation.
// s must not be empty.
func (s *Shared[T]) UseCount() int {
	return s.ctrl.count
}

// Empty reports whether s holds no share.
func (s *Shared[T]) Empty() bool {
	return s.ctrl == nil
}

// Same reports whether s and o alias the same allocation.
func (s *Shared[T]) Same(o *Shared[T]) bool {
	return s.ctrl == o.ctrl
}

// Release lets go of this handle's share. The last handle to let go runs the
// release action exactly once. Releasing an empty handle does nothing.
func (s *Shared[T]) Release() {
	c := s.ctrl
	if c == nil {
		return
	}
	s.ctrl = nil

	n := c.count - 1
	c.count = n
	switch {
	case n > 0:
		c.track.unref()
		trace("shared destructed", &c.track, n)
	case n == 0:
		raw := c.raw
		release := c.release.orDefault()
		c.raw = nil
		c.release = nil
		release(raw)
		trace("all shared destructed", &c.track, 0)
		c.track.remove()
	default:
		panic("ptr: shared count below zero, a handle was copied by value")
	}
}
