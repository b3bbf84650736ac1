package ptr

import (
	"github.com/wippyai/ownership/errors"
)

// Unique exclusively owns one allocation of T.
//
// The zero value is an empty owner whose release action is DefaultRelease.
// A Unique cannot be duplicated: ownership changes hands only through Move
// and MoveFrom. Handles must not be copied by value.
type Unique[T any] struct {
	_       noCopy
	raw     *T
	release ReleaseFunc[T]
	track   tracking
}

// NewUnique takes ownership of raw, which will be passed to release when
// ownership ends. A nil release means DefaultRelease.
//
// raw must be freshly allocated and not owned by any other handle.
func NewUnique[T any](raw *T, release ReleaseFunc[T], opts ...Option) *Unique[T] {
	u := &Unique[T]{
		raw:     raw,
		release: release,
		track:   newTracking(raw, opts),
	}
	trace("unique constructed with release action", &u.track, 1)
	return u
}

// MakeUnique allocates a new T holding v and owns it with DefaultRelease.
func MakeUnique[T any](v T, opts ...Option) *Unique[T] {
	raw := new(T)
	*raw = v
	u := &Unique[T]{
		raw:   raw,
		track: newTracking(raw, opts),
	}
	trace("unique constructed", &u.track, 1)
	return u
}

// MakeUniqueFunc allocates a zero T, lets init construct it in place and owns
// the result with DefaultRelease. If init fails the allocation is discarded
// without running any release action.
func MakeUniqueFunc[T any](init func(*T) error, opts ...Option) (*Unique[T], error) {
	raw := new(T)
	if err := init(raw); err != nil {
		return nil, errors.Construction(typeName[T](), err)
	}
	u := &Unique[T]{
		raw:   raw,
		track: newTracking(raw, opts),
	}
	trace("unique constructed", &u.track, 1)
	return u, nil
}

// Get returns the owned pointer, or nil if u is empty. Ownership is unchanged.
func (u *Unique[T]) Get() *T {
	return u.raw
}

// Deref returns the owned value for access and mutation.
// u must not be empty.
func (u *Unique[T]) Deref() *T {
	return u.raw
}

// Empty reports whether u owns nothing.
func (u *Unique[T]) Empty() bool {
	return u.raw == nil
}

// Move transfers ownership and the release action to a new handle.
// u is left empty; no release action runs.
func (u *Unique[T]) Move() *Unique[T] {
	dst := &Unique[T]{
		raw:     u.raw,
		release: u.release,
		track:   u.track,
	}
	u.raw = nil
	u.release = nil
	u.track.handle = 0
	if dst.raw != nil {
		dst.track.moved()
		trace("unique moved", &dst.track, 1)
	}
	return dst
}

// MoveFrom releases the value u currently owns through u's release action and
// then takes ownership from src, leaving src empty. Moving a handle into
// itself does nothing.
func (u *Unique[T]) MoveFrom(src *Unique[T]) {
	if u == src {
		return
	}
	u.Release()
	u.raw = src.raw
	u.release = src.release
	u.track = src.track
	src.raw = nil
	src.release = nil
	src.track.handle = 0
	if u.raw != nil {
		u.track.moved()
		trace("unique move assigned", &u.track, 1)
	}
}

// Release ends ownership: if u is not empty the release action runs exactly
// once with the owned pointer and u becomes empty. Releasing an empty handle
// does nothing, so Release can be deferred and still called early.
func (u *Unique[T]) Release() {
	raw := u.raw
	if raw == nil {
		return
	}
	release := u.release.orDefault()
	u.raw = nil
	u.release = nil
	release(raw)
	trace("unique released", &u.track, 0)
	u.track.remove()
}

// Detach gives up ownership without running the release action and returns
// the pointer. The caller becomes responsible for it.
func (u *Unique[T]) Detach() *T {
	raw := u.raw
	u.raw = nil
	u.release = nil
	if raw != nil {
		trace("unique detached", &u.track, 0)
		u.track.remove()
	}
	return raw
}
