package ptr

import (
	"io"
	"reflect"

	"go.uber.org/zap"

	"github.com/wippyai/ownership/errors"
	"github.com/wippyai/ownership/resource"
)

// ReleaseFunc is invoked with the owned pointer when ownership ends.
// A nil ReleaseFunc stands for DefaultRelease.
type ReleaseFunc[T any] func(*T)

// DefaultRelease destroys the pointee: values implementing resource.Dropper
// are dropped, values implementing io.Closer are closed, and the pointee is
// then reset to its zero value. The garbage collector reclaims the memory.
func DefaultRelease[T any](p *T) {
	if p == nil {
		return
	}
	if !dispose(any(p)) {
		dispose(any(*p))
	}
	var zero T
	*p = zero
}

func dispose(v any) bool {
	switch d := v.(type) {
	case resource.Dropper:
		if isNil(v) {
			return false
		}
		d.Drop()
		return true
	case io.Closer:
		if isNil(v) {
			return false
		}
		if err := d.Close(); err != nil {
			Logger().Warn("close failed during release",
				zap.Error(errors.CloseFailed(reflect.TypeOf(v).String(), err)))
		}
		return true
	}
	return false
}

func isNil(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func (f ReleaseFunc[T]) orDefault() ReleaseFunc[T] {
	if f == nil {
		return DefaultRelease[T]
	}
	return f
}
