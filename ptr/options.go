package ptr

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/wippyai/ownership/errors"
	"github.com/wippyai/ownership/resource"
)

// Option configures a handle at construction.
type Option func(*options)

type options struct {
	registry resource.Registry
	name     string
}

// WithRegistry records the owned allocation in r for as long as it is owned.
// A nil allocation is not recorded.
func WithRegistry(r resource.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithName overrides the type name used in logs and registry entries.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// tracking is the registry bookkeeping of one owned allocation.
type tracking struct {
	registry resource.Registry
	name     string
	handle   resource.Handle
}

func newTracking[T any](raw *T, opts []Option) tracking {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.name == "" {
		o.name = typeName[T]()
	}
	t := tracking{registry: o.registry, name: o.name}
	if t.registry != nil && raw != nil {
		t.handle = t.registry.Insert(t.name, raw)
	}
	return t
}

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

func (t *tracking) retain() {
	if t.handle != 0 && !t.registry.Retain(t.handle) {
		t.missing()
	}
}

func (t *tracking) unref() {
	if t.handle != 0 && !t.registry.Unref(t.handle) {
		t.missing()
	}
}

func (t *tracking) moved() {
	if t.handle != 0 {
		t.registry.Moved(t.handle)
	}
}

func (t *tracking) remove() {
	if t.handle != 0 {
		if _, ok := t.registry.Remove(t.handle); !ok {
			t.missing()
		}
		t.handle = 0
	}
}

// missing reports bookkeeping against a registry that no longer knows the
// handle, usually because the registry was closed first.
func (t *tracking) missing() {
	Logger().Warn("registry entry missing",
		zap.Error(errors.InvalidHandle(t.name, uint32(t.handle))))
}
