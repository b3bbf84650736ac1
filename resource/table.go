package resource

import (
	"sort"
	"sync"

	"github.com/wippyai/ownership/errors"
)

// Table records live owned allocations on top of a LocalBackend and
// notifies observers about their lifecycle. It implements Registry.
type Table struct {
	backend   *LocalBackend
	observers []Observer
	obsMu     sync.RWMutex
	closed    bool
	closeMu   sync.RWMutex
}

var _ Registry = (*Table)(nil)

// NewTable creates a new table with a LocalBackend.
func NewTable() *Table {
	return &Table{
		backend: NewLocalBackend(),
	}
}

// Insert records an allocation and returns its handle.
// Returns 0 once the table is closed.
func (t *Table) Insert(typeName string, value any) Handle {
	t.closeMu.RLock()
	if t.closed {
		t.closeMu.RUnlock()
		return 0
	}
	t.closeMu.RUnlock()

	handle, err := t.backend.Create(typeName, value)
	if err != nil {
		return 0
	}

	t.notify(Event{
		Type:     EventAcquired,
		Handle:   handle,
		TypeName: typeName,
		Value:    value,
		Refs:     1,
	})

	return handle
}

// Get retrieves a value by handle.
func (t *Table) Get(handle Handle) (any, bool) {
	return t.backend.Get(handle)
}

// Refs returns the number of owners recorded for a handle.
func (t *Table) Refs(handle Handle) (uint32, bool) {
	return t.backend.Refs(handle)
}

// Retain records an additional owner.
func (t *Table) Retain(handle Handle) bool {
	refs, ok := t.backend.Retain(handle)
	if !ok {
		return false
	}
	t.notifyHandle(EventRetained, handle, refs)
	return true
}

// Unref records that one of several owners let go.
func (t *Table) Unref(handle Handle) bool {
	refs, ok := t.backend.Unref(handle)
	if !ok {
		return false
	}
	t.notifyHandle(EventUnref, handle, refs)
	return true
}

// Moved records an ownership transfer between handles.
func (t *Table) Moved(handle Handle) {
	refs, ok := t.backend.Refs(handle)
	if !ok {
		return
	}
	t.notifyHandle(EventMoved, handle, refs)
}

// Remove forgets a released allocation and returns (value, true) if found.
// The owner has already run its release action; Remove does not drop the value.
func (t *Table) Remove(handle Handle) (any, bool) {
	typeName, _ := t.backend.TypeName(handle)
	value, ok := t.backend.Drop(handle)
	if !ok {
		return nil, false
	}

	t.notify(Event{
		Type:     EventReleased,
		Handle:   handle,
		TypeName: typeName,
		Value:    value,
	})

	return value, true
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of live allocations.
func (t *Table) Len() int {
	return t.backend.Len()
}

// Each iterates over all live allocations.
func (t *Table) Each(fn func(handle Handle, typeName string, refs uint32) bool) {
	t.backend.Each(fn)
}

// Close stops accepting allocations. It returns a leak error naming the
// types of allocations that were still owned.
func (t *Table) Close() error {
	t.closeMu.Lock()
	t.closed = true
	t.closeMu.Unlock()

	var types []string
	t.backend.Each(func(_ Handle, typeName string, _ uint32) bool {
		types = append(types, typeName)
		return true
	})

	if err := t.backend.Close(); err != nil {
		return err
	}
	if len(types) > 0 {
		sort.Strings(types)
		return errors.Leaked(len(types), types)
	}
	return nil
}

// Backend returns the underlying backend.
func (t *Table) Backend() *LocalBackend {
	return t.backend
}

func (t *Table) notifyHandle(typ EventType, handle Handle, refs uint32) {
	typeName, _ := t.backend.TypeName(handle)
	value, _ := t.backend.Get(handle)
	t.notify(Event{
		Type:     typ,
		Handle:   handle,
		TypeName: typeName,
		Value:    value,
		Refs:     refs,
	})
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}
