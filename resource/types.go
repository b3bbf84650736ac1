package resource

// Handle identifies one owned allocation in a registry.
// Handle 0 is reserved and always invalid.
type Handle uint32

// Event types for allocation lifecycle notifications.
type EventType uint8

const (
	EventAcquired EventType = iota
	EventRetained
	EventUnref
	EventMoved
	EventReleased
)

func (t EventType) String() string {
	switch t {
	case EventAcquired:
		return "acquired"
	case EventRetained:
		return "retained"
	case EventUnref:
		return "unref"
	case EventMoved:
		return "moved"
	case EventReleased:
		return "released"
	default:
		return "unknown"
	}
}

// Event represents an allocation lifecycle event.
type Event struct {
	Value    any
	TypeName string
	Handle   Handle
	Refs     uint32
	Type     EventType
}

// Observer receives notifications about allocation lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}

// Backend provides the underlying storage mechanism for registry entries.
type Backend interface {
	// Create stores a value with one reference and returns a handle.
	Create(typeName string, value any) (Handle, error)

	// Get retrieves a value by handle.
	Get(handle Handle) (any, bool)

	// Retain adds a reference and returns the new reference count.
	Retain(handle Handle) (uint32, bool)

	// Unref removes a non-final reference and returns the new reference count.
	// The final reference is only given up through Drop.
	Unref(handle Handle) (uint32, bool)

	// Drop removes an entry holding a single reference and returns its value.
	// Returns (nil, false) if handle is invalid or other references remain.
	Drop(handle Handle) (any, bool)

	// Close releases all entries held by the backend.
	Close() error
}

// Registry is the view of a table used by owning handles.
type Registry interface {
	// Insert records a newly owned allocation and returns its handle.
	// Returns 0 when the registry no longer accepts entries.
	Insert(typeName string, value any) Handle

	// Retain records an additional owner of the allocation.
	Retain(handle Handle) bool

	// Unref records that one of several owners let go.
	Unref(handle Handle) bool

	// Moved records that ownership moved to a different handle.
	Moved(handle Handle)

	// Remove records that the allocation was released.
	Remove(handle Handle) (any, bool)
}

// Dropper is optionally implemented by owned values that need cleanup
// before they are discarded.
type Dropper interface {
	Drop()
}
