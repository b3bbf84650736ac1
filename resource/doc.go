// Package resource provides a registry of live owned allocations.
//
// Owning handles from package ptr can be constructed with a Registry. Each
// owned allocation is then recorded in the registry for as long as some
// handle owns it, which makes leaks and double releases observable.
//
// # Allocation Lifecycle
//
//	acquired - a handle took ownership of a fresh allocation (refs = 1)
//	retained - a shared handle was cloned (refs + 1)
//	unref    - one of several shared handles let go (refs - 1)
//	moved    - exclusive ownership moved to another handle
//	released - the last owner ran the release action
//
// # Table
//
// The Table maps integer handles to owned values:
//
//	table := resource.NewTable()
//
//	u := ptr.MakeUnique(User{Name: "sv"}, ptr.WithRegistry(table))
//	table.Len() // 1
//
//	u.Release()
//	table.Len() // 0
//
// Close reports every allocation that is still owned:
//
//	if err := table.Close(); err != nil {
//	    log.Printf("leak: %v", err)
//	}
//
// # Observers
//
// Register observers to track lifecycle events:
//
//	table.Subscribe(myObserver)
//
//	func (o *myObserver) OnResourceEvent(e resource.Event) {
//	    log.Printf("%s %s (handle %d, refs %d)", e.Type, e.TypeName, e.Handle, e.Refs)
//	}
//
// The table is safe for concurrent use. The handles that report to it are not.
package resource
