// Package ptr provides owning handles over a heap-allocated value with a
// pluggable release action.
//
// Two handle types are provided:
//
//	Unique[T]  - exclusive ownership, transferable only by Move/MoveFrom
//	Shared[T]  - shared ownership, duplicated only by Clone/Assign, counted
//
// Both store a ReleaseFunc[T] that runs exactly once, with the owned pointer,
// when ownership ends. A nil ReleaseFunc means DefaultRelease.
//
// # Exclusive Ownership
//
//	u := ptr.MakeUnique(User{Name: "svetlin", Age: 46})
//	defer u.Release()
//
//	u.Deref().Age++
//
//	v := u.Move() // u is now empty, v owns the user
//	defer v.Release()
//
// # Shared Ownership
//
//	a := ptr.MakeShared(User{Name: "bob", Age: 40})
//	b := a.Clone() // a.UseCount() == 2
//
//	a.Release()    // b.UseCount() == 1
//	b.Release()    // release action runs here
//
// # Custom Release Actions
//
//	f, _ := os.Open(path)
//	u := ptr.NewUnique(f, func(f *os.File) { f.Close() })
//	defer u.Release()
//
// # Preconditions
//
// Deref on an empty handle and UseCount on an empty Shared are not checked,
// the same as using a nil pointer. Wrapping a pointer that another handle
// already owns leads to a double release.
//
// Handles must not be copied by value; go vet reports such copies. The
// Shared count is not synchronized, so aliasing handles must not be used
// from several goroutines without external locking.
//
// # Tracking
//
// Handles constructed WithRegistry record their allocation in a
// resource.Registry while it is owned, which makes leaks visible:
//
//	table := resource.NewTable()
//	u := ptr.MakeUnique(User{}, ptr.WithRegistry(table))
//	u.Release()
//	err := table.Close() // nil: nothing leaked
package ptr
