// Package ownership provides owning handles for Go values with pluggable
// release actions.
//
// Go collects memory, but many values own something the collector does not:
// files, sockets, wazero runtimes, pooled buffers. This library gives such
// values an explicit owner that runs a release action exactly once.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	ownership/
//	├── ptr/             Unique and Shared owning handles, release actions
//	├── resource/        Registry of live owned allocations, leak reports
//	├── engine/          wazero runtimes, modules and instances owned by handles
//	├── errors/          Structured error types for debugging
//	├── cmd/ownership/   Demo and interactive playground
//	└── examples/        Usage examples
//
// # Quick Start
//
// Own a value exclusively:
//
//	u := ptr.MakeUnique(User{Name: "sv", Age: 1})
//	defer u.Release()
//
//	fmt.Println(u.Deref().Name)
//
// Share a value and release it with the last handle:
//
//	f, _ := os.Open(path)
//	a := ptr.NewShared(f, func(f *os.File) { f.Close() })
//	b := a.Clone()      // a.UseCount() == 2
//	a.Release()
//	b.Release()         // file closed here
//
// # Threading
//
// Handles are meant for a single goroutine. The shared count is a plain
// integer; guard aliasing handles yourself when they cross goroutines.
package ownership
