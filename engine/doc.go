// Package engine owns wazero resources through ptr handles.
//
// Each wazero object with a Close method is held by exactly the kind of
// owner that matches its lifetime:
//
//	Runtime  - ptr.Unique, closed when the owner is released
//	Module   - ptr.Shared, a compiled module shared by every instance made from it
//	Instance - ptr.Unique, holds a share of its Module until released
//
// A compiled module is closed only after the handle returned by Compile and
// every instance created from it have been released:
//
//	rt := engine.NewRuntime(ctx, nil)
//	defer rt.Release()
//
//	mod, err := rt.Deref().Compile(ctx, wasmBytes)
//	if err != nil {
//	    return err
//	}
//	defer mod.Release()
//
//	inst, err := engine.Instantiate(ctx, mod, "")
//	if err != nil {
//	    return err
//	}
//	defer inst.Release()
//
//	results, err := inst.Deref().Call(ctx, "add", 2, 3)
package engine
