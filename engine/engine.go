package engine

import (
	"context"
	"sort"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/ownership/errors"
	"github.com/wippyai/ownership/ptr"
)

// Config holds configuration for runtime creation
type Config struct {
	// MemoryLimitPages sets the maximum memory per instance in pages (64KB each).
	// 0 means the wazero default.
	MemoryLimitPages uint32

	// CloseOnContextDone makes running calls observe context cancellation.
	CloseOnContextDone bool
}

// Runtime is an owned wazero runtime.
type Runtime struct {
	rt     wazero.Runtime
	opts   []ptr.Option
	closed bool
}

// Module is a compiled module shared by the instances made from it.
type Module struct {
	compiled wazero.CompiledModule
	runtime  *Runtime
	closed   bool
}

// Instance is an instantiated module. It keeps its Module alive.
type Instance struct {
	mod    api.Module
	module *ptr.Shared[Module]
}

// NewRuntime creates a wazero runtime owned by the returned handle.
// Releasing the handle closes the runtime and every module it instantiated.
// opts are applied to the runtime handle and to handles created from it.
func NewRuntime(ctx context.Context, cfg *Config, opts ...ptr.Option) *ptr.Unique[Runtime] {
	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg != nil {
		if cfg.MemoryLimitPages > 0 {
			runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
		}
		if cfg.CloseOnContextDone {
			runtimeCfg = runtimeCfg.WithCloseOnContextDone(true)
		}
	}

	r := &Runtime{
		rt:   wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
		opts: opts,
	}
	closeCtx := context.WithoutCancel(ctx)
	return ptr.NewUnique(r, func(r *Runtime) {
		if err := r.rt.Close(closeCtx); err != nil {
			Logger().Warn("close runtime", zap.Error(err))
		}
		r.closed = true
		Logger().Debug("runtime closed")
	}, opts...)
}

// Closed reports whether the runtime has been released.
func (r *Runtime) Closed() bool {
	return r.closed
}

// Compile compiles wasm into a module shared by the returned handle.
func (r *Runtime) Compile(ctx context.Context, wasm []byte) (*ptr.Shared[Module], error) {
	if r.closed {
		return nil, errors.Closed(errors.PhaseEngine, "runtime")
	}
	if len(wasm) == 0 {
		return nil, errors.InvalidInput(errors.PhaseEngine, "empty module")
	}

	compiled, err := r.rt.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseEngine, errors.KindCompile, err, "compile module")
	}

	closeCtx := context.WithoutCancel(ctx)
	m := &Module{compiled: compiled, runtime: r}
	Logger().Debug("module compiled", zap.String("name", compiled.Name()))
	return ptr.NewShared(m, func(m *Module) {
		if err := m.compiled.Close(closeCtx); err != nil {
			Logger().Warn("close compiled module", zap.Error(err))
		}
		m.closed = true
		Logger().Debug("module closed", zap.String("name", m.compiled.Name()))
	}, r.opts...), nil
}

// Closed reports whether the last handle to the module has been released.
func (m *Module) Closed() bool {
	return m.closed
}

// Exports returns the sorted names of the functions the module exports.
func (m *Module) Exports() []string {
	defs := m.compiled.ExportedFunctions()
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Instantiate creates an instance of the shared module. The instance holds a
// share of mod until it is released, so the module outlives mod's handle
// while instances exist. An empty name creates an anonymous instance.
func Instantiate(ctx context.Context, mod *ptr.Shared[Module], name string) (*ptr.Unique[Instance], error) {
	if mod.Empty() {
		return nil, errors.InvalidInput(errors.PhaseEngine, "module handle is empty")
	}
	m := mod.Deref()
	if m.closed {
		return nil, errors.Closed(errors.PhaseEngine, "module")
	}
	if m.runtime.closed {
		return nil, errors.Closed(errors.PhaseEngine, "runtime")
	}

	cfg := wazero.NewModuleConfig().WithName(name)
	inst, err := m.runtime.rt.InstantiateModule(ctx, m.compiled, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseEngine, errors.KindInstantiate, err, "instantiate module")
	}

	closeCtx := context.WithoutCancel(ctx)
	i := &Instance{mod: inst, module: mod.Clone()}
	return ptr.NewUnique(i, func(i *Instance) {
		if err := i.mod.Close(closeCtx); err != nil {
			Logger().Warn("close instance", zap.Error(err))
		}
		i.module.Release()
	}, m.runtime.opts...), nil
}

// Name returns the instance name.
func (i *Instance) Name() string {
	return i.mod.Name()
}

// Closed reports whether the instance has been closed.
func (i *Instance) Closed() bool {
	return i.mod.IsClosed()
}

// Module returns the shared module handle held by the instance.
func (i *Instance) Module() *ptr.Shared[Module] {
	return i.module
}

// Call invokes an exported function.
func (i *Instance) Call(ctx context.Context, name string, params ...uint64) ([]uint64, error) {
	fn := i.mod.ExportedFunction(name)
	if fn == nil {
		return nil, errors.New(errors.PhaseEngine, errors.KindInvalidInput).
			Detail("function %q not exported", name).
			Build()
	}
	return fn.Call(ctx, params...)
}
