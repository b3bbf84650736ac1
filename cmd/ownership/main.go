package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/ownership/engine"
	"github.com/wippyai/ownership/ptr"
	"github.com/wippyai/ownership/resource"
)

// User is the value owned throughout the demo.
type User struct {
	Name string
	Age  int
}

func main() {
	var (
		wasmFile    = flag.String("wasm", "", "Path to a core wasm module to share across instances (optional)")
		instances   = flag.Int("n", 2, "Number of instances to create from -wasm")
		verbose     = flag.Bool("v", false, "Log handle lifecycle at debug level")
		interactive = flag.Bool("i", false, "Interactive playground with TUI")
	)
	flag.Parse()

	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer l.Sync()
		ptr.SetLogger(l)
		engine.SetLogger(l)
	}

	if *interactive {
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	st := newStyles(term.IsTerminal(int(os.Stdout.Fd())))
	if err := run(os.Stdout, st, *wasmFile, *instances); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(w io.Writer, st styles, wasmFile string, instances int) error {
	table := resource.NewTable()
	table.Subscribe(&eventPrinter{w: w, st: st})
	reg := ptr.WithRegistry(table)

	fmt.Fprintln(w, st.title.Render("Ownership demo"))

	func() {
		u := ptr.MakeUnique(User{Name: "sv", Age: 1}, reg)
		defer u.Release()
		fmt.Fprintln(w, st.value.Render(u.Deref().Name))

		release := func(p *User) {
			fmt.Fprintln(w, st.release.Render("custom release called for "+p.Name))
		}

		u2 := ptr.NewUnique(&User{Name: "je", Age: 3}, release, reg)
		defer u2.Release()

		sh := ptr.NewShared(&User{Name: "bb", Age: 3}, release, reg)
		defer sh.Release()

		alias := sh.Clone()
		fmt.Fprintf(w, "%s shared by %d handles\n", st.value.Render(alias.Deref().Name), alias.UseCount())
		alias.Release()
	}()

	if wasmFile != "" {
		if err := runWasm(w, st, wasmFile, instances, reg); err != nil {
			return err
		}
	}

	return table.Close()
}

func runWasm(w io.Writer, st styles, wasmFile string, instances int, opts ...ptr.Option) error {
	if instances < 0 {
		return fmt.Errorf("instance count must not be negative: %d", instances)
	}
	ctx := context.Background()

	data, err := os.ReadFile(wasmFile)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	rt := engine.NewRuntime(ctx, nil, opts...)
	defer rt.Release()

	mod, err := rt.Deref().Compile(ctx, data)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	defer mod.Release()

	fmt.Fprintf(w, "\nModule: %s\n", wasmFile)
	for _, name := range mod.Deref().Exports() {
		fmt.Fprintf(w, "  %s\n", st.value.Render(name))
	}

	insts := make([]*ptr.Unique[engine.Instance], 0, instances)
	defer func() {
		for _, inst := range insts {
			inst.Release()
		}
	}()
	for i := 0; i < instances; i++ {
		inst, err := engine.Instantiate(ctx, mod, "")
		if err != nil {
			return fmt.Errorf("instantiate: %w", err)
		}
		insts = append(insts, inst)
	}

	fmt.Fprintf(w, "%d instance(s) share the module, use count %d\n", len(insts), mod.UseCount())
	return nil
}

// eventPrinter writes registry events as they happen.
type eventPrinter struct {
	w  io.Writer
	st styles
}

func (p *eventPrinter) OnResourceEvent(e resource.Event) {
	fmt.Fprintf(p.w, "%s %s (handle %d, refs %d)\n",
		p.st.event.Render(fmt.Sprintf("%-8s", e.Type)), e.TypeName, e.Handle, e.Refs)
}
