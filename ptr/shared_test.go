package ptr

import (
	"errors"
	"testing"

	"github.com/wippyai/ownership/resource"
)

type dropCounter struct {
	name    string
	dropped *int
}

func (d *dropCounter) Drop() {
	*d.dropped++
}

func TestShared_Make(t *testing.T) {
	p := MakeShared(user{"alice", 25})
	defer p.Release()

	if p.Deref().name != "alice" || p.Deref().age != 25 {
		t.Fatalf("value = %+v", *p.Deref())
	}
	if p.UseCount() != 1 {
		t.Fatalf("UseCount() = %d, want 1", p.UseCount())
	}
}

func TestShared_ZeroValue(t *testing.T) {
	var p Shared[user]

	if !p.Empty() {
		t.Fatal("zero value should be empty")
	}
	p.Release()

	c := p.Clone()
	if !c.Empty() {
		t.Fatal("cloning an empty handle should yield an empty handle")
	}
}

func TestShared_CopyAssign(t *testing.T) {
	p := MakeShared(user{"svetlin", 46})
	var p2 Shared[user]

	p2.Assign(p)

	if p.Deref().name != "svetlin" || p2.Deref().name != "svetlin" {
		t.Fatal("both handles should observe the value")
	}
	if p.UseCount() != 2 || p2.UseCount() != 2 {
		t.Fatalf("UseCount() = %d/%d, want 2", p.UseCount(), p2.UseCount())
	}
	p.Release()
	p2.Release()
}

func TestShared_CountTracksLiveHandles(t *testing.T) {
	calls := 0
	a := NewShared(&user{"bob", 40}, func(*user) { calls++ })
	if a.UseCount() != 1 {
		t.Fatalf("count = %d, want 1", a.UseCount())
	}

	b := a.Clone()
	if a.UseCount() != 2 {
		t.Fatalf("count = %d, want 2", a.UseCount())
	}

	c := b.Clone()
	if c.UseCount() != 3 || a.UseCount() != 3 {
		t.Fatalf("count = %d, want 3", c.UseCount())
	}

	b.Release()
	if a.UseCount() != 2 {
		t.Fatalf("count after releasing b = %d, want 2", a.UseCount())
	}

	a.Release()
	if calls != 0 {
		t.Fatal("release action ran before the last handle let go")
	}
	if c.UseCount() != 1 {
		t.Fatalf("count = %d, want 1", c.UseCount())
	}

	c.Release()
	if calls != 1 {
		t.Fatalf("release action ran %d times, want 1", calls)
	}

	// Extra releases of already-released handles do nothing
	a.Release()
	b.Release()
	c.Release()
	if calls != 1 {
		t.Fatalf("release action ran %d times after repeated Release", calls)
	}
}

func TestShared_MultipleCopies(t *testing.T) {
	p1 := MakeShared(user{"jack", 27})
	p2 := p1.Clone()
	p3 := p2.Clone()
	p4 := p1.Clone()

	for i, p := range []*Shared[user]{p1, p2, p3, p4} {
		if p.Deref().name != "jack" || p.Deref().age != 27 {
			t.Fatalf("handle %d value = %+v", i, *p.Deref())
		}
		if !p.Same(p1) {
			t.Fatalf("handle %d does not alias p1", i)
		}
	}
	if p4.UseCount() != 4 {
		t.Fatalf("count = %d, want 4", p4.UseCount())
	}
}

func TestShared_Independent(t *testing.T) {
	p1 := MakeShared(user{"charlie", 35})
	p2 := MakeShared(user{"david", 28})

	if p1.Deref().name != "charlie" || p2.Deref().name != "david" {
		t.Fatal("independent handles should hold their own values")
	}
	if p1.Same(p2) {
		t.Fatal("independent handles must not alias")
	}
	if p1.UseCount() != 1 || p2.UseCount() != 1 {
		t.Fatal("independent handles should each count 1")
	}
}

func TestShared_Reassignment(t *testing.T) {
	p1 := MakeShared(user{"eve", 32})
	p2 := p1.Clone()
	p3 := MakeShared(user{"frank", 45})

	p2.Assign(p3)

	if p2.Deref().name != "frank" || p3.Deref().name != "frank" {
		t.Fatal("p2 and p3 should report frank")
	}
	if p1.Deref().name != "eve" {
		t.Fatal("p1 should still report eve")
	}
	if p1.UseCount() != 1 {
		t.Fatalf("eve count = %d, want 1", p1.UseCount())
	}
	if p3.UseCount() != 2 {
		t.Fatalf("frank count = %d, want 2", p3.UseCount())
	}
}

func TestShared_AssignReleasesPreviousFirst(t *testing.T) {
	frank := MakeShared(user{"frank", 45})

	countAtRelease := -1
	eve := NewShared(&user{"eve", 32}, func(*user) {
		countAtRelease = frank.UseCount()
	})

	eve.Assign(frank)

	if countAtRelease != 1 {
		t.Fatalf("new referent count at release = %d, want 1 (release before increment)", countAtRelease)
	}
	if frank.UseCount() != 2 {
		t.Fatalf("count = %d, want 2", frank.UseCount())
	}
	if eve.Deref().name != "frank" {
		t.Fatal("reassigned handle should alias frank")
	}
}

func TestShared_SelfAssign(t *testing.T) {
	calls := 0
	a := NewShared(&user{"solo", 1}, func(*user) { calls++ })
	b := a.Clone()

	a.Assign(a)
	if calls != 0 || a.UseCount() != 2 {
		t.Fatalf("self assign changed state: calls=%d count=%d", calls, a.UseCount())
	}

	b.Assign(a)
	if calls != 0 || a.UseCount() != 2 {
		t.Fatalf("same-allocation assign changed state: calls=%d count=%d", calls, a.UseCount())
	}

	single := NewShared(&user{"last", 2}, func(*user) { calls++ })
	single.Assign(single)
	if calls != 0 || single.UseCount() != 1 {
		t.Fatal("self assign of a sole handle must not release")
	}
}

func TestShared_AssignEmpty(t *testing.T) {
	calls := 0
	a := NewShared(&user{}, func(*user) { calls++ })
	var empty Shared[user]

	a.Assign(&empty)

	if calls != 1 {
		t.Fatalf("release action ran %d times, want 1", calls)
	}
	if !a.Empty() {
		t.Fatal("handle should be empty after assigning an empty handle")
	}
}

func TestShared_ModificationThroughAlias(t *testing.T) {
	p1 := MakeShared(user{"henry", 50})
	p2 := p1.Clone()

	p1.Deref().age = 51

	if p2.Deref().age != 51 {
		t.Fatalf("alias observes age %d, want 51", p2.Deref().age)
	}
}

func TestShared_DefaultReleaseRoundTrip(t *testing.T) {
	dropped := 0
	p := MakeShared(dropCounter{name: "grace", dropped: &dropped})

	if p.Deref().name != "grace" {
		t.Fatal("dereference should reach the value")
	}
	q := p.Clone()
	p.Release()
	if dropped != 0 {
		t.Fatal("default release ran early")
	}
	q.Release()

	if dropped != 1 {
		t.Fatalf("Drop called %d times, want 1", dropped)
	}
}

func TestShared_MakeFuncFailure(t *testing.T) {
	cause := errors.New("bad input")
	p, err := MakeSharedFunc(func(*user) error { return cause })

	if p != nil {
		t.Fatal("failed construction must not return a handle")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("err = %v, want cause", err)
	}

	p, err = MakeSharedFunc(func(u *user) error {
		u.name = "ok"
		return nil
	})
	if err != nil {
		t.Fatalf("MakeSharedFunc failed: %v", err)
	}
	if p.Deref().name != "ok" || p.UseCount() != 1 {
		t.Fatal("constructed handle should hold the value with count 1")
	}
}

func TestShared_CountUnderflowPanics(t *testing.T) {
	a := MakeShared(user{})
	// An untracked alias, as produced by copying a handle by value
	b := &Shared[user]{ctrl: a.ctrl}
	a.Release()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on count underflow")
		}
	}()
	b.Release()
}

func TestShared_Registry(t *testing.T) {
	table := resource.NewTable()
	obs := &recorder{}
	table.Subscribe(obs)

	a := MakeShared(user{"ivy", 22}, WithRegistry(table))
	b := a.Clone()
	var c Shared[user]
	c.Assign(b)

	if refs, _ := table.Refs(obs.events[0].Handle); refs != 3 {
		t.Fatalf("registry refs = %d, want 3", refs)
	}

	a.Release()
	b.Release()
	c.Release()

	if err := table.Close(); err != nil {
		t.Fatalf("Close reported a leak: %v", err)
	}

	obs.expect(t, []resource.EventType{
		resource.EventAcquired,
		resource.EventRetained,
		resource.EventRetained,
		resource.EventUnref,
		resource.EventUnref,
		resource.EventReleased,
	})
}
