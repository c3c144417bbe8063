package state

import "testing"

func TestDerived_Recompute(t *testing.T) {
	g := NewGraph()
	a := NewCell(g, 1)
	b := NewCell(g, 2)
	a.SetEqualFunc(EqualComparable[int])
	b.SetEqualFunc(EqualComparable[int])

	sum := NewDerived(g, func() int {
		return a.Get() + b.Get()
	}, a, b)
	sum.SetEqualFunc(EqualComparable[int])

	if got := sum.Get(); got != 3 {
		t.Fatalf("expected initial sum 3, got %d", got)
	}

	calls := 0
	unsub := sum.Subscribe(func() {
		calls++
	})

	if !a.Set(2) {
		t.Fatalf("expected cell change")
	}
	if got := sum.Get(); got != 4 {
		t.Fatalf("expected sum 4 after change, got %d", got)
	}
	if calls != 1 {
		t.Fatalf("expected 1 recompute, got %d", calls)
	}

	if a.Set(2) {
		t.Fatalf("expected no change on equal set")
	}
	if calls != 1 {
		t.Fatalf("expected no extra recompute, got %d", calls)
	}

	b.Set(3)
	if got := sum.Get(); got != 5 {
		t.Fatalf("expected sum 5 after change, got %d", got)
	}
	if calls != 2 {
		t.Fatalf("expected 2 notifications, got %d", calls)
	}

	unsub()
	b.Set(4)
	if calls != 2 {
		t.Fatalf("expected no notification after unsubscribe, got %d", calls)
	}
}

func TestDerived_Stop(t *testing.T) {
	g := NewGraph()
	a := NewCell(g, 1)

	comp := NewDerived(g, func() int {
		return a.Get()
	}, a)

	comp.Stop()
	comp.Stop()

	if !a.Set(2) {
		t.Fatalf("expected cell change")
	}
	if got := comp.Get(); got != 1 {
		t.Fatalf("expected derived to stay at 1 after stop, got %d", got)
	}
	if deps := a.v.dependentsSnapshot(); len(deps) != 0 {
		t.Fatalf("expected stop to detach from dependency, got %d dependents", len(deps))
	}
}

func TestDerived_Rank(t *testing.T) {
	g := NewGraph()
	a := NewCell(g, 1)
	first := NewDerived(g, func() int { return a.Get() }, a)
	second := NewDerived(g, func() int { return first.Get() + a.Get() }, first, a)
	constant := NewDerived(g, func() int { return 7 })

	if first.Rank() != 1 || second.Rank() != 2 {
		t.Fatalf("expected ranks 1 and 2, got %d and %d", first.Rank(), second.Rank())
	}
	if constant.Rank() != 1 || constant.Get() != 7 {
		t.Fatalf("expected constant rank 1 value 7, got %d %d", constant.Rank(), constant.Get())
	}
}

func TestDerived_ForeignGraphPanics(t *testing.T) {
	a := NewCell(NewGraph(), 1)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for dependency from another graph")
		}
	}()
	NewDerived(NewGraph(), func() int { return a.Get() }, a)
}

func TestDerived_InheritsGraph(t *testing.T) {
	g := NewGraph()
	a := NewCell(g, 1)
	d := NewDerived(nil, func() int { return a.Get() * 2 }, a)
	a.Set(4)
	if d.Get() != 8 {
		t.Fatalf("expected derived to follow cell, got %d", d.Get())
	}
}
