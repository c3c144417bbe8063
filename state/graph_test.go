package state

import "testing"

func TestGraph_ChainRipple(t *testing.T) {
	g := NewGraph()
	heights := []*Cell[float64]{NewCell(g, 0.0), NewCell(g, 0.0), NewCell(g, 0.0)}
	offsets := []*Derived[float64]{NewDerived(g, func() float64 { return 0 })}
	for i := 1; i < 4; i++ {
		prev := offsets[i-1]
		h := heights[i-1]
		offsets = append(offsets, NewDerived(g, func() float64 {
			return prev.Get() + h.Get() + 10
		}, prev, h))
	}

	heights[0].Set(5)
	want := []float64{0, 15, 25, 35}
	for i, o := range offsets {
		if o.Get() != want[i] {
			t.Fatalf("offset %d: expected %v, got %v", i, want[i], o.Get())
		}
	}
}

func TestGraph_DiamondRecomputesOnce(t *testing.T) {
	g := NewGraph()
	a := NewCell(g, 1)
	left := NewDerived(g, func() int { return a.Get() + 1 }, a)
	right := NewDerived(g, func() int { return a.Get() * 10 }, a)

	evaluations := 0
	var seen []int
	sum := NewDerived(g, func() int {
		evaluations++
		return left.Get() + right.Get()
	}, left, right)
	sum.Subscribe(func() {
		seen = append(seen, sum.Get())
	})
	evaluations = 0

	a.Set(2)
	if evaluations != 1 {
		t.Fatalf("expected sum to recompute once, got %d", evaluations)
	}
	if len(seen) != 1 || seen[0] != 23 {
		t.Fatalf("expected a single consistent notification of 23, got %v", seen)
	}
}

func TestGraph_BatchCoalesces(t *testing.T) {
	g := NewGraph()
	a := NewCell(g, 1)
	b := NewCell(g, 1)
	evaluations := 0
	sum := NewDerived(g, func() int {
		evaluations++
		return a.Get() + b.Get()
	}, a, b)
	notified := 0
	sum.Subscribe(func() { notified++ })
	evaluations = 0

	g.Batch(func() {
		a.Set(2)
		b.Set(3)
		if sum.Get() != 2 {
			t.Fatalf("expected propagation to wait for batch end, got %d", sum.Get())
		}
		g.Batch(func() {
			a.Set(4)
		})
		if sum.Get() != 2 {
			t.Fatalf("expected nested batch to defer propagation, got %d", sum.Get())
		}
	})

	if sum.Get() != 7 {
		t.Fatalf("expected sum 7 after batch, got %d", sum.Get())
	}
	if evaluations != 1 || notified != 1 {
		t.Fatalf("expected 1 evaluation and 1 notification, got %d and %d", evaluations, notified)
	}
}

func TestGraph_EqualStopsRipple(t *testing.T) {
	g := NewGraph()
	a := NewCell(g, 1)
	parity := NewDerived(g, func() int { return a.Get() % 2 }, a)
	parity.SetEqualFunc(EqualComparable[int])
	downstream := 0
	NewDerived(g, func() int {
		downstream++
		return parity.Get()
	}, parity)
	downstream = 0

	a.Set(3)
	if downstream != 0 {
		t.Fatalf("expected unchanged parity to stop propagation, got %d", downstream)
	}
	a.Set(4)
	if downstream != 1 {
		t.Fatalf("expected changed parity to propagate, got %d", downstream)
	}
}

func TestGraph_ObserverMayWrite(t *testing.T) {
	g := NewGraph()
	a := NewCell(g, 1)
	b := NewCell(g, 0)
	a.Subscribe(func() {
		b.Set(a.Get() * 2)
	})
	a.Set(5)
	if b.Get() != 10 {
		t.Fatalf("expected observer write to apply, got %d", b.Get())
	}
}
