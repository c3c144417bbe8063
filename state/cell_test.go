package state

import "testing"

func TestCell_SetAndSubscribe(t *testing.T) {
	cell := NewCell(nil, 1)
	calls := 0

	unsub := cell.Subscribe(func() {
		calls++
	})

	if calls != 0 {
		t.Fatalf("expected no calls before set, got %d", calls)
	}
	if !cell.Set(2) {
		t.Fatalf("expected set to report change")
	}
	if calls != 1 {
		t.Fatalf("expected 1 call after set, got %d", calls)
	}

	unsub()
	unsub()
	cell.Set(3)
	if calls != 1 {
		t.Fatalf("expected no calls after unsubscribe, got %d", calls)
	}
}

func TestCell_SetEqualFunc(t *testing.T) {
	cell := NewCell(nil, 5.0)
	cell.SetEqualFunc(EqualComparable[float64])

	if cell.Set(5) {
		t.Fatalf("expected set of equal value to report no change")
	}
	if !cell.Set(6) {
		t.Fatalf("expected set of new value to report change")
	}
}

func TestCell_Update(t *testing.T) {
	cell := NewCell(nil, 1)
	cell.SetEqualFunc(EqualComparable[int])

	if !cell.Update(func(v int) int { return v + 1 }) {
		t.Fatalf("expected update to report change")
	}
	if cell.Get() != 2 {
		t.Fatalf("expected updated value 2, got %d", cell.Get())
	}
	if cell.Update(func(v int) int { return v }) {
		t.Fatalf("expected update of equal value to report no change")
	}
	if cell.Update(nil) {
		t.Fatalf("expected nil update to report no change")
	}
}

func TestCell_SubscribeWithScheduler(t *testing.T) {
	cell := NewCell(nil, 1)
	queue := NewQueue()
	calls := 0

	cell.SubscribeWithScheduler(queue, func() {
		calls++
	})

	if !cell.Set(2) {
		t.Fatalf("expected set to report change")
	}
	if calls != 0 {
		t.Fatalf("expected callback to be queued, got %d", calls)
	}
	if flushed := queue.Flush(); flushed != 1 {
		t.Fatalf("expected 1 callback flushed, got %d", flushed)
	}
	if calls != 1 {
		t.Fatalf("expected callback after flush, got %d", calls)
	}
}

func TestCell_NilReceiver(t *testing.T) {
	var cell *Cell[int]
	if cell.Get() != 0 {
		t.Fatalf("expected zero value from nil cell")
	}
	if cell.Set(1) {
		t.Fatalf("expected nil cell set to report no change")
	}
	cell.Subscribe(func() {})()
}
