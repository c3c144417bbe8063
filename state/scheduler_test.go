package state

import (
	"sync"
	"testing"
)

func TestQueue_FlushInOrder(t *testing.T) {
	queue := NewQueue()
	var calls []int
	queue.Schedule(func() { calls = append(calls, 1) })
	queue.Schedule(nil)
	queue.Schedule(func() { calls = append(calls, 2) })

	if queue.Len() != 2 {
		t.Fatalf("len = %d, want 2", queue.Len())
	}
	if n := queue.Flush(); n != 2 {
		t.Fatalf("flushed %d, want 2", n)
	}
	if len(calls) != 2 || calls[0] != 1 || calls[1] != 2 {
		t.Fatalf("order = %v", calls)
	}
	if n := queue.Flush(); n != 0 {
		t.Fatalf("second flush ran %d", n)
	}
}

func TestQueue_FlushDrainsNested(t *testing.T) {
	queue := NewQueue()
	depth := 0
	var step func()
	step = func() {
		depth++
		if depth < 3 {
			queue.Schedule(step)
		}
	}
	queue.Schedule(step)
	if n := queue.Flush(); n != 3 || depth != 3 {
		t.Fatalf("flushed %d, depth %d, want 3 and 3", n, depth)
	}
}

func TestQueue_FlushBoundsRounds(t *testing.T) {
	queue := NewQueue()
	var again func()
	again = func() { queue.Schedule(again) }
	queue.Schedule(again)

	if n := queue.Flush(); n != maxFlushRounds {
		t.Fatalf("flushed %d, want %d", n, maxFlushRounds)
	}
	if queue.Len() != 1 {
		t.Fatalf("leftover = %d, want 1", queue.Len())
	}
}

func TestSchedulers(t *testing.T) {
	ran := 0
	DirectScheduler.Schedule(func() { ran++ })
	if ran != 1 {
		t.Fatalf("direct scheduler did not run inline")
	}

	var f SchedulerFunc
	f.Schedule(func() { ran++ })
	SchedulerFunc(func(fn func()) { fn() }).Schedule(nil)
	if ran != 1 {
		t.Fatalf("nil scheduler func ran a callback")
	}

	var wg sync.WaitGroup
	wg.Add(1)
	AsyncScheduler{}.Schedule(wg.Done)
	AsyncScheduler{}.Schedule(nil)
	wg.Wait()
}
