package runtime

import (
	"testing"
	"time"

	"github.com/odvcencio/cascade/state"
)

// postCounter records posts of one message type and answers with accept.
type postCounter struct {
	accept bool
	posts  map[string]int
}

func newPostCounter(accept bool) *postCounter {
	return &postCounter{accept: accept, posts: make(map[string]int)}
}

func (p *postCounter) post(msg Message) bool {
	switch msg.(type) {
	case QueueFlushMsg:
		p.posts["flush"]++
	case InvalidateMsg:
		p.posts["invalidate"]++
	default:
		p.posts["other"]++
	}
	return p.accept
}

func TestShouldFlushQueue(t *testing.T) {
	resize := ResizeMsg{Width: 1, Height: 1}
	cases := []struct {
		policy QueueFlushPolicy
		msg    Message
		want   bool
	}{
		{FlushManual, resize, false},
		{FlushManual, TickMsg{}, false},
		{FlushManual, QueueFlushMsg{}, true},
		{FlushOnTick, TickMsg{}, true},
		{FlushOnTick, resize, false},
		{FlushOnMessage, TickMsg{}, false},
		{FlushOnMessage, resize, true},
		{FlushOnMessageAndTick, TickMsg{Time: time.Now()}, true},
		{FlushOnMessageAndTick, resize, true},
	}
	for i, tc := range cases {
		if got := shouldFlushQueue(tc.policy, tc.msg); got != tc.want {
			t.Fatalf("case %d: policy %d, %T = %v, want %v", i, tc.policy, tc.msg, got, tc.want)
		}
	}
}

func TestQueueScheduler_DefersUntilFlush(t *testing.T) {
	queue := state.NewQueue()
	pc := newPostCounter(true)
	s := NewQueueScheduler(queue, pc.post)

	ran := 0
	s.Schedule(func() { ran++ })
	s.Schedule(func() { ran++ })
	s.Schedule(nil)
	if ran != 0 {
		t.Fatalf("callbacks ran before flush")
	}
	if pc.posts["flush"] != 1 {
		t.Fatalf("flush posts = %d, want 1", pc.posts["flush"])
	}

	if n := queue.Flush(); n != 2 || ran != 2 {
		t.Fatalf("flushed %d, ran %d, want 2 and 2", n, ran)
	}

	s.Schedule(func() {})
	if pc.posts["flush"] != 1 {
		t.Fatalf("posted again before the loop reset")
	}
	s.resetPending()
	s.Schedule(func() {})
	if pc.posts["flush"] != 2 {
		t.Fatalf("flush posts after reset = %d, want 2", pc.posts["flush"])
	}
}

func TestQueueScheduler_RetriesFullQueue(t *testing.T) {
	pc := newPostCounter(false)
	s := NewQueueScheduler(nil, pc.post)
	s.Schedule(func() {})
	s.Schedule(func() {})
	if pc.posts["flush"] != 2 {
		t.Fatalf("post attempts = %d, want 2", pc.posts["flush"])
	}
}

func TestInvalidator(t *testing.T) {
	pc := newPostCounter(true)
	inv := NewInvalidator(pc.post)

	inv.Invalidate()
	inv.Invalidate()
	if pc.posts["invalidate"] != 1 {
		t.Fatalf("invalidate posts = %d, want 1", pc.posts["invalidate"])
	}

	inv.resetPending()
	calls := 0
	inv.Schedule(func() { calls++ })
	if calls != 1 || pc.posts["invalidate"] != 2 {
		t.Fatalf("schedule ran %d times, %d posts", calls, pc.posts["invalidate"])
	}

	var nilInv *Invalidator
	nilInv.Invalidate()
	nilInv.resetPending()
}

func TestInvalidator_RetriesFullQueue(t *testing.T) {
	pc := newPostCounter(false)
	inv := NewInvalidator(pc.post)
	inv.Invalidate()
	inv.Invalidate()
	if pc.posts["invalidate"] != 2 {
		t.Fatalf("post attempts = %d, want 2", pc.posts["invalidate"])
	}
}
