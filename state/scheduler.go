package state

import "sync"

// Scheduler decides where and when a subscription callback runs.
type Scheduler interface {
	Schedule(fn func())
}

// SchedulerFunc adapts a function into a Scheduler.
type SchedulerFunc func(func())

func (f SchedulerFunc) Schedule(fn func()) {
	if f != nil && fn != nil {
		f(fn)
	}
}

// DirectScheduler runs callbacks in the writer's goroutine, right after
// propagation settles.
var DirectScheduler Scheduler = SchedulerFunc(func(fn func()) { fn() })

// AsyncScheduler runs each callback on its own goroutine.
type AsyncScheduler struct{}

func (AsyncScheduler) Schedule(fn func()) {
	if fn != nil {
		go fn()
	}
}

// maxFlushRounds bounds how many times Flush re-drains a queue whose
// callbacks keep scheduling more callbacks.
const maxFlushRounds = 16

// Queue holds callbacks until Flush. The UI loop flushes it between
// messages so widgets only see settled values.
type Queue struct {
	mu      sync.Mutex
	pending []func()
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Schedule(fn func()) {
	if q == nil || fn == nil {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
}

// Len returns the number of callbacks waiting.
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Flush runs queued callbacks in order and returns how many ran. Callbacks
// scheduled during the flush run in the same call, up to a bounded number
// of rounds; anything left after that waits for the next Flush.
func (q *Queue) Flush() int {
	if q == nil {
		return 0
	}
	ran := 0
	for range maxFlushRounds {
		q.mu.Lock()
		batch := q.pending
		q.pending = nil
		q.mu.Unlock()
		if len(batch) == 0 {
			break
		}
		for _, fn := range batch {
			fn()
		}
		ran += len(batch)
	}
	return ran
}
