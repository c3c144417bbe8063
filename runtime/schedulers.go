package runtime

import (
	"sync/atomic"

	"github.com/odvcencio/cascade/state"
)

// QueueFlushPolicy configures which messages flush the app's state queue.
// A QueueFlushMsg always flushes.
type QueueFlushPolicy int

const (
	// FlushOnMessageAndTick flushes on any message or tick.
	FlushOnMessageAndTick QueueFlushPolicy = iota
	// FlushOnMessage flushes on messages except TickMsg.
	FlushOnMessage
	// FlushOnTick flushes only on TickMsg.
	FlushOnTick
	// FlushManual flushes only on QueueFlushMsg.
	FlushManual
)

func shouldFlushQueue(policy QueueFlushPolicy, msg Message) bool {
	if _, ok := msg.(QueueFlushMsg); ok {
		return true
	}
	_, isTick := msg.(TickMsg)
	switch policy {
	case FlushManual:
		return false
	case FlushOnMessage:
		return !isTick
	case FlushOnTick:
		return isTick
	default:
		return true
	}
}

// wakeup posts one message to the loop and then stays quiet until the loop
// has handled it and called reset. A failed post is retried on the next signal.
type wakeup struct {
	post    func(Message) bool
	msg     Message
	pending atomic.Bool
}

func (w *wakeup) signal() {
	if w.post == nil {
		return
	}
	if w.pending.CompareAndSwap(false, true) && !w.post(w.msg) {
		w.pending.Store(false)
	}
}

func (w *wakeup) reset() {
	w.pending.Store(false)
}

// QueueScheduler is the state.Scheduler handed to widgets. Callbacks are
// queued and run on the event loop when the queue is flushed, so subscribers
// never touch widgets from the goroutine that wrote a cell.
type QueueScheduler struct {
	queue *state.Queue
	wake  wakeup
}

// NewQueueScheduler wires a queue to a post function.
func NewQueueScheduler(queue *state.Queue, post func(Message) bool) *QueueScheduler {
	if queue == nil {
		queue = state.NewQueue()
	}
	return &QueueScheduler{
		queue: queue,
		wake:  wakeup{post: post, msg: QueueFlushMsg{}},
	}
}

// Schedule enqueues fn and wakes the loop to flush.
func (s *QueueScheduler) Schedule(fn func()) {
	if s == nil || fn == nil {
		return
	}
	s.queue.Schedule(fn)
	s.wake.signal()
}

func (s *QueueScheduler) resetPending() {
	if s != nil {
		s.wake.reset()
	}
}

// Invalidator requests render passes, coalescing requests made before the
// loop gets to the pending one.
type Invalidator struct {
	wake wakeup
}

// NewInvalidator creates an invalidator wired to a post function.
func NewInvalidator(post func(Message) bool) *Invalidator {
	return &Invalidator{wake: wakeup{post: post, msg: InvalidateMsg{}}}
}

// Invalidate requests a render pass.
func (i *Invalidator) Invalidate() {
	if i != nil {
		i.wake.signal()
	}
}

// Schedule runs fn in place and then requests a render pass. As a
// state.Scheduler it suits subscribers that only redraw.
func (i *Invalidator) Schedule(fn func()) {
	if fn == nil {
		return
	}
	fn()
	i.Invalidate()
}

func (i *Invalidator) resetPending() {
	if i != nil {
		i.wake.reset()
	}
}
